// Package dialog provides the confirm/cancel prompt channel between
// stores and the UI. Issuing a prompt hands back a single-shot handle;
// the UI resolves it exactly once.
package dialog

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Prompt types, mirroring the presentation variants the UI supports.
const (
	TypeSuccess = "success"
	TypeError   = "error"
	TypeWarning = "warning"
	TypeInfo    = "info"
)

// ErrPromptPending is returned when a prompt is issued while another is
// still unresolved. Prompts are rejected rather than queued: a second
// confirmation racing the first is a UI bug worth surfacing.
var ErrPromptPending = errors.New("dialog: another prompt is pending")

// Config describes one prompt.
type Config struct {
	Title       string
	Message     string
	Type        string
	ConfirmText string
	CancelText  string
	ShowCancel  bool
}

// Prompt is a single-shot pending confirmation.
type Prompt struct {
	ID     string
	Config Config

	once   sync.Once
	result chan bool
}

// Result yields the user's answer exactly once.
func (p *Prompt) Result() <-chan bool {
	return p.result
}

// Resolve records the answer. Extra calls are ignored.
func (p *Prompt) Resolve(confirmed bool) {
	p.once.Do(func() {
		p.result <- confirmed
		close(p.result)
	})
}

// Service owns the currently pending prompt, at most one at a time.
type Service struct {
	mu      sync.Mutex
	pending *Prompt
}

func NewService() *Service {
	return &Service{}
}

// Show issues a prompt. It fails with ErrPromptPending when one is
// already open.
func (s *Service) Show(cfg Config) (*Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		return nil, ErrPromptPending
	}
	p := &Prompt{
		ID:     uuid.New().String(),
		Config: cfg,
		result: make(chan bool, 1),
	}
	s.pending = p
	return p, nil
}

// Pending returns the open prompt, or nil.
func (s *Service) Pending() *Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Resolve answers the open prompt and clears it. Resolving with no
// prompt open is a no-op.
func (s *Service) Resolve(confirmed bool) {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()
	if p != nil {
		p.Resolve(confirmed)
	}
}

// Close dismisses the open prompt as cancelled.
func (s *Service) Close() {
	s.Resolve(false)
}

// Success shows an acknowledgement-only prompt.
func (s *Service) Success(message string) (*Prompt, error) {
	return s.Show(Config{Title: "Success", Message: message, Type: TypeSuccess, ConfirmText: "OK"})
}

// Error shows an error acknowledgement prompt.
func (s *Service) Error(message string) (*Prompt, error) {
	return s.Show(Config{Title: "Error", Message: message, Type: TypeError, ConfirmText: "OK"})
}

// Warning shows a warning acknowledgement prompt.
func (s *Service) Warning(message string) (*Prompt, error) {
	return s.Show(Config{Title: "Warning", Message: message, Type: TypeWarning, ConfirmText: "OK"})
}

// Info shows an informational acknowledgement prompt.
func (s *Service) Info(message string) (*Prompt, error) {
	return s.Show(Config{Title: "Information", Message: message, Type: TypeInfo, ConfirmText: "OK"})
}

// Ask shows a yes/no confirmation prompt.
func (s *Service) Ask(message string) (*Prompt, error) {
	return s.Show(Config{
		Title:       "Confirm",
		Message:     message,
		Type:        TypeInfo,
		ConfirmText: "Yes",
		CancelText:  "No",
		ShowCancel:  true,
	})
}
