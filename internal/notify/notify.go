// Package notify is the snackbar analog: a small fan-out point for
// user-visible messages that stores report into and the UI presents.
package notify

import (
	"fmt"
	"log"
)

// Notifier presents transient user-visible messages.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier writes notifications through the standard logger. It is
// the default sink for headless use and tests.
type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	log.Printf("[Notify] OK: %s", message)
}

func (LogNotifier) Error(message string) {
	log.Printf("[Notify] ERROR: %s", message)
}

// Console prints notifications to stdout for interactive terminal use.
type Console struct{}

func (Console) Success(message string) {
	fmt.Printf("✔ %s\n", message)
}

func (Console) Error(message string) {
	fmt.Printf("✘ %s\n", message)
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	Successes []string
	Errors    []string
}

func (r *Recorder) Success(message string) { r.Successes = append(r.Successes, message) }
func (r *Recorder) Error(message string)   { r.Errors = append(r.Errors, message) }
