package apiclient

// Notifier receives user-visible notifications for failed requests.
// The UI layer decides presentation; the client only reports.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LoadingSink is toggled around requests that opt into the global
// loading indicator.
type LoadingSink interface {
	SetLoading(active bool)
}

// Query holds query-string parameters. Nil and empty-string values are
// stripped before sending so the server never sees explicit nulls.
type Query map[string]any

type requestConfig struct {
	alertError  bool
	showLoading bool
	query       Query
}

// RequestOption adjusts a single call. Defaults: error alerts on,
// loading indicator on, no query parameters.
type RequestOption func(*requestConfig)

// WithAlert controls whether a failure routes to the global notifier.
func WithAlert(alert bool) RequestOption {
	return func(c *requestConfig) { c.alertError = alert }
}

// WithLoading controls whether the call toggles the global loading
// indicator. Silent background calls pass WithLoading(false).
func WithLoading(loading bool) RequestOption {
	return func(c *requestConfig) { c.showLoading = loading }
}

// WithQuery attaches query-string parameters to the call.
func WithQuery(q Query) RequestOption {
	return func(c *requestConfig) { c.query = q }
}

func buildConfig(opts []RequestOption) requestConfig {
	cfg := requestConfig{alertError: true, showLoading: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
