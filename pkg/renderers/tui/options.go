package tui

import "github.com/goliatone/go-formbuilder/pkg/filler"

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes the renderer applies to messages.
type Theme struct {
	ErrorPrefix string
	DonePrefix  string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithFillerOptions forwards options to the filler Render creates, for
// example filler.WithRecorder to store accepted submissions.
func WithFillerOptions(opts ...filler.Option) Option {
	return func(r *Renderer) {
		r.fillerOptions = append(r.fillerOptions, opts...)
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithSubmitConfirmation asks for a yes/no confirmation before every full
// validation. Declining stops the fill with ErrSubmitDeclined.
func WithSubmitConfirmation() Option {
	return func(r *Renderer) {
		r.confirmSubmit = true
	}
}
