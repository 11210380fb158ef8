package render

// RenderOptions describe per-request data that renderers can use without
// mutating the form.
type RenderOptions struct {
	// Action is the URL the rendered form submits to.
	Action string
	// Values pre-populates controls, keyed by field id.
	Values map[string]any
	// Errors surfaces validation messages keyed by field id.
	Errors map[string][]string
	// FormErrors are messages not tied to a single field.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs (CSRF tokens and similar).
	HiddenFields map[string]string
	// Submitted renders the post-submission confirmation instead of the
	// inputs.
	Submitted bool
}
