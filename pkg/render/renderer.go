package render

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Renderer converts a form into a byte representation (HTML, text, etc.). A
// nil form, or one without a field list, must render an explicit "form
// unavailable" notice rather than fail.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form *model.Form, options RenderOptions) ([]byte, error)
}
