package vanilla_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

func newRenderer(t *testing.T) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func renderString(t *testing.T, form *model.Form, options render.RenderOptions) string {
	t.Helper()
	out, err := newRenderer(t).Render(context.Background(), form, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func TestRender_UnavailableForm(t *testing.T) {
	html := renderString(t, nil, render.RenderOptions{})
	assertContains(t, html, "Form data is missing or invalid.")

	html = renderString(t, &model.Form{ID: "x"}, render.RenderOptions{})
	assertContains(t, html, "Form data is missing or invalid.")
}

func TestRender_EmptyForm(t *testing.T) {
	form := model.NewForm("empty", "Empty")
	html := renderString(t, &form, render.RenderOptions{})
	assertContains(t, html, "No fields added yet.", "<h2>Empty</h2>")
}

func TestRender_FieldsInOrderWithWidgets(t *testing.T) {
	form := testsupport.ContactForm()
	form.Fields = append(form.Fields,
		model.Field{ID: "pw", Type: model.FieldTypePassword, Label: "Password", Order: 3},
		model.Field{ID: "color", Type: model.FieldTypeSelect, Label: "Color", Options: []string{"red", "blue"}, Order: 4},
		model.Field{ID: "stars", Type: "rating", Label: "Stars", Order: 5},
	)
	html := renderString(t, &form, render.RenderOptions{
		Action: "/form/contact",
		Values: map[string]any{"name": "Ada", "topics": []any{"Support"}, "color": "blue", "pw": "secret"},
		Errors: map[string][]string{"email": {"This field is required"}},
	})

	assertContains(t, html,
		`action="/form/contact"`,
		`<input type="text" id="fb-name" name="name" value="Ada"`,
		`<input type="email" id="fb-email" name="email"`,
		`<p class="fb-error">This field is required</p>`,
		`type="checkbox" id="fb-topics-1" name="topics" value="Support" checked`,
		`<input type="password" id="fb-pw" name="pw" value=""`,
		`<option value="blue" selected>blue</option>`,
		`Select an option`,
		`<input type="text" id="fb-stars" name="stars"`,
		`<span class="fb-required">*</span>`,
		`Submit Form`,
	)

	if strings.Index(html, `data-field-id="name"`) > strings.Index(html, `data-field-id="topics"`) {
		t.Fatalf("fields rendered out of order")
	}
}

func TestRender_SanitisesAuthoredText(t *testing.T) {
	form := model.Form{ID: "x", Name: "<script>alert(1)</script>Survey", Fields: []model.Field{
		{ID: "a", Type: model.FieldTypeText, Label: `<b onclick="x()">Name</b>`},
	}}
	html := renderString(t, &form, render.RenderOptions{Values: map[string]any{"a": `"><script>`}})

	if strings.Contains(html, "<script>") || strings.Contains(html, "onclick") {
		t.Fatalf("unsanitised markup in output:\n%s", html)
	}
	assertContains(t, html, ">Name<")
}

func TestRender_SubmittedAndHiddenFields(t *testing.T) {
	form := testsupport.ContactForm()
	html := renderString(t, &form, render.RenderOptions{Submitted: true})
	assertContains(t, html, "Form submitted successfully.", "Submit Again")

	html = renderString(t, &form, render.RenderOptions{
		HiddenFields: render.MergeHiddenFields(nil, render.CSRFToken("_csrf", "tok")),
		FormErrors:   []string{"Server unavailable"},
	})
	assertContains(t, html, `<input type="hidden" name="_csrf" value="tok">`, "<li>Server unavailable</li>")
}

func TestRenderer_Metadata(t *testing.T) {
	renderer := newRenderer(t)
	if renderer.Name() != "vanilla" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected metadata %q %q", renderer.Name(), renderer.ContentType())
	}
}

func TestRender_CustomTemplatesAndWidgets(t *testing.T) {
	registry := widgets.NewRegistry()
	registry.Register("rich-text", 50, func(field model.Field) bool {
		return field.Type == model.FieldTypeTextarea
	})
	bundle := fstest.MapFS{
		"templates/form.tmpl": {Data: []byte("{{ form.name }}|{% for field in fields %}{{ field.widget }};{% endfor %}")},
	}
	renderer, err := vanilla.New(vanilla.WithTemplatesFS(bundle), vanilla.WithWidgets(registry))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := model.Form{
		ID:   "notes",
		Name: "Notes",
		Fields: []model.Field{
			{ID: "body", Type: model.FieldTypeTextarea, Label: "Body", Order: 0},
			{ID: "mail", Type: model.FieldTypeEmail, Label: "Mail", Order: 1},
		},
	}
	out, err := renderer.Render(context.Background(), &form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, want := string(out), "Notes|rich-text;text-input;"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

type recordingTemplates struct {
	name string
	data map[string]any
}

func (r *recordingTemplates) RenderTemplate(name string, data map[string]any, _ ...io.Writer) (string, error) {
	r.name = name
	r.data = data
	return "ok", nil
}

func (r *recordingTemplates) RenderString(string, map[string]any, ...io.Writer) (string, error) {
	return "", nil
}

func (r *recordingTemplates) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

func (r *recordingTemplates) GlobalContext(map[string]any) error {
	return nil
}

func TestRender_InjectedTemplateRenderer(t *testing.T) {
	templates := &recordingTemplates{}
	renderer, err := vanilla.New(vanilla.WithTemplateRenderer(templates))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	form := model.NewForm("blank", "")
	if _, err := renderer.Render(context.Background(), &form, render.RenderOptions{Action: "/form/blank"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if templates.name != "templates/form.tmpl" {
		t.Fatalf("unexpected template %q", templates.name)
	}
	if templates.data["empty"] != true || templates.data["action"] != "/form/blank" {
		t.Fatalf("unexpected template data %+v", templates.data)
	}
}
