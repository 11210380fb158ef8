package formbuilder

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func TestEmbeddedTemplatesContainsForm(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("expected form template to be readable: %v", err)
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(context.Background(), testsupport.ContactForm(), RenderOptions{Action: "/form/contact"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `action="/form/contact"`) {
		t.Fatalf("expected action attribute, got:\n%s", out)
	}
}

func TestValidate(t *testing.T) {
	errs, err := Validate(testsupport.ContactForm(), Values{"name": "Ada"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := errs.For("email"); len(got) != 1 || got[0] != validation.MessageRequired {
		t.Fatalf("unexpected email errors %v", got)
	}
	if _, err := Validate(Form{ID: "broken"}, nil); !errors.Is(err, validation.ErrFormUnavailable) {
		t.Fatalf("expected ErrFormUnavailable, got %v", err)
	}
}

func TestOpenFillerRecords(t *testing.T) {
	s := NewStore()
	s.CreateNewForm("Quick")
	s.AddField(FieldConfig{Type: model.FieldTypeText, Label: "Name", Required: true})
	s.SaveForm()
	id := s.CurrentForm().ID

	f, err := OpenFiller(s, id)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	f.Change(s.CurrentForm().Fields[0].ID, "Ada")
	if errs, err := f.Submit(context.Background()); err != nil || !errs.Empty() {
		t.Fatalf("submit: %v %v", errs, err)
	}
	list, _ := s.Responses(id)
	if len(list) != 1 {
		t.Fatalf("expected one response, got %d", len(list))
	}

	preview, err := OpenFiller(NewStore(), "missing")
	if err == nil || preview != nil {
		t.Fatalf("expected error for unknown form")
	}
}

func TestOpenAPIDocument(t *testing.T) {
	doc, err := OpenAPIDocument(context.Background(), testsupport.ContactForm())
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.Info.Title != "Contact" {
		t.Fatalf("unexpected title %q", doc.Info.Title)
	}
}
