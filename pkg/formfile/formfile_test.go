package formfile_test

import (
	"errors"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/formfile"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func TestLoadFS(t *testing.T) {
	defs, err := formfile.LoadFS(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var names []string
	for _, def := range defs {
		names = append(names, def.Name+"@"+def.Source)
	}
	want := []string{"Feedback@catalogue.json", "Empty@catalogue.json", "Contact@contact.yaml"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("definitions mismatch (-want +got):\n%s", diff)
	}

	contact := defs[2]
	wantFields := []model.FieldConfig{
		{Type: model.FieldTypeText, Label: "Name", Required: true},
		{Type: model.FieldTypeEmail, Label: "Email", Required: true},
		{Type: model.FieldTypeCheckbox, Label: "Topics", Required: true, Options: []string{"Sales", "Support"}},
	}
	if diff := cmp.Diff(wantFields, contact.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_Nil(t *testing.T) {
	defs, err := formfile.LoadFS(nil)
	if err != nil || defs != nil {
		t.Fatalf("expected no definitions, got %v (%v)", defs, err)
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":   "   ",
		"invalid": "{not: [json",
		"no type": `{"name":"x","fields":[{"label":"a"}]}`,
		"bad rule": `{"name":"x","fields":[{"type":"text","rules":[{"expression":"value =="}]}]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := formfile.Decode([]byte(payload), name); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestImport_ReplaysThroughStore(t *testing.T) {
	s := store.New(store.WithIDSource(testsupport.NewSequenceIDs("id")))
	defs, err := formfile.LoadFile(os.DirFS("testdata"), "contact.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ids := formfile.Import(s, defs)
	if diff := cmp.Diff([]string{"id1"}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	saved, ok := s.Form("id1")
	if !ok {
		t.Fatalf("expected imported form to be saved")
	}
	want := model.Form{
		ID:   "id1",
		Name: "Contact",
		Fields: []model.Field{
			{ID: "id2", Type: model.FieldTypeText, Label: "Name", Required: true, Order: 0},
			{ID: "id3", Type: model.FieldTypeEmail, Label: "Email", Required: true, Order: 1},
			{ID: "id4", Type: model.FieldTypeCheckbox, Label: "Topics", Required: true, Options: []string{"Sales", "Support"}, Order: 2},
		},
	}
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Fatalf("saved form mismatch (-want +got):\n%s", diff)
	}
	if s.CurrentForm().ID != "id1" {
		t.Fatalf("expected imported form to be current")
	}
}

func TestImport_FieldRulesReachValidation(t *testing.T) {
	payload := `
name: Signup
fields:
  - type: text
    label: Handle
    required: true
    rules:
      - expression: value != "admin"
        message: That handle is reserved
`
	defs, err := formfile.Decode([]byte(payload), "signup.yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	wantRules := []model.FieldRule{{Expression: `value != "admin"`, Message: "That handle is reserved"}}
	if diff := cmp.Diff(wantRules, defs[0].Fields[0].Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	s := store.New(store.WithIDSource(testsupport.NewSequenceIDs("id")))
	formfile.Import(s, defs)
	saved, ok := s.Form("id1")
	if !ok {
		t.Fatalf("expected imported form to be saved")
	}
	schema := validation.BuildSchema(saved.Fields)
	got := schema.Validate(map[string]any{"id2": "admin"})
	want := validation.Errors{"id2": {"That handle is reserved"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if got := schema.Validate(map[string]any{"id2": "ada"}); !got.Empty() {
		t.Fatalf("expected other handles to pass, got %v", got)
	}

	encoded, err := formfile.Encode(saved, formfile.FormatYAML)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(encoded), "That handle is reserved") {
		t.Fatalf("expected rules in exported definition:\n%s", encoded)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	form := testsupport.ContactForm()
	for _, format := range []formfile.Format{formfile.FormatJSON, formfile.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := formfile.Encode(form, format)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			defs, err := formfile.Decode(data, "mem")
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			want := formfile.DefinitionOf(form)
			want.Source = "mem"
			if diff := cmp.Diff([]formfile.Definition{want}, defs); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeAll(t *testing.T) {
	forms := []model.Form{testsupport.ContactForm(), model.NewForm("blank", "")}
	data, err := formfile.EncodeAll(forms, formfile.FormatYAML)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(string(data), "forms:") {
		t.Fatalf("expected forms document, got:\n%s", data)
	}
	defs, err := formfile.LoadFS(fstest.MapFS{"all.yml": {Data: data}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(defs) != 2 || defs[1].Name != model.DefaultFormName {
		t.Fatalf("unexpected definitions %+v", defs)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := formfile.ParseFormat("YML"); err != nil || f != formfile.FormatYAML {
		t.Fatalf("expected yaml, got %q (%v)", f, err)
	}
	if _, err := formfile.ParseFormat("xml"); !errors.Is(err, formfile.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := formfile.Encode(testsupport.ContactForm(), "xml"); !errors.Is(err, formfile.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
