package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormClone_DoesNotAlias(t *testing.T) {
	form := Form{
		ID:   "f",
		Name: "Form",
		Fields: []Field{
			{ID: "a", Type: FieldTypeCheckbox, Options: []string{"x", "y"}, Order: 0},
		},
		Responses: []Response{{Values: Values{"a": []any{"x"}, "meta": map[string]any{"k": "v"}}}},
	}

	clone := form.Clone()
	clone.Fields[0].Options[0] = "changed"
	clone.Responses[0].Values["a"].([]any)[0] = "changed"
	clone.Responses[0].Values["meta"].(map[string]any)["k"] = "changed"

	if form.Fields[0].Options[0] != "x" {
		t.Fatalf("options aliased")
	}
	if form.Responses[0].Values["a"].([]any)[0] != "x" {
		t.Fatalf("response list aliased")
	}
	if form.Responses[0].Values["meta"].(map[string]any)["k"] != "v" {
		t.Fatalf("response map aliased")
	}
}

func TestFieldPatchApply(t *testing.T) {
	field := Field{ID: "a", Type: FieldTypeText, Label: "Old", Placeholder: "p", Order: 2}
	label := "New"
	required := true

	got := FieldPatch{ID: "ignored", Label: &label, Required: &required}.Apply(field)
	want := Field{ID: "a", Type: FieldTypeText, Label: "New", Placeholder: "p", Required: true, Order: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("patch mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldTypeResolved(t *testing.T) {
	if got := FieldType("rating").Resolved(); got != FieldTypeText {
		t.Fatalf("unknown type resolved to %q", got)
	}
	if got := FieldTypeDate.Resolved(); got != FieldTypeDate {
		t.Fatalf("known type resolved to %q", got)
	}
}

func TestFieldChoices_IgnoresOptionsOnPlainTypes(t *testing.T) {
	field := Field{Type: FieldTypeText, Options: []string{"stray"}}
	if field.Choices() != nil {
		t.Fatalf("text fields must not expose options")
	}
}

func TestNewForm_DefaultName(t *testing.T) {
	form := NewForm("id", "   ")
	if form.Name != DefaultFormName || form.Fields == nil {
		t.Fatalf("unexpected form %+v", form)
	}
}
