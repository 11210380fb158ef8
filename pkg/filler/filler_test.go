package filler_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/filler"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/responses"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

func seededStore() *store.Store {
	return store.New(store.WithState(model.State{Forms: []model.Form{testsupport.ContactForm()}}))
}

func TestOpen_UnknownForm(t *testing.T) {
	_, err := filler.Open(seededStore(), "missing")
	if !errors.Is(err, filler.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
}

func TestOpen_NilSource(t *testing.T) {
	if _, err := filler.Open(nil, "x"); !errors.Is(err, validation.ErrFormUnavailable) {
		t.Fatalf("expected ErrFormUnavailable, got %v", err)
	}
	if _, err := filler.New(model.Form{ID: "broken"}); !errors.Is(err, validation.ErrFormUnavailable) {
		t.Fatalf("expected ErrFormUnavailable for missing field list, got %v", err)
	}
}

func TestFill_SubmitRecordsResponse(t *testing.T) {
	s := seededStore()
	recorder := responses.NewRecorder(s)
	f, err := filler.Open(s, "contact", filler.WithRecorder(recorder))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	errs, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := validation.Errors{
		"name":   {validation.MessageRequired},
		"email":  {validation.MessageRequired},
		"topics": {validation.MessageSelectOne},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	f.Change("name", "Ada")
	f.Change("email", "ada@example.com")
	f.Change("topics", []string{"Support"})
	errs, err = f.Submit(context.Background())
	if err != nil || !errs.Empty() || !f.Submitted() {
		t.Fatalf("expected accepted submission, got %v %v", errs, err)
	}

	got, _ := s.Responses("contact")
	if len(got) != 1 {
		t.Fatalf("expected one recorded response, got %d", len(got))
	}
	if diff := cmp.Diff(model.Values{"name": "Ada", "email": "ada@example.com", "topics": []string{"Support"}}, got[0].Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	f.Reset()
	if f.Submitted() || len(f.Values()) != 0 {
		t.Fatalf("reset should allow submitting again")
	}
}

func TestOpenCurrent_UnsavedFormIsRejected(t *testing.T) {
	s := store.New()
	s.AddField(model.FieldConfig{Type: model.FieldTypeText, Label: "Name"})
	f, err := filler.OpenCurrent(s, filler.WithRecorder(responses.NewRecorder(s)))
	if err != nil {
		t.Fatalf("open current: %v", err)
	}

	if _, err := f.Submit(context.Background()); !errors.Is(err, responses.ErrFormNotSaved) {
		t.Fatalf("expected ErrFormNotSaved, got %v", err)
	}
	if f.Submitted() {
		t.Fatalf("unsaved submission must not be accepted")
	}
}

func TestOpenCurrent_PreviewWithoutRecorder(t *testing.T) {
	s := store.New()
	f, err := filler.OpenCurrent(s)
	if err != nil {
		t.Fatalf("open current: %v", err)
	}
	if _, err := f.Submit(context.Background()); err != nil || !f.Submitted() {
		t.Fatalf("preview submission should be accepted, got %v", err)
	}
}

func TestBindings(t *testing.T) {
	f, err := filler.Open(seededStore(), "contact")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	f.Change("email", "nope")

	bindings := f.Bindings()
	got := make([]string, len(bindings))
	for idx, binding := range bindings {
		got[idx] = binding.Widget
	}
	want := []string{widgets.WidgetTextInput, widgets.WidgetTextInput, widgets.WidgetCheckboxGroup}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("widgets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{validation.MessageInvalidEmail}, bindings[1].Messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if bindings[1].Value != "nope" {
		t.Fatalf("expected bound value, got %v", bindings[1].Value)
	}
}

func TestShareLink(t *testing.T) {
	cases := map[string]string{
		"https://forms.example.com":  "https://forms.example.com/form/123",
		"https://forms.example.com/": "https://forms.example.com/form/123",
	}
	for base, want := range cases {
		if got := filler.ShareLink(base, "123"); got != want {
			t.Fatalf("ShareLink(%q) = %q, want %q", base, got, want)
		}
	}
}
