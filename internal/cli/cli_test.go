package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/storage"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

type scriptedDriver struct {
	inputs   []string
	multi    [][]int
	confirms []bool
	infos    []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no more inputs")
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Password(context.Context, tui.InputConfig) (string, error) {
	return "", errors.New("unexpected password prompt")
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, errors.New("unexpected confirm prompt")
	}
	v := d.confirms[0]
	d.confirms = d.confirms[1:]
	return v, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	return 0, errors.New("unexpected select prompt")
}

func (d *scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	if len(d.multi) == 0 {
		return nil, errors.New("no more selections")
	}
	v := d.multi[0]
	d.multi = d.multi[1:]
	return v, nil
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", errors.New("unexpected textarea prompt")
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

type harness struct {
	backend *storage.Memory
	ids     *testsupport.SequenceIDs
	driver  *scriptedDriver
	config  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &harness{
		backend: storage.NewMemory(),
		ids:     testsupport.NewSequenceIDs("id"),
		driver:  &scriptedDriver{},
		config:  path,
	}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Run(context.Background(), append([]string{"--config", h.config}, args...),
		WithOutput(&out, &errOut),
		WithBackend(h.backend),
		WithIDSource(h.ids),
		WithPromptDriver(h.driver),
	)
	return out.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, args...)
	if err != nil {
		t.Fatalf("formbuilder %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func buildContactForm(t *testing.T, h *harness) {
	t.Helper()
	h.mustRun(t, "form", "new", "Contact")
	h.mustRun(t, "field", "add", "--type", "text", "--label", "Name", "--required")
	h.mustRun(t, "field", "add", "--type", "email", "--label", "Email", "--required")
	h.mustRun(t, "field", "add", "--type", "checkbox", "--label", "Topics", "--required", "--option", "Sales", "--option", "Support")
	h.mustRun(t, "form", "save")
}

func TestFormLifecycle(t *testing.T) {
	h := newHarness(t)
	buildContactForm(t, h)

	out := h.mustRun(t, "form", "list")
	if !strings.Contains(out, "id1") || !strings.Contains(out, "Contact") {
		t.Fatalf("expected saved form in list, got:\n%s", out)
	}

	out = h.mustRun(t, "form", "show", "id1")
	for _, want := range []string{"Name", "Email", "Topics", "Sales, Support"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in show output:\n%s", want, out)
		}
	}

	h.mustRun(t, "field", "move", "2", "0")
	h.mustRun(t, "field", "update", "id3", "--label", "E-mail")
	h.mustRun(t, "field", "remove", "id2")
	h.mustRun(t, "form", "rename", "Contact us")
	h.mustRun(t, "form", "save")

	out = h.mustRun(t, "form", "show", "id1")
	if strings.Contains(out, "Name") || !strings.Contains(out, "E-mail") || !strings.Contains(out, "Contact us") {
		t.Fatalf("unexpected form after edits:\n%s", out)
	}

	out = h.mustRun(t, "form", "list", "--query", "US")
	if !strings.Contains(out, "Contact us") {
		t.Fatalf("expected case-insensitive match, got:\n%s", out)
	}

	h.mustRun(t, "form", "delete", "id1")
	out = h.mustRun(t, "form", "list")
	if !strings.Contains(out, "No saved forms yet.") {
		t.Fatalf("expected empty list, got:\n%s", out)
	}
}

func TestFieldCommandErrors(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "field", "remove", "missing"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if _, err := h.run(t, "field", "move", "0", "1"); err == nil {
		t.Fatalf("expected error moving fields of an empty form")
	}
	if _, err := h.run(t, "form", "load", "missing"); err == nil {
		t.Fatalf("expected error for unknown form")
	}
}

func TestFillRecordsResponse(t *testing.T) {
	h := newHarness(t)
	buildContactForm(t, h)

	h.driver.inputs = []string{"", "Ada", "ada@example.com"}
	h.driver.multi = [][]int{{1}}
	out := h.mustRun(t, "fill", "id1")
	if !strings.Contains(out, `"name": "Ada"`) {
		t.Fatalf("expected values in output, got:\n%s", out)
	}
	if len(h.driver.infos) == 0 || !strings.Contains(h.driver.infos[0], "This field is required") {
		t.Fatalf("expected required message first, got %v", h.driver.infos)
	}

	out = h.mustRun(t, "responses", "id1")
	if !strings.Contains(out, `"email":"ada@example.com"`) {
		t.Fatalf("expected recorded response, got:\n%s", out)
	}
}

func TestFillConfirmDeclined(t *testing.T) {
	h := newHarness(t)
	buildContactForm(t, h)

	h.driver.inputs = []string{"Ada", "ada@example.com"}
	h.driver.multi = [][]int{{0}}
	h.driver.confirms = []bool{false}
	out := h.mustRun(t, "fill", "id1", "--confirm")
	if !strings.Contains(out, "Submission cancelled") {
		t.Fatalf("expected cancellation notice, got:\n%s", out)
	}

	out = h.mustRun(t, "responses", "id1")
	if strings.Contains(out, "ada@example.com") {
		t.Fatalf("declined submission must not be recorded:\n%s", out)
	}
}

func TestFillUnknownForm(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "fill", "nope"); err == nil {
		t.Fatalf("expected error for unknown form")
	}
}

func TestRenderHTML(t *testing.T) {
	h := newHarness(t)
	buildContactForm(t, h)

	out := h.mustRun(t, "render", "id1", "--base-url", "https://forms.example.com/")
	for _, want := range []string{"<form", `action="https://forms.example.com/form/id1"`, "Submit Form"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in html:\n%s", want, out)
		}
	}

	if _, err := h.run(t, "render", "id1", "--renderer", "pdf"); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	h := newHarness(t)
	buildContactForm(t, h)
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "contact.yaml")
	h.mustRun(t, "export", "id1", "--format", "yaml", "--output", yamlPath)
	apiPath := filepath.Join(dir, "contact.openapi.json")
	h.mustRun(t, "export", "id1", "--format", "openapi", "--output", apiPath)

	out := h.mustRun(t, "import", yamlPath)
	if !strings.Contains(out, "Imported form") {
		t.Fatalf("expected import confirmation, got:\n%s", out)
	}
	out = h.mustRun(t, "import", "--openapi", apiPath)
	if !strings.Contains(out, "Contact") {
		t.Fatalf("expected openapi import confirmation, got:\n%s", out)
	}

	out = h.mustRun(t, "form", "list")
	if got := strings.Count(out, "Contact"); got != 3 {
		t.Fatalf("expected three Contact forms, got %d:\n%s", got, out)
	}
}

func TestExportOpenAPI(t *testing.T) {
	h := newHarness(t)
	buildContactForm(t, h)
	out := h.mustRun(t, "export", "id1", "--format", "openapi", "--api-version", "2.1.0")
	for _, want := range []string{`"openapi": "3.0.3"`, `"version": "2.1.0"`, "/forms/{id}/responses", `"format": "email"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in document:\n%s", want, out)
		}
	}
}

func TestResponsesUnknownForm(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "responses", "nope"); err == nil {
		t.Fatalf("expected error for unknown form")
	}
}

func TestStatePersistsAcrossRuns(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "form", "new", "Draft")
	h.mustRun(t, "field", "add", "--type", "Dropdown")

	data, err := h.backend.Get(context.Background(), "formBuilder")
	if err != nil {
		t.Fatalf("expected persisted state: %v", err)
	}
	state, err := testsupport.DecodeState(data)
	if err != nil {
		t.Fatalf("decode state: %v", err)
	}
	want := []model.Field{{ID: "id2", Type: model.FieldTypeSelect, Label: "New Select Field", Options: []string{"Option 1", "Option 2"}}}
	if diff := cmp.Diff(want, state.CurrentForm.Fields); diff != "" {
		t.Fatalf("persisted fields mismatch (-want +got):\n%s", diff)
	}
}
