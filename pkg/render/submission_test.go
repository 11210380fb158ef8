package render_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.CSRFToken("_csrf", "token123"),
		render.Hidden(" version ", 4),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing": "keep",
		"_csrf":    "token123",
		"version":  "4",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "existing", Value: "keep"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSubmission(t *testing.T) {
	form := model.Form{Fields: []model.Field{
		{ID: "name", Type: model.FieldTypeText},
		{ID: "topics", Type: model.FieldTypeCheckbox},
		{ID: "age", Type: model.FieldTypeNumber},
	}}
	posted := url.Values{
		"name":   {"Ada", "ignored"},
		"topics": {"a", "c"},
		"_csrf":  {"token"},
	}

	got := render.DecodeSubmission(form, posted)
	want := model.Values{"name": "Ada", "topics": []string{"a", "c"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

type namedRenderer struct{ name string }

func (n namedRenderer) Name() string        { return n.name }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(_ context.Context, _ *model.Form, _ render.RenderOptions) ([]byte, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	reg := render.NewRegistry()
	if err := reg.Register(namedRenderer{name: "b"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	reg.MustRegister(namedRenderer{name: "a"})

	if err := reg.Register(namedRenderer{name: "a"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register(namedRenderer{}); err == nil {
		t.Fatalf("expected error for unnamed renderer")
	}
	if diff := cmp.Diff([]string{"a", "b"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if _, err := reg.Get("missing"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	if !reg.Has("a") {
		t.Fatalf("expected renderer a")
	}
}
