package web

import (
	"html/template"
	"os"
	"path/filepath"
	"testing"
)

func TestRendererDropsParseRacingInvalidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte("<p>v1</p>"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := &templateRenderer{path: path, cache: true}

	// the file changes and the watcher invalidates while v1 is being parsed
	parseFiles = func(filenames ...string) (*template.Template, error) {
		tmpl, err := template.ParseFiles(filenames...)
		if err := os.WriteFile(path, []byte("<p>v2</p>"), 0o644); err != nil {
			t.Fatal(err)
		}
		r.Invalidate()
		return tmpl, err
	}
	defer func() { parseFiles = template.ParseFiles }()

	body, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "<p>v1</p>" {
		t.Fatalf("first render = %q, want v1", body)
	}

	parseFiles = template.ParseFiles
	body, err = r.Render()
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "<p>v2</p>" {
		t.Errorf("render after invalidate = %q, want v2 (stale parse was cached)", body)
	}
}

func TestRendererCachesBetweenInvalidations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := &templateRenderer{path: path, cache: true}

	calls := 0
	parseFiles = func(filenames ...string) (*template.Template, error) {
		calls++
		return template.ParseFiles(filenames...)
	}
	defer func() { parseFiles = template.ParseFiles }()

	for i := 0; i < 3; i++ {
		if _, err := r.Render(); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("parsed %d times, want 1", calls)
	}
	r.Invalidate()
	if _, err := r.Render(); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("parsed %d times after invalidate, want 2", calls)
	}
}
