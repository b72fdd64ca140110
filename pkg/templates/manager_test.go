package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"text/template"
	"time"
)

func TestNewManagerFS_RendersNestedTemplates(t *testing.T) {
	fsys := fstest.MapFS{
		"greeting.tmpl":       {Data: []byte(`Hello {{ upper .Name }}`)},
		"alerts/summary.tmpl": {Data: []byte(`{{ join .Items ", " }} on {{ date .At "2006-01-02" }}`)},
	}

	m, err := NewManagerFS(fsys, nil)
	if err != nil {
		t.Fatalf("NewManagerFS() error = %v", err)
	}

	got, err := m.ExecuteTemplate("greeting.tmpl", map[string]string{"Name": "brief"})
	if err != nil || got != "Hello BRIEF" {
		t.Fatalf("greeting = %q, %v", got, err)
	}

	got, err = m.ExecuteTemplate("summary.tmpl", map[string]any{
		"Items": []string{"rates", "crypto"},
		"At":    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil || got != "rates, crypto on 2025-06-01" {
		t.Fatalf("summary = %q, %v", got, err)
	}
}

func TestNewManagerFS_CustomFuncs(t *testing.T) {
	fsys := fstest.MapFS{"x.tmpl": {Data: []byte(`{{ shout . }}`)}}

	m, err := NewManagerFS(fsys, template.FuncMap{"shout": func(s string) string { return s + "!" }})
	if err != nil {
		t.Fatalf("NewManagerFS() error = %v", err)
	}
	if got, _ := m.ExecuteTemplate("x.tmpl", "pulse"); got != "pulse!" {
		t.Errorf("got %q", got)
	}
}

func TestNewManagerFS_Errors(t *testing.T) {
	if _, err := NewManagerFS(fstest.MapFS{}, nil); err == nil {
		t.Error("expected error for empty fs")
	}

	m, err := NewManagerFS(fstest.MapFS{"a.tmpl": {Data: []byte(`a`)}}, nil)
	if err != nil {
		t.Fatalf("NewManagerFS() error = %v", err)
	}
	if _, err := m.ExecuteTemplate("missing.tmpl", nil); err == nil {
		t.Error("expected error for missing template")
	}

	_, err = NewManagerWithValidation(fstest.MapFS{"a.tmpl": {Data: []byte(`a`)}}, nil, []string{"a.tmpl", "b.tmpl"})
	if err == nil || !strings.Contains(err.Error(), "b.tmpl") {
		t.Errorf("expected missing b.tmpl error, got %v", err)
	}
}

func TestNewManager_Directory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.tmpl"), []byte(`hi {{ add 1 2 }}`), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if got, _ := m.ExecuteTemplate("hello.tmpl", nil); got != "hi 3" {
		t.Errorf("got %q", got)
	}
	if m.Source() != dir {
		t.Errorf("Source() = %q", m.Source())
	}
}
