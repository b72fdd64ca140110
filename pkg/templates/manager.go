package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/pkg/logger"
)

// Renderer interface for template rendering (for dependency injection)
type Renderer interface {
	ExecuteTemplate(name string, data any) (string, error)
	TemplateExists(name string) bool
}

// Manager manages a set of named text templates
type Manager struct {
	templates *template.Template
	source    string
}

// GetDefaultFuncMap returns common template helper functions
func GetDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"add":    func(a, b int) int { return a + b },
		"printf": fmt.Sprintf,
		"join":   strings.Join,
		"upper":  strings.ToUpper,
		"date": func(t time.Time, layout string) string {
			return t.Format(layout)
		},
	}
}

// DefaultPatterns matches templates up to two directories deep
var DefaultPatterns = []string{"*.tmpl", "*/*.tmpl", "*/*/*.tmpl"}

// NewManager loads all templates under templatesDir
func NewManager(templatesDir string) (*Manager, error) {
	m, err := NewManagerFS(os.DirFS(templatesDir), nil)
	if err != nil {
		return nil, fmt.Errorf("%w (directory %s)", err, templatesDir)
	}
	m.source = templatesDir
	return m, nil
}

// NewManagerFS loads templates from fsys. funcs extend the default func map;
// patterns default to DefaultPatterns.
func NewManagerFS(fsys fs.FS, funcs template.FuncMap, patterns ...string) (*Manager, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	funcMap := GetDefaultFuncMap()
	for name, fn := range funcs {
		funcMap[name] = fn
	}

	tmpl := template.New("root").Funcs(funcMap)
	for _, pattern := range patterns {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid template pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			continue
		}
		if tmpl, err = tmpl.ParseFS(fsys, pattern); err != nil {
			return nil, fmt.Errorf("failed to parse templates %q: %w", pattern, err)
		}
	}

	templateCount := len(tmpl.Templates())
	if tmpl.Lookup("root") != nil {
		templateCount-- // "root" template doesn't count
	}
	if templateCount == 0 {
		return nil, fmt.Errorf("no templates found")
	}

	logger.Debug("templates loaded",
		zap.Int("count", templateCount),
	)

	return &Manager{templates: tmpl, source: "fs"}, nil
}

// NewManagerWithValidation creates manager and validates required templates exist
func NewManagerWithValidation(fsys fs.FS, funcs template.FuncMap, requiredTemplates []string) (*Manager, error) {
	manager, err := NewManagerFS(fsys, funcs)
	if err != nil {
		return nil, err
	}

	for _, name := range requiredTemplates {
		if !manager.TemplateExists(name) {
			return nil, fmt.Errorf("required template not found: %s", name)
		}
	}

	return manager, nil
}

// ExecuteTemplate renders template with data
func (m *Manager) ExecuteTemplate(name string, data any) (string, error) {
	tmpl := m.templates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// TemplateExists checks if template exists
func (m *Manager) TemplateExists(name string) bool {
	return m.templates.Lookup(name) != nil
}

// Source returns where templates were loaded from
func (m *Manager) Source() string {
	return m.source
}
