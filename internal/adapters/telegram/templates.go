package telegram

import (
	"embed"
	"io/fs"
	"text/template"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/selivandex/pulsebrief/pkg/templates"
)

// Template names
const (
	TemplateDailyBrief  = "daily_brief.tmpl"
	TemplateMarketPulse = "market_pulse.tmpl"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

var requiredTemplates = []string{
	TemplateDailyBrief,
	TemplateMarketPulse,
}

// markdownFuncs escapes content for legacy Markdown parse mode
var markdownFuncs = template.FuncMap{
	"md": func(s string) string {
		return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
	},
}

// NewTemplateManager loads the embedded notification templates
func NewTemplateManager() (*templates.Manager, error) {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, err
	}
	return templates.NewManagerWithValidation(sub, markdownFuncs, requiredTemplates)
}
