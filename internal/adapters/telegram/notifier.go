package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/internal/adapters/config"
	"github.com/selivandex/pulsebrief/internal/brief"
	"github.com/selivandex/pulsebrief/internal/pulse"
	"github.com/selivandex/pulsebrief/pkg/daykey"
	"github.com/selivandex/pulsebrief/pkg/logger"
	"github.com/selivandex/pulsebrief/pkg/templates"
)

// Sender is the part of tgbotapi.BotAPI used for publishing
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts newly stored briefs and pulse updates to a chat
type Notifier struct {
	api       Sender
	chatID    int64
	templates templates.Renderer
}

// NewNotifier creates Telegram notifier from config
func NewNotifier(cfg *config.TelegramConfig, renderer templates.Renderer) (*Notifier, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false

	logger.Info("telegram notifier initialized",
		zap.String("bot_username", bot.Self.UserName),
		zap.Int64("chat_id", cfg.ChatID),
	)

	return newNotifier(bot, cfg.ChatID, renderer), nil
}

func newNotifier(api Sender, chatID int64, renderer templates.Renderer) *Notifier {
	return &Notifier{api: api, chatID: chatID, templates: renderer}
}

type briefMessage struct {
	Day string
	brief.Content
}

// PublishBrief sends the daily brief
func (n *Notifier) PublishBrief(ctx context.Context, rec brief.Record) error {
	msg, err := n.templates.ExecuteTemplate(TemplateDailyBrief, briefMessage{
		Day:     daykey.DayKey(rec.Date),
		Content: rec.Content,
	})
	if err != nil {
		return err
	}

	return n.sendMessageMarkdown(msg)
}

type pulseMessage struct {
	pulse.Record
	pulse.Content
	Parsed bool
}

// PublishPulse sends a market pulse update. Text that does not decode is
// sent as-is.
func (n *Notifier) PublishPulse(ctx context.Context, rec pulse.Record) error {
	content, ok := pulse.Parse(rec.UpdateText)

	msg, err := n.templates.ExecuteTemplate(TemplateMarketPulse, pulseMessage{
		Record:  rec,
		Content: content,
		Parsed:  ok,
	})
	if err != nil {
		return err
	}

	return n.sendMessageMarkdown(msg)
}

func (n *Notifier) sendMessageMarkdown(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		logger.Error("failed to send telegram message",
			zap.Int64("chat_id", n.chatID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}
