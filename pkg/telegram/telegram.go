package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/schiang418/cyclescope-domain-api/config"
	"github.com/schiang418/cyclescope-domain-api/internal/dto"
	"github.com/schiang418/cyclescope-domain-api/pkg/logger"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// ErrDisabled is returned when no bot token or chat is configured.
var ErrDisabled = errors.New("telegram notifier is disabled")

// NewBot creates an offline bot: it only sends, so it never polls for updates.
func NewBot(cfg *config.TelegramConfig) (*telebot.Bot, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return telebot.NewBot(telebot.Settings{
		Token:   cfg.BotToken,
		Offline: true,
		Client:  &http.Client{Timeout: timeout},
	})
}

// Notifier posts operator messages to one chat, at most one per second.
type Notifier struct {
	cfg     *config.TelegramConfig
	log     *logger.Logger
	bot     *telebot.Bot
	chat    *telebot.Chat
	limiter *rate.Limiter
}

func NewNotifier(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *Notifier {
	return &Notifier{
		cfg:     cfg,
		log:     log,
		bot:     bot,
		chat:    &telebot.Chat{ID: cfg.ChatID},
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// SendMessage sends a plain text message to the configured chat.
func (n *Notifier) SendMessage(ctx context.Context, message string, opts ...interface{}) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit: %w", err)
	}
	if _, err := n.bot.Send(n.chat, message, opts...); err != nil {
		// logged at warn so a failing alert does not trigger another alert
		n.log.WarnContext(ctx, "Failed to send telegram message", logger.ErrorField(err))
		return err
	}
	return nil
}

// SendAlert implements logger.AlertSender.
func (n *Notifier) SendAlert(message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return n.SendMessage(ctx, message)
}

// NotifyBatch posts the summary of a finished analyze-all batch.
func (n *Notifier) NotifyBatch(ctx context.Context, result *dto.BatchResult) error {
	return n.SendMessage(ctx, FormatBatchResultForTelegram(result))
}
