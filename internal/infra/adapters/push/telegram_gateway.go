package push

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"travel-ai-planner/internal/domain/ports/adapter"
	"travel-ai-planner/internal/domain/ports/repository"
)

var _ adapter.PushGateway = (*TelegramGateway)(nil)

// TelegramGateway delivers notifications to a user's linked Telegram chat.
type TelegramGateway struct {
	bot *tgbotapi.BotAPI
	log zerolog.Logger
}

func NewTelegramGateway(token string, logger *zerolog.Logger) (*TelegramGateway, error) {
	if token == "" {
		return nil, errors.New("telegram token empty")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramGateway{
		bot: bot,
		log: logger.With().Str("component", "push.telegram").Logger(),
	}, nil
}

func (t *TelegramGateway) Send(ctx context.Context, prefs *repository.NotificationPrefs, msg adapter.PushMessage) error {
	if prefs == nil || prefs.TelegramChatID == 0 {
		return errors.New("no telegram chat linked")
	}
	text := msg.Title
	if msg.Body != "" {
		text += "\n" + msg.Body
	}
	m := tgbotapi.NewMessage(prefs.TelegramChatID, text)
	if _, err := t.bot.Send(m); err != nil {
		t.log.Warn().Err(err).Int64("chat_id", prefs.TelegramChatID).Msg("telegram send failed")
		return err
	}
	return nil
}
