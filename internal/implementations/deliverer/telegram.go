package deliverer

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/reminder"
	"context"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type botAPI interface {
	Send(c tg.Chattable) (tg.Message, error)
	GetMe() (tg.User, error)
}

// Telegram sends notifications as bot messages to a single chat.
type Telegram struct {
	bot    botAPI
	chatID int64
}

func NewTelegram(bot botAPI, chatID int64) *Telegram {
	if bot == nil {
		panic(e.NewNilArgumentError("bot"))
	}
	return &Telegram{bot: bot, chatID: chatID}
}

func (t *Telegram) Deliver(ctx context.Context, n reminder.Notification, behavior reminder.DisplayBehavior) error {
	if !behavior.ShowAlert {
		return nil
	}
	msg := tg.NewMessage(t.chatID, n.Title+"\n"+n.Body)
	msg.DisableNotification = !behavior.PlaySound
	_, err := t.bot.Send(msg)
	return err
}

func (t *Telegram) Available(ctx context.Context) bool {
	_, err := t.bot.GetMe()
	return err == nil
}
