package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Dispatcher sends outgoing messages through a shared rate limiter so the
// scheduler fan-outs stay under the Bot API flood limits.
// It satisfies scheduler.Sender.
type Dispatcher struct {
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewDispatcher creates a dispatcher capped at perSecond outgoing requests.
func NewDispatcher(bot *tgbotapi.BotAPI, log *zap.Logger, perSecond float64) *Dispatcher {
	if perSecond <= 0 {
		perSecond = 1
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &Dispatcher{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		log:     log,
	}
}

func (d *Dispatcher) send(c tgbotapi.Chattable) error {
	if err := d.limiter.Wait(context.Background()); err != nil {
		return err
	}
	_, err := d.bot.Send(c)
	return err
}

// Send sends a plain text message.
func (d *Dispatcher) Send(chatID int64, text string) error {
	return d.send(tgbotapi.NewMessage(chatID, text))
}

// SendHTML sends a message rendered in HTML parse mode.
func (d *Dispatcher) SendHTML(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return d.send(msg)
}

// SendWithContactButton attaches an inline button that opens a private chat
// with the given user.
func (d *Dispatcher) SendWithContactButton(chatID int64, text, label string, userID int64) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(label, fmt.Sprintf("tg://user?id=%d", userID)),
		),
	)
	return d.send(msg)
}

// SendWithMenuButton attaches the "back to menu" inline button.
func (d *Dispatcher) SendWithMenuButton(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = menuKeyboard()
	return d.send(msg)
}

// Reachable probes the private chat with a typing action. A user who blocked
// the bot or never started it makes the probe fail.
func (d *Dispatcher) Reachable(userID int64) bool {
	if err := d.limiter.Wait(context.Background()); err != nil {
		return false
	}
	if _, err := d.bot.Request(tgbotapi.NewChatAction(userID, tgbotapi.ChatTyping)); err != nil {
		d.log.Debug("reachability probe failed", zap.Int64("user", userID), zap.Error(err))
		return false
	}
	return true
}
