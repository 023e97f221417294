package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// TelegramTransport opens long-polling Telegram connections, one per vendor
// token.
type TelegramTransport struct{}

func (TelegramTransport) Open(ctx context.Context, token string) (Conn, error) {
	tg, err := telego.NewBot(token, telego.WithDefaultLogger(false, true))
	if err != nil {
		return nil, fmt.Errorf("create telegram client: %w", err)
	}

	// Reject a bad token at open time instead of on the first send, so the
	// reconciler can skip the tenant and retry next tick.
	if _, err := tg.GetMe(ctx); err != nil {
		return nil, fmt.Errorf("credential rejected: %w", err)
	}

	pollCtx, cancel := context.WithCancel(ctx)
	updates, err := tg.UpdatesViaLongPolling(pollCtx, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start long polling: %w", err)
	}

	conn := &telegramConn{
		tg:     tg,
		cancel: cancel,
		events: make(chan Event, 16),
	}
	go conn.pump(updates)

	return conn, nil
}

type telegramConn struct {
	tg     *telego.Bot
	cancel context.CancelFunc
	events chan Event
}

// pump maps raw Telegram updates onto the tagged event variants. Updates
// that are none of the three are dropped.
func (c *telegramConn) pump(updates <-chan telego.Update) {
	defer close(c.events)

	for update := range updates {
		msg := update.Message
		if msg == nil {
			continue
		}

		switch {
		case msg.Contact != nil:
			c.events <- ContactShared{ChatID: msg.Chat.ID, Phone: msg.Contact.PhoneNumber}
		case msg.WebAppData != nil:
			c.events <- OrderSubmitted{ChatID: msg.Chat.ID, Data: msg.WebAppData.Data}
		case msg.Text == "/start":
			c.events <- StartCommand{ChatID: msg.Chat.ID}
		}
	}
}

func (c *telegramConn) Events() <-chan Event {
	return c.events
}

func (c *telegramConn) SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) error {
	params := tu.Message(tu.ID(chatID), text)
	if opts != nil {
		params = params.WithReplyMarkup(replyKeyboard(opts))
	}
	_, err := c.tg.SendMessage(ctx, params)
	return err
}

func (c *telegramConn) SendPhoto(ctx context.Context, chatID int64, imageURL, caption string) error {
	params := tu.Photo(tu.ID(chatID), tu.FileFromURL(imageURL)).WithCaption(caption)
	_, err := c.tg.SendPhoto(ctx, params)
	return err
}

// Close stops long polling; the update channel closes and the pump drains.
func (c *telegramConn) Close() error {
	c.cancel()
	return nil
}

func replyKeyboard(opts *SendOptions) *telego.ReplyKeyboardMarkup {
	rows := make([][]telego.KeyboardButton, 0, len(opts.Keyboard))
	for _, row := range opts.Keyboard {
		buttons := make([]telego.KeyboardButton, 0, len(row))
		for _, b := range row {
			button := telego.KeyboardButton{
				Text:           b.Text,
				RequestContact: b.RequestContact,
			}
			if b.WebAppURL != "" {
				button.WebApp = &telego.WebAppInfo{URL: b.WebAppURL}
			}
			buttons = append(buttons, button)
		}
		rows = append(rows, buttons)
	}

	return &telego.ReplyKeyboardMarkup{
		Keyboard:        rows,
		ResizeKeyboard:  opts.ResizeKeyboard,
		OneTimeKeyboard: opts.OneTimeKeyboard,
	}
}
