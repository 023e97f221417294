package bot

import "context"

// Button is one reply-keyboard button.
type Button struct {
	Text           string
	RequestContact bool
	WebAppURL      string
}

// SendOptions carries the optional reply keyboard for a text message.
type SendOptions struct {
	Keyboard        [][]Button
	OneTimeKeyboard bool
	ResizeKeyboard  bool
}

// Conn is one live connection to the messaging provider. Events are
// delivered on the channel until Close; the channel is closed afterwards.
type Conn interface {
	Events() <-chan Event
	SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) error
	SendPhoto(ctx context.Context, chatID int64, imageURL, caption string) error
	Close() error
}

// Transport opens long-lived connections for a bot credential. It is an
// interface so tests can feed synthetic events instead of talking to
// Telegram.
type Transport interface {
	Open(ctx context.Context, token string) (Conn, error)
}
