package bot

import (
	"context"
	"log"
	"sync"
)

// EventFunc reacts to one inbound event on an open session.
type EventFunc func(ctx context.Context, s *Session, ev Event)

// Session is one live bot connection scoped to one vendor credential.
type Session struct {
	Token    string
	TenantID int64

	conn      Conn
	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}
}

// OpenSession establishes the long-lived connection for a credential and
// starts a goroutine draining inbound events into handle. The session lives
// until Close; it is not tied to the caller's context.
func OpenSession(transport Transport, token string, tenantID int64, handle EventFunc) (*Session, error) {
	ctx, cancel := context.WithCancel(context.Background())

	conn, err := transport.Open(ctx, token)
	if err != nil {
		cancel()
		return nil, err
	}

	session := &Session{
		Token:    token,
		TenantID: tenantID,
		conn:     conn,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go func() {
		defer close(session.done)
		for ev := range conn.Events() {
			handle(ctx, session, ev)
		}
	}()

	return session, nil
}

// SendMessage sends a text message on the open connection.
func (s *Session) SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) error {
	return s.conn.SendMessage(ctx, chatID, text, opts)
}

// SendPhoto sends a captioned photo on the open connection.
func (s *Session) SendPhoto(ctx context.Context, chatID int64, imageURL, caption string) error {
	return s.conn.SendPhoto(ctx, chatID, imageURL, caption)
}

// Close stops the inbound stream and releases the connection. Safe to call
// more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		if err := s.conn.Close(); err != nil {
			log.Printf("bot: close connection for tenant %d: %v", s.TenantID, err)
		}
	})
}

// Done is closed once the event pump has drained, which happens after Close
// or when the transport shuts the stream down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
