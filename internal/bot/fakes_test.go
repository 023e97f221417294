package bot

import (
	"context"
	"sync"
)

type sentMessage struct {
	ChatID int64
	Text   string
	Opts   *SendOptions
}

type sentPhoto struct {
	ChatID   int64
	ImageURL string
	Caption  string
}

// fakeConn records outbound sends and lets tests feed inbound events.
type fakeConn struct {
	mu       sync.Mutex
	events   chan Event
	messages []sentMessage
	photos   []sentPhoto
	closed   bool

	sendMessageErr error
	sendPhotoErr   error
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan Event, 16)}
}

func (c *fakeConn) Events() <-chan Event {
	return c.events
}

func (c *fakeConn) SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendMessageErr != nil {
		return c.sendMessageErr
	}
	c.messages = append(c.messages, sentMessage{ChatID: chatID, Text: text, Opts: opts})
	return nil
}

func (c *fakeConn) SendPhoto(ctx context.Context, chatID int64, imageURL, caption string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendPhotoErr != nil {
		return c.sendPhotoErr
	}
	c.photos = append(c.photos, sentPhoto{ChatID: chatID, ImageURL: imageURL, Caption: caption})
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.events)
	}
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) sentMessages() []sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sentMessage(nil), c.messages...)
}

func (c *fakeConn) sentPhotos() []sentPhoto {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sentPhoto(nil), c.photos...)
}

// fakeTransport hands out fakeConns keyed by credential and counts opens.
type fakeTransport struct {
	mu      sync.Mutex
	conns   map[string]*fakeConn
	opens   map[string]int
	failFor map[string]error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		conns:   make(map[string]*fakeConn),
		opens:   make(map[string]int),
		failFor: make(map[string]error),
	}
}

func (t *fakeTransport) Open(ctx context.Context, token string) (Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.opens[token]++
	if err := t.failFor[token]; err != nil {
		return nil, err
	}

	conn := newFakeConn()
	t.conns[token] = conn
	return conn, nil
}

func (t *fakeTransport) openCount(token string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opens[token]
}

func (t *fakeTransport) conn(token string) *fakeConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conns[token]
}

// fakeStore is an in-memory CredentialStore.
type fakeStore struct {
	mu      sync.Mutex
	tenants []BotTenant
	saved   map[int64]string
	listErr error
}

func newFakeStore(tenants ...BotTenant) *fakeStore {
	return &fakeStore{tenants: tenants, saved: make(map[int64]string)}
}

func (s *fakeStore) ListBotTenants(ctx context.Context) ([]BotTenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]BotTenant(nil), s.tenants...), nil
}

func (s *fakeStore) SaveToken(ctx context.Context, tenantID int64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[tenantID] = token
	return nil
}

func (s *fakeStore) setTenants(tenants ...BotTenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants = tenants
}

func (s *fakeStore) savedToken(tenantID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[tenantID]
}
