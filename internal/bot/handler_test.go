package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlerSession(t *testing.T) (*Handler, *Session, *fakeConn) {
	t.Helper()

	transport := newFakeTransport()
	h := &Handler{WebAppBaseURL: "https://shop.example"}

	session, err := OpenSession(transport, "tok-1", 42, h.Handle)
	require.NoError(t, err)
	t.Cleanup(session.Close)

	return h, session, transport.conn("tok-1")
}

func TestHandleStartSendsWelcomeAndContactPrompt(t *testing.T) {
	h, session, conn := newHandlerSession(t)

	h.Handle(context.Background(), session, StartCommand{ChatID: 10})

	messages := conn.sentMessages()
	require.Len(t, messages, 2)

	assert.Equal(t, int64(10), messages[0].ChatID)
	assert.Nil(t, messages[0].Opts)

	prompt := messages[1]
	require.NotNil(t, prompt.Opts)
	require.Len(t, prompt.Opts.Keyboard, 1)
	require.Len(t, prompt.Opts.Keyboard[0], 1)
	assert.True(t, prompt.Opts.Keyboard[0][0].RequestContact)
	assert.True(t, prompt.Opts.OneTimeKeyboard)
	assert.True(t, prompt.Opts.ResizeKeyboard)
}

func TestHandleContactLinksTenantCatalog(t *testing.T) {
	h, session, conn := newHandlerSession(t)

	h.Handle(context.Background(), session, ContactShared{ChatID: 10, Phone: "+998901234567"})

	messages := conn.sentMessages()
	require.Len(t, messages, 1)

	assert.Contains(t, messages[0].Text, "+998901234567")
	require.NotNil(t, messages[0].Opts)
	require.Len(t, messages[0].Opts.Keyboard, 1)
	assert.Equal(t, "https://shop.example/orders/42", messages[0].Opts.Keyboard[0][0].WebAppURL)
}

func TestHandleOrderSendsConfirmationAndPhotos(t *testing.T) {
	h, session, conn := newHandlerSession(t)

	payload := `{
		"bouquets": [
			{"image": "https://img.example/b1.png", "price": 15000},
			{"image": "https://img.example/b2.png", "price": 250000}
		],
		"flowers": [
			{"image": "https://img.example/f1.png", "price": 9000}
		]
	}`

	h.Handle(context.Background(), session, OrderSubmitted{ChatID: 10, Data: payload})

	messages := conn.sentMessages()
	require.Len(t, messages, 1)

	photos := conn.sentPhotos()
	require.Len(t, photos, 3)

	// Bouquets first, then flowers, each captioned with its price.
	assert.Equal(t, "https://img.example/b1.png", photos[0].ImageURL)
	assert.Equal(t, "15 000 so'm", photos[0].Caption)
	assert.Equal(t, "250 000 so'm", photos[1].Caption)
	assert.Equal(t, "https://img.example/f1.png", photos[2].ImageURL)
	assert.Equal(t, "9 000 so'm", photos[2].Caption)
}

func TestHandleOrderDropsMalformedPayload(t *testing.T) {
	h, session, conn := newHandlerSession(t)

	h.Handle(context.Background(), session, OrderSubmitted{ChatID: 10, Data: "{not json"})

	assert.Empty(t, conn.sentMessages())
	assert.Empty(t, conn.sentPhotos())

	// The session must survive a bad payload.
	h.Handle(context.Background(), session, StartCommand{ChatID: 10})
	assert.Len(t, conn.sentMessages(), 2)
}

func TestHandleOrderContinuesPastSendFailures(t *testing.T) {
	h, session, conn := newHandlerSession(t)

	conn.sendPhotoErr = errors.New("blocked by user")

	payload := `{"bouquets": [{"image": "a.png", "price": 1000}, {"image": "b.png", "price": 2000}]}`
	h.Handle(context.Background(), session, OrderSubmitted{ChatID: 10, Data: payload})

	// Confirmation still goes out and the handler does not panic or stop.
	assert.Len(t, conn.sentMessages(), 1)
	assert.Empty(t, conn.sentPhotos())
}

func TestParseOrderPayload(t *testing.T) {
	payload, err := ParseOrderPayload(`{"bouquets":[{"image":"x.png","price":100}],"flowers":[]}`)
	require.NoError(t, err)
	require.Len(t, payload.Bouquets, 1)
	assert.Equal(t, int64(100), payload.Bouquets[0].Price)
	assert.Empty(t, payload.Flowers)

	_, err = ParseOrderPayload("not json")
	assert.Error(t, err)
}
