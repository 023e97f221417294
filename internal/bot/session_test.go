package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSessionDeliversEvents(t *testing.T) {
	transport := newFakeTransport()

	var mu sync.Mutex
	var got []Event

	session, err := OpenSession(transport, "tok-1", 1, func(ctx context.Context, s *Session, ev Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})
	require.NoError(t, err)

	conn := transport.conn("tok-1")
	conn.events <- StartCommand{ChatID: 10}
	conn.events <- ContactShared{ChatID: 10, Phone: "+998901234567"}

	session.Close()

	select {
	case <-session.Done():
	case <-time.After(time.Second):
		t.Fatal("event pump did not drain after Close")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, StartCommand{ChatID: 10}, got[0])
	assert.Equal(t, ContactShared{ChatID: 10, Phone: "+998901234567"}, got[1])
}

func TestOpenSessionFailurePropagates(t *testing.T) {
	transport := newFakeTransport()
	transport.failFor["tok-bad"] = errors.New("credential rejected")

	session, err := OpenSession(transport, "tok-bad", 1, func(context.Context, *Session, Event) {})

	assert.Error(t, err)
	assert.Nil(t, session)
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	transport := newFakeTransport()

	session, err := OpenSession(transport, "tok-1", 1, func(context.Context, *Session, Event) {})
	require.NoError(t, err)

	session.Close()
	session.Close()

	select {
	case <-session.Done():
	case <-time.After(time.Second):
		t.Fatal("session did not shut down")
	}

	assert.True(t, transport.conn("tok-1").isClosed())
}
