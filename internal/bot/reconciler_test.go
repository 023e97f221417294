package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mirzamurod/flowers-backend/internal/ws"
)

type capturedEvents struct {
	mu     sync.Mutex
	events []ws.WsEvent
}

func (c *capturedEvents) Publish(event ws.WsEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *capturedEvents) all() []ws.WsEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ws.WsEvent(nil), c.events...)
}

func newTestReconciler(store *fakeStore, transport *fakeTransport) (*Reconciler, *Registry) {
	registry := NewRegistry()
	return &Reconciler{
		Store:     store,
		Registry:  registry,
		Transport: transport,
		Handler:   &Handler{WebAppBaseURL: "https://shop.example"},
	}, registry
}

func TestReconcileStartsStoredCredentials(t *testing.T) {
	store := newFakeStore(
		BotTenant{TenantID: 1, Token: "tok-1"},
		BotTenant{TenantID: 2, Token: "tok-2"},
	)
	transport := newFakeTransport()
	r, registry := newTestReconciler(store, transport)

	require.NoError(t, r.Reconcile(context.Background()))

	assert.Equal(t, 2, registry.Len())
	require.NotNil(t, registry.Lookup("tok-1"))
	require.NotNil(t, registry.Lookup("tok-2"))
	assert.Equal(t, int64(1), registry.Lookup("tok-1").TenantID)
	assert.Equal(t, int64(2), registry.Lookup("tok-2").TenantID)
}

func TestReconcileIsIdempotent(t *testing.T) {
	store := newFakeStore(BotTenant{TenantID: 1, Token: "tok-1"})
	transport := newFakeTransport()
	r, registry := newTestReconciler(store, transport)

	require.NoError(t, r.Reconcile(context.Background()))
	first := registry.Lookup("tok-1")

	require.NoError(t, r.Reconcile(context.Background()))
	require.NoError(t, r.Reconcile(context.Background()))

	assert.Equal(t, 1, registry.Len())
	assert.Same(t, first, registry.Lookup("tok-1"))
	assert.Equal(t, 1, transport.openCount("tok-1"))
}

func TestReconcileTearsDownVanishedCredential(t *testing.T) {
	store := newFakeStore(BotTenant{TenantID: 1, Token: "tok-1"})
	transport := newFakeTransport()
	r, registry := newTestReconciler(store, transport)

	require.NoError(t, r.Reconcile(context.Background()))
	session := registry.Lookup("tok-1")
	require.NotNil(t, session)

	store.setTenants()
	require.NoError(t, r.Reconcile(context.Background()))

	assert.Equal(t, 0, registry.Len())
	assert.True(t, transport.conn("tok-1").isClosed())

	<-session.Done()
}

func TestReconcileRotatesCredential(t *testing.T) {
	store := newFakeStore(BotTenant{TenantID: 1, Token: "tok-old"})
	transport := newFakeTransport()
	r, registry := newTestReconciler(store, transport)

	require.NoError(t, r.Reconcile(context.Background()))
	require.NotNil(t, registry.Lookup("tok-old"))

	// The vendor saved a new token; the old session must go, a new one start.
	store.setTenants(BotTenant{TenantID: 1, Token: "tok-new"})
	require.NoError(t, r.Reconcile(context.Background()))

	assert.Nil(t, registry.Lookup("tok-old"))
	require.NotNil(t, registry.Lookup("tok-new"))
	assert.Equal(t, int64(1), registry.Lookup("tok-new").TenantID)
	assert.True(t, transport.conn("tok-old").isClosed())
	assert.Equal(t, 1, registry.Len())
}

func TestReconcileSkipsFailedOpenAndRetries(t *testing.T) {
	store := newFakeStore(BotTenant{TenantID: 1, Token: "tok-1"})
	transport := newFakeTransport()
	transport.failFor["tok-1"] = errors.New("credential rejected")
	r, registry := newTestReconciler(store, transport)

	require.NoError(t, r.Reconcile(context.Background()))
	assert.Equal(t, 0, registry.Len())

	// The credential stays in the store, so the next pass retries.
	delete(transport.failFor, "tok-1")
	require.NoError(t, r.Reconcile(context.Background()))

	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, 2, transport.openCount("tok-1"))
}

func TestReconcileListErrorLeavesRegistryUntouched(t *testing.T) {
	store := newFakeStore(BotTenant{TenantID: 1, Token: "tok-1"})
	transport := newFakeTransport()
	r, registry := newTestReconciler(store, transport)

	require.NoError(t, r.Reconcile(context.Background()))
	require.Equal(t, 1, registry.Len())

	store.listErr = errors.New("db down")
	err := r.Reconcile(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 1, registry.Len())
	assert.False(t, transport.conn("tok-1").isClosed())
}

func TestReconcileSavesTokenAfterOpen(t *testing.T) {
	store := newFakeStore(BotTenant{TenantID: 7, Token: "tok-7"})
	transport := newFakeTransport()
	r, _ := newTestReconciler(store, transport)

	require.NoError(t, r.Reconcile(context.Background()))

	assert.Equal(t, "tok-7", store.savedToken(7))
}

func TestReconcilePublishesStatusChanges(t *testing.T) {
	store := newFakeStore(BotTenant{TenantID: 1, Token: "tok-1"})
	transport := newFakeTransport()
	r, _ := newTestReconciler(store, transport)

	realtime := &capturedEvents{}
	r.Realtime = realtime

	require.NoError(t, r.Reconcile(context.Background()))
	store.setTenants()
	require.NoError(t, r.Reconcile(context.Background()))

	events := realtime.all()
	require.Len(t, events, 2)

	assert.Equal(t, ws.EventBotStatusChanged, events[0].Event)
	assert.Equal(t, ws.BotStatusChangedData{TenantID: 1, Status: "started"}, events[0].Data)
	assert.Equal(t, ws.BotStatusChangedData{TenantID: 1, Status: "stopped"}, events[1].Data)
}

// Concurrent passes must never produce two sessions for one credential.
func TestReconcileConcurrentPassesSingleSession(t *testing.T) {
	store := newFakeStore(BotTenant{TenantID: 1, Token: "tok-1"})
	transport := newFakeTransport()
	r, registry := newTestReconciler(store, transport)

	const passes = 16

	var wg sync.WaitGroup
	for i := 0; i < passes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Reconcile(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, 1, transport.openCount("tok-1"))
}
