package bot

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/Mirzamurod/flowers-backend/internal/ws"
)

// DefaultInterval is how often the registry is reconciled against the
// database when no interval is configured.
const DefaultInterval = 10 * time.Second

// Reconciler keeps the session registry in sync with the credential store:
// every pass it opens a session for each stored credential that has none and
// tears down sessions whose credential disappeared. A failed open is logged
// and retried on the next pass, since the credential stays in the store.
type Reconciler struct {
	Store     CredentialStore
	Registry  *Registry
	Transport Transport
	Handler   *Handler
	Interval  time.Duration
	Realtime  ws.RealtimePublisher

	running atomic.Bool
}

// Run performs one synchronous pass, then reconciles on a fixed interval
// until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	if err := r.Reconcile(ctx); err != nil {
		log.Printf("bot: initial reconcile: %v", err)
	}

	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.Reconcile(ctx); err != nil {
				log.Printf("bot: reconcile: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Reconcile runs one pass. Overlapping calls are skipped, not queued: if a
// pass is still applying when the next tick fires, the tick is a no-op.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return nil
	}
	defer r.running.Store(false)

	tenants, err := r.Store.ListBotTenants(ctx)
	if err != nil {
		return fmt.Errorf("list bot tenants: %w", err)
	}

	desired := make(map[string]int64, len(tenants))
	for _, t := range tenants {
		if t.Token == "" {
			continue
		}
		desired[t.Token] = t.TenantID
	}

	// Open sessions for credentials that have none yet.
	for token, tenantID := range desired {
		if r.Registry.Lookup(token) != nil {
			continue
		}

		session, err := OpenSession(r.Transport, token, tenantID, r.Handler.Handle)
		if err != nil {
			log.Printf("bot: open session for tenant %d: %v", tenantID, err)
			continue
		}

		if err := r.Registry.Insert(token, session); err != nil {
			// A concurrent open won the race; keep the existing session.
			log.Printf("bot: tenant %d: %v, closing the extra session", tenantID, err)
			session.Close()
			continue
		}

		if err := r.Store.SaveToken(ctx, tenantID, token); err != nil {
			log.Printf("bot: record token for tenant %d: %v", tenantID, err)
		}

		log.Printf("bot: started for tenant %d", tenantID)
		r.publish(tenantID, "started")
	}

	// Tear down sessions whose credential vanished from the store.
	for _, token := range r.Registry.Credentials() {
		if _, ok := desired[token]; ok {
			continue
		}

		session := r.Registry.Remove(token)
		if session == nil {
			continue
		}
		session.Close()

		log.Printf("bot: stopped for tenant %d", session.TenantID)
		r.publish(session.TenantID, "stopped")
	}

	return nil
}

func (r *Reconciler) publish(tenantID int64, status string) {
	if r.Realtime == nil {
		return
	}
	r.Realtime.Publish(ws.WsEvent{
		Event: ws.EventBotStatusChanged,
		Data: ws.BotStatusChangedData{
			TenantID: tenantID,
			Status:   status,
		},
	})
}
