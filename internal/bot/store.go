package bot

import (
	"context"
	"database/sql"
	"fmt"
)

// BotTenant is one vendor with an active bot credential.
type BotTenant struct {
	TenantID int64
	Token    string
}

// CredentialStore is the read/upsert surface the bot manager needs from the
// database. Faked in tests.
type CredentialStore interface {
	// ListBotTenants returns every client-role vendor with a non-empty
	// bot token.
	ListBotTenants(ctx context.Context) ([]BotTenant, error)

	// SaveToken records the credential on the tenant row once a session is
	// established. Idempotent.
	SaveToken(ctx context.Context, tenantID int64, token string) error
}

// PGStore backs CredentialStore with the users table.
type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) ListBotTenants(ctx context.Context) ([]BotTenant, error) {
	query := `
		SELECT id, telegram_token
		FROM users
		WHERE role = 'client' AND telegram_token IS NOT NULL AND telegram_token <> ''
	`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bot tenants: %w", err)
	}
	defer rows.Close()

	var tenants []BotTenant
	for rows.Next() {
		var t BotTenant
		if err := rows.Scan(&t.TenantID, &t.Token); err != nil {
			return nil, fmt.Errorf("scan bot tenant: %w", err)
		}
		tenants = append(tenants, t)
	}

	return tenants, rows.Err()
}

func (s *PGStore) SaveToken(ctx context.Context, tenantID int64, token string) error {
	query := `UPDATE users SET telegram_token = $2, updated_at = NOW() WHERE id = $1`

	if _, err := s.DB.ExecContext(ctx, query, tenantID, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}
