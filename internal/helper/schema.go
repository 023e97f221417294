package helper

import (
	"log"

	"github.com/Mirzamurod/flowers-backend/database"
)

// InitCustomSchema creates or ensures the application schema. Run with the
// --createschema flag.
func InitCustomSchema() {
	db := database.AppDB

	baseSchema := `
        CREATE TABLE IF NOT EXISTS users (
            id              BIGSERIAL PRIMARY KEY,
            email           VARCHAR(255) UNIQUE NOT NULL,
            password_hash   VARCHAR(255),
            name            VARCHAR(255),
            image           TEXT,
            role            VARCHAR(50) NOT NULL DEFAULT 'client',
            plan            VARCHAR(50) NOT NULL DEFAULT 'week',
            block           BOOLEAN NOT NULL DEFAULT true,
            telegram_token  VARCHAR(255),
            location        TEXT,
            card_number     VARCHAR(50),
            card_name       VARCHAR(255),
            user_name       VARCHAR(255),
            user_phone      VARCHAR(50),
            created_at      TIMESTAMP NOT NULL DEFAULT NOW(),
            updated_at      TIMESTAMP NOT NULL DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
        CREATE UNIQUE INDEX IF NOT EXISTS idx_users_telegram_token
            ON users(telegram_token) WHERE telegram_token IS NOT NULL;

        CREATE TABLE IF NOT EXISTS refresh_tokens (
            id          BIGSERIAL PRIMARY KEY,
            user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            token       VARCHAR(255) UNIQUE NOT NULL,
            ip_address  VARCHAR(64),
            user_agent  TEXT,
            expires_at  TIMESTAMP NOT NULL,
            revoked     BOOLEAN NOT NULL DEFAULT false,
            created_at  TIMESTAMP NOT NULL DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id);

        CREATE TABLE IF NOT EXISTS categories (
            id          BIGSERIAL PRIMARY KEY,
            user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            name        VARCHAR(255) NOT NULL,
            created_at  TIMESTAMP NOT NULL DEFAULT NOW(),
            updated_at  TIMESTAMP NOT NULL DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_categories_user_id ON categories(user_id);

        CREATE TABLE IF NOT EXISTS bouquets (
            id          BIGSERIAL PRIMARY KEY,
            user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
            name        VARCHAR(255) NOT NULL,
            info        TEXT,
            price       BIGINT NOT NULL DEFAULT 0,
            image       TEXT,
            block       BOOLEAN NOT NULL DEFAULT false,
            created_at  TIMESTAMP NOT NULL DEFAULT NOW(),
            updated_at  TIMESTAMP NOT NULL DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_bouquets_user_id ON bouquets(user_id);
        CREATE INDEX IF NOT EXISTS idx_bouquets_category_id ON bouquets(category_id);

        CREATE TABLE IF NOT EXISTS flowers (
            id          BIGSERIAL PRIMARY KEY,
            user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
            name        VARCHAR(255) NOT NULL,
            info        TEXT,
            price       BIGINT NOT NULL DEFAULT 0,
            image       TEXT,
            block       BOOLEAN NOT NULL DEFAULT false,
            created_at  TIMESTAMP NOT NULL DEFAULT NOW(),
            updated_at  TIMESTAMP NOT NULL DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_flowers_user_id ON flowers(user_id);
        CREATE INDEX IF NOT EXISTS idx_flowers_category_id ON flowers(category_id);

        CREATE TABLE IF NOT EXISTS orders (
            id            BIGSERIAL PRIMARY KEY,
            user_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            order_number  BIGINT NOT NULL,
            client_name   VARCHAR(255),
            client_phone  VARCHAR(50),
            address       TEXT,
            items         JSONB NOT NULL DEFAULT '[]',
            total_price   BIGINT NOT NULL DEFAULT 0,
            status        VARCHAR(50) NOT NULL DEFAULT 'new',
            created_at    TIMESTAMP NOT NULL DEFAULT NOW(),
            updated_at    TIMESTAMP NOT NULL DEFAULT NOW()
        );

        CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
        CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
        CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_user_number ON orders(user_id, order_number);
    `
	if _, err := db.Exec(baseSchema); err != nil {
		log.Fatalf("failed to init base schema: %v", err)
	}

	log.Println("Schema ensured")
}
