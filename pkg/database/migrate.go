package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type migration struct {
	name       string
	statements []string
}

// migrations are applied in order and recorded in schema_migrations.
// Never edit an applied entry; append a new one instead.
var migrations = []migration{
	{
		name: "0001_users_and_sessions",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY,
				username VARCHAR(50) NOT NULL,
				email VARCHAR(255) NOT NULL,
				password VARCHAR(255) NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				shipping_name VARCHAR(255),
				shipping_address VARCHAR(255),
				shipping_city VARCHAR(100),
				shipping_postal_code VARCHAR(20),
				shipping_country VARCHAR(100),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMPTZ
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS users_username_key ON users (username) WHERE deleted_at IS NULL`,
			`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email) WHERE deleted_at IS NULL`,
			`CREATE TABLE IF NOT EXISTS sessions (
				id UUID PRIMARY KEY,
				user_id UUID NOT NULL REFERENCES users (id),
				token UUID NOT NULL UNIQUE,
				user_agent TEXT,
				ip_address VARCHAR(64),
				expires_at TIMESTAMPTZ NOT NULL,
				revoked_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX IF NOT EXISTS sessions_user_id_idx ON sessions (user_id)`,
		},
	},
	{
		name: "0002_categories_and_roles",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS categories (
				id UUID PRIMARY KEY,
				name VARCHAR(100) NOT NULL UNIQUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE TABLE IF NOT EXISTS roles (
				id UUID PRIMARY KEY,
				kind VARCHAR(20) NOT NULL CHECK (kind IN ('USER', 'MODERATOR', 'ADMIN')),
				category_id UUID REFERENCES categories (id),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CHECK ((kind = 'MODERATOR') = (category_id IS NOT NULL))
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS roles_kind_category_key
				ON roles (kind, COALESCE(category_id, '00000000-0000-0000-0000-000000000000'::uuid))`,
			`CREATE TABLE IF NOT EXISTS user_roles (
				user_id UUID NOT NULL REFERENCES users (id),
				role_id UUID NOT NULL REFERENCES roles (id),
				PRIMARY KEY (user_id, role_id)
			)`,
			`INSERT INTO roles (id, kind, category_id, created_at)
				VALUES (gen_random_uuid(), 'USER', NULL, NOW()), (gen_random_uuid(), 'ADMIN', NULL, NOW())
				ON CONFLICT DO NOTHING`,
		},
	},
	{
		name: "0003_products_and_comments",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS products (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				price NUMERIC(12, 2) NOT NULL CHECK (price > 0),
				image_url TEXT,
				category_id UUID NOT NULL REFERENCES categories (id),
				author_id UUID NOT NULL REFERENCES users (id),
				status VARCHAR(20) NOT NULL DEFAULT 'PENDING'
					CHECK (status IN ('PENDING', 'ACCEPTED', 'REJECTED')),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX IF NOT EXISTS products_category_status_idx ON products (category_id, status)`,
			`CREATE TABLE IF NOT EXISTS comments (
				id UUID PRIMARY KEY,
				content VARCHAR(2000) NOT NULL,
				product_id UUID NOT NULL REFERENCES products (id),
				author_id UUID NOT NULL REFERENCES users (id),
				status VARCHAR(20) NOT NULL DEFAULT 'PENDING'
					CHECK (status IN ('PENDING', 'ACCEPTED', 'REJECTED')),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX IF NOT EXISTS comments_product_id_idx ON comments (product_id)`,
			`CREATE INDEX IF NOT EXISTS comments_status_idx ON comments (status)`,
		},
	},
}

// Migrate brings the schema up to date. Each migration runs in its own
// transaction together with its schema_migrations record.
func Migrate(ctx context.Context, db PgxIface, log *zap.Logger) error {
	log = log.With(zap.String("component", "migrate"))

	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var applied bool
		err := db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, m.name,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", m.name, err)
		}
		if applied {
			log.Debug("Migration already applied", zap.String("name", m.name))
			continue
		}

		if err := applyMigration(ctx, db, m); err != nil {
			log.Error("Migration failed", zap.String("name", m.name), zap.Error(err))
			return err
		}
		log.Info("Migration applied", zap.String("name", m.name))
	}

	return nil
}

func applyMigration(ctx context.Context, db PgxIface, m migration) error {
	return WithTx(ctx, db, func(tx pgx.Tx) error {
		for i, stmt := range m.statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %s statement %d: %w", m.name, i+1, err)
			}
		}

		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.name); err != nil {
			return fmt.Errorf("record migration %s: %w", m.name, err)
		}
		return nil
	})
}
