package directory

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied idempotently at startup. Indexes mirror the search
// access paths: organization scope plus each filterable column and the
// updated_at ordering.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id              BIGSERIAL PRIMARY KEY,
		first_name      VARCHAR(255) NOT NULL,
		last_name       VARCHAR(255) NOT NULL,
		email           VARCHAR(255) NOT NULL UNIQUE,
		phone           VARCHAR(50),
		department      VARCHAR(255),
		position        VARCHAR(255),
		location        VARCHAR(255),
		company         VARCHAR(255),
		status          VARCHAR(50) NOT NULL DEFAULT 'ACTIVE',
		organization_id BIGINT NOT NULL REFERENCES organizations(id),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS organization_column_configs (
		id              BIGSERIAL PRIMARY KEY,
		organization_id BIGINT NOT NULL REFERENCES organizations(id),
		column_name     VARCHAR(255) NOT NULL,
		display_order   INTEGER NOT NULL,
		is_visible      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_employees_org ON employees (organization_id)`,
	`CREATE INDEX IF NOT EXISTS idx_employees_org_status ON employees (organization_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_employees_org_updated ON employees (organization_id, updated_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_column_configs_org ON organization_column_configs (organization_id, display_order)`,
}

// EnsureSchema creates the roster tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
