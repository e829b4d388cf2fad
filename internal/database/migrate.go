package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/001_initial.up.sql
var initialMigrationSQL string

//go:embed migrations/002_add_subscription.up.sql
var subscriptionMigrationSQL string

var requiredTables = []string{
	"users",
	"refresh_tokens",
	"journal_entries",
	"tarot_history",
}

func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	exists, err := db.hasAllRequiredTables(ctx)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}

	if !exists {
		slog.Info("database schema missing tables; applying initial migration")
		if _, err := db.Pool.Exec(ctx, initialMigrationSQL); err != nil {
			return fmt.Errorf("apply initial migration: %w", err)
		}

		exists, err = db.hasAllRequiredTables(ctx)
		if err != nil {
			return fmt.Errorf("re-check tables after migration: %w", err)
		}

		if !exists {
			return fmt.Errorf("schema initialization incomplete: required tables are still missing")
		}
	}

	// 002: subscription and RevenueCat columns (add if missing).
	if err := db.applySubscriptionColumns(ctx); err != nil {
		return fmt.Errorf("apply subscription migration: %w", err)
	}

	slog.Info("database schema ensured")
	return nil
}

// applySubscriptionColumns runs migration 002 idempotently.
// The SQL uses IF NOT EXISTS so it is safe to re-run.
func (db *DB) applySubscriptionColumns(ctx context.Context) error {
	var hasColumn bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = 'public'
			  AND table_name = 'users'
			  AND column_name = 'revenuecat_id'
		)
	`).Scan(&hasColumn)
	if err != nil {
		return fmt.Errorf("check revenuecat_id column: %w", err)
	}

	if !hasColumn {
		slog.Info("applying subscription migration (002)")
		if _, err := db.Pool.Exec(ctx, subscriptionMigrationSQL); err != nil {
			return fmt.Errorf("exec subscription SQL: %w", err)
		}
		slog.Info("subscription migration applied")
	}

	return nil
}

func (db *DB) hasAllRequiredTables(ctx context.Context) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
	`, requiredTables).Scan(&count)
	if err != nil {
		return false, err
	}

	return count == len(requiredTables), nil
}
