// Package migrations embeds the SQL schema and applies it in file order.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/drivent/booking-backend/internal/database"
)

//go:embed *.sql
var files embed.FS

const createVersionTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// Names returns the embedded migration files in apply order
func Names() ([]string, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Apply runs every migration not yet recorded in schema_migrations and
// returns the names it applied
func Apply(ctx context.Context, db database.DB, logger logrus.FieldLogger) ([]string, error) {
	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var done []string
	if err := db.SelectContext(ctx, &done, `SELECT version FROM schema_migrations`); err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	applied := make(map[string]bool, len(done))
	for _, v := range done {
		applied[v] = true
	}

	names, err := Names()
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, name := range names {
		if applied[name] {
			continue
		}

		body, err := files.ReadFile(name)
		if err != nil {
			return ran, err
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return ran, fmt.Errorf("migration %s failed: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
			return ran, fmt.Errorf("failed to record migration %s: %w", name, err)
		}

		logger.WithField("migration", name).Info("Applied migration")
		ran = append(ran, name)
	}

	return ran, nil
}

// Reset empties the booking tables and restarts their ids
func Reset(ctx context.Context, db database.DB) error {
	_, err := db.ExecContext(ctx, `
		TRUNCATE TABLE
			bookings,
			tickets,
			ticket_types,
			enrollments,
			rooms,
			hotels,
			sessions,
			users
		RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}
