package database

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// Migration is one schema step. Steps self-register from init functions
// in pkg/infra/migrations and run in lexical ID order, so IDs start
// with a yyyymmdd date.
type Migration struct {
	ID   string
	Name string
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

var registered []Migration

func RegisterMigration(m Migration) {
	for _, existing := range registered {
		if existing.ID == m.ID {
			panic(fmt.Sprintf("duplicate migration ID %s", m.ID))
		}
	}
	registered = append(registered, m)
}

// MigrationsManager applies pending registered migrations, recording
// each applied step in schema_migrations.
type MigrationsManager struct {
	db *gorm.DB
}

func NewMigrationsManager(db *gorm.DB) *MigrationsManager {
	return &MigrationsManager{db: db}
}

func (m *MigrationsManager) ApplyPending() error {
	if err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS public.schema_migrations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`).Error; err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var appliedIDs []string
	if err := m.db.Table("schema_migrations").Pluck("id", &appliedIDs).Error; err != nil {
		return fmt.Errorf("failed to load applied migrations: %w", err)
	}
	applied := make(map[string]struct{}, len(appliedIDs))
	for _, id := range appliedIDs {
		applied[id] = struct{}{}
	}

	pending := make([]Migration, 0, len(registered))
	for _, mig := range registered {
		if _, done := applied[mig.ID]; !done {
			pending = append(pending, mig)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })

	for _, mig := range pending {
		if mig.Up == nil {
			return fmt.Errorf("migration %s has no Up step", mig.ID)
		}
		if err := mig.Up(m.db); err != nil {
			return fmt.Errorf("migration %s (%s) failed: %w", mig.ID, mig.Name, err)
		}
		if err := m.db.Exec(
			"INSERT INTO public.schema_migrations (id, name) VALUES (?, ?)",
			mig.ID, mig.Name,
		).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", mig.ID, err)
		}
	}
	return nil
}
