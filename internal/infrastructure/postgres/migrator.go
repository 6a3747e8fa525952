package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// Migrator applies the SQL migrations under a directory.
type Migrator struct {
	sourceURL   string
	databaseURL string
	logger      zerolog.Logger
}

// NewMigrator creates a Migrator for the migrations in dir.
func NewMigrator(dir, databaseURL string, logger zerolog.Logger) *Migrator {
	return &Migrator{
		sourceURL:   "file://" + dir,
		databaseURL: databaseURL,
		logger:      logger.With().Str("component", "migrator").Logger(),
	}
}

func (m *Migrator) open() (*migrate.Migrate, error) {
	mg, err := migrate.New(m.sourceURL, m.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mg, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := mg.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info().Msg("database migrations: no change")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ := mg.Version()
	m.logger.Info().Uint("version", version).Msg("database migrations: applied")
	return nil
}

// Down rolls back the given number of migrations.
func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	mg, err := m.open()
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := mg.Steps(-steps); err != nil {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}

	m.logger.Info().Int("steps", steps).Msg("database migrations: rolled back")
	return nil
}
