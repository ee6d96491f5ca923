package store

import (
	"context"
	"fmt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		skills TEXT NOT NULL DEFAULT '',
		qualifications TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS candidates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		education TEXT NOT NULL,
		experience TEXT NOT NULL,
		skills TEXT NOT NULL,
		certifications TEXT NOT NULL,
		match_score REAL NOT NULL DEFAULT 0,
		shortlisted INTEGER NOT NULL DEFAULT 0
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		skills TEXT NOT NULL DEFAULT '',
		qualifications TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS candidates (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		education TEXT NOT NULL,
		experience TEXT NOT NULL,
		skills TEXT NOT NULL,
		certifications TEXT NOT NULL,
		match_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		shortlisted INTEGER NOT NULL DEFAULT 0
	)`,
}

// provenance columns added on top of the base candidates table.
var candidateExtraColumns = []string{"source", "source_hash"}

// Migrate creates the jobs and candidates tables when they are missing.
// Running it against an existing database changes nothing except adding
// provenance columns to candidates tables created without them.
func (s *Store) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if s.driver == DriverPostgres {
		schema = postgresSchema
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	existing, err := s.existingCandidateColumns(ctx)
	if err != nil {
		return err
	}

	for _, col := range candidateExtraColumns {
		if _, ok := existing[col]; ok {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE candidates ADD COLUMN %s TEXT NOT NULL DEFAULT ''", col)
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("adding candidates.%s: %w", col, err)
		}
	}

	if _, err := s.db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS candidates_name_education ON candidates (name, education)`); err != nil {
		return fmt.Errorf("creating candidates index: %w", err)
	}

	return nil
}

func (s *Store) existingCandidateColumns(ctx context.Context) (map[string]struct{}, error) {
	query := `SELECT name FROM pragma_table_info('candidates')`
	if s.driver == DriverPostgres {
		query = `SELECT column_name FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = 'candidates'`
	}

	var names []string
	if err := s.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("reading candidates columns: %w", err)
	}

	cols := make(map[string]struct{}, len(names))
	for _, n := range names {
		cols[n] = struct{}{}
	}
	return cols, nil
}
