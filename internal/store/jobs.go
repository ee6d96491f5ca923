package store

import (
	"context"
	"fmt"

	"github.com/spigell/resume-screener/internal/domain"
)

// InsertJobs writes all jobs in a single transaction and returns how many rows were added.
func (s *Store) InsertJobs(ctx context.Context, jobs []domain.Job) (int, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting jobs transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(
		`INSERT INTO jobs (title, skills, qualifications) VALUES (?, ?, ?)`))
	if err != nil {
		return 0, fmt.Errorf("preparing job insert: %w", err)
	}
	defer stmt.Close()

	for _, j := range jobs {
		if _, err := stmt.ExecContext(ctx, j.Title, j.Skills, j.Qualifications); err != nil {
			return 0, fmt.Errorf("inserting job %q: %w", j.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing jobs: %w", err)
	}

	return len(jobs), nil
}

// ListJobs returns every stored job ordered by id.
func (s *Store) ListJobs(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	err := s.db.SelectContext(ctx, &jobs,
		`SELECT id, title, skills, qualifications FROM jobs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}
