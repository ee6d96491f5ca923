package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/resume-screener/internal/domain"
)

// DedupeKey selects which columns identify an already stored candidate.
type DedupeKey string

const (
	DedupeNameEducation DedupeKey = "name-education"
	DedupeContentHash   DedupeKey = "content-hash"
)

// ParseDedupeKey validates a configured dedupe key. Empty means DedupeNameEducation.
func ParseDedupeKey(v string) (DedupeKey, error) {
	switch k := DedupeKey(strings.ToLower(strings.TrimSpace(v))); k {
	case "":
		return DedupeNameEducation, nil
	case DedupeNameEducation, DedupeContentHash:
		return k, nil
	default:
		return "", fmt.Errorf("unknown dedupe key %q (want %q or %q)", v, DedupeNameEducation, DedupeContentHash)
	}
}

// ScoreUpdate is a computed best score for one candidate.
type ScoreUpdate struct {
	CandidateID int64
	Score       float64
}

const candidateColumns = `id, name, email, education, experience, skills, certifications,
	match_score, shortlisted, source, source_hash`

// InsertCandidate stores c unless a candidate with the same dedupe key exists.
// It reports whether a row was written.
func (s *Store) InsertCandidate(ctx context.Context, c domain.Candidate, key DedupeKey) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("starting candidate transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		exists int
		query  string
		args   []any
	)
	switch key {
	case DedupeContentHash:
		query = `SELECT COUNT(*) FROM candidates WHERE source_hash = ?`
		args = []any{c.SourceHash}
	default:
		query = `SELECT COUNT(*) FROM candidates WHERE name = ? AND education = ?`
		args = []any{c.Name, c.Education}
	}
	if err := tx.GetContext(ctx, &exists, tx.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("checking candidate %q: %w", c.Name, err)
	}
	if exists > 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO candidates
		(name, email, education, experience, skills, certifications, source, source_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		c.Name, c.Email, c.Education, c.Experience, c.Skills, c.Certifications, c.Source, c.SourceHash)
	if err != nil {
		return false, fmt.Errorf("inserting candidate %q: %w", c.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing candidate %q: %w", c.Name, err)
	}

	return true, nil
}

// ListCandidates returns every stored candidate ordered by id.
func (s *Store) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	var candidates []domain.Candidate
	err := s.db.SelectContext(ctx, &candidates,
		`SELECT `+candidateColumns+` FROM candidates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	return candidates, nil
}

// UpdateMatchScores writes all scores in one transaction.
func (s *Store) UpdateMatchScores(ctx context.Context, updates []ScoreUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting score transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`UPDATE candidates SET match_score = ? WHERE id = ?`))
	if err != nil {
		return fmt.Errorf("preparing score update: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, u.Score, u.CandidateID); err != nil {
			return fmt.Errorf("updating score of candidate %d: %w", u.CandidateID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing scores: %w", err)
	}
	return nil
}

// MarkShortlisted flags every candidate whose score reaches threshold and
// returns the number of rows touched.
func (s *Store) MarkShortlisted(ctx context.Context, threshold float64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind(`UPDATE candidates SET shortlisted = 1 WHERE match_score >= ?`), threshold)
	if err != nil {
		return 0, fmt.Errorf("marking shortlisted candidates: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting shortlisted rows: %w", err)
	}
	return n, nil
}

// Shortlisted returns the name and email of every shortlisted candidate at threshold.
func (s *Store) Shortlisted(ctx context.Context, threshold float64) ([]domain.Invitee, error) {
	var invitees []domain.Invitee
	err := s.db.SelectContext(ctx, &invitees, s.db.Rebind(
		`SELECT name, email FROM candidates WHERE shortlisted = 1 AND match_score >= ? ORDER BY id`), threshold)
	if err != nil {
		return nil, fmt.Errorf("listing shortlisted candidates: %w", err)
	}
	return invitees, nil
}

// CountShortlisted counts shortlisted candidates at threshold.
func (s *Store) CountShortlisted(ctx context.Context, threshold float64) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(
		`SELECT COUNT(*) FROM candidates WHERE shortlisted = 1 AND match_score >= ?`), threshold)
	if err != nil {
		return 0, fmt.Errorf("counting shortlisted candidates: %w", err)
	}
	return n, nil
}
