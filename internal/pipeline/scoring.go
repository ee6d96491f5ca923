package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/domain"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/scoring"
	"github.com/spigell/resume-screener/internal/store"
)

type scoringStage struct {
	toggle
	scorer *scoring.Scorer
}

// NewScoring creates the stage that stores every candidate's best score over all jobs.
func NewScoring(scorer *scoring.Scorer) Stage {
	return &scoringStage{scorer: scorer}
}

func (s *scoringStage) Name() string { return "scoring" }

func (s *scoringStage) Validate(*Config) error {
	if s.scorer == nil {
		return errors.New("scorer is required")
	}
	return nil
}

func (s *scoringStage) Apply(ctx context.Context, deps Deps, st *State) (Step, error) {
	postings, err := deps.Store.ListJobs(ctx)
	if err != nil {
		return Step{}, err
	}
	if len(postings) == 0 {
		deps.Logger.Warn("every candidate scores 0", zap.Error(domain.ErrNoJobs))
	}

	candidates, err := deps.Store.ListCandidates(ctx)
	if err != nil {
		return Step{}, err
	}
	st.Candidates = len(candidates)

	updates := make([]store.ScoreUpdate, 0, len(candidates))
	for _, c := range candidates {
		best := s.scorer.Best(c, postings)
		updates = append(updates, store.ScoreUpdate{CandidateID: c.ID, Score: best.Final})

		deps.Logger.Debug("candidate scored",
			zap.String(logger.FieldCandidate, c.Name),
			zap.Int64("job_id", best.JobID),
			zap.Int("skills", best.Skills),
			zap.Int("education", best.Education),
			zap.Int("certifications", best.Certifications),
			zap.Float64("exact_bonus", best.ExactBonus),
			zap.Float64("score", best.Final),
		)
	}

	if err := deps.Store.UpdateMatchScores(ctx, updates); err != nil {
		return Step{}, err
	}

	return Step{Initial: len(candidates), Left: len(candidates)}, nil
}
