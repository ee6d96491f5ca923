package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/events"
)

type shortlistStage struct {
	toggle
}

// NewShortlist creates the stage that flags candidates at or above the threshold.
func NewShortlist() Stage {
	return &shortlistStage{}
}

func (s *shortlistStage) Name() string { return "shortlist" }

func (s *shortlistStage) Validate(cfg *Config) error {
	if cfg.Threshold < 0 {
		return fmt.Errorf("threshold %.2f must not be negative", cfg.Threshold)
	}
	return nil
}

func (s *shortlistStage) Apply(ctx context.Context, deps Deps, st *State) (Step, error) {
	threshold := deps.Config.Threshold

	if _, err := deps.Store.MarkShortlisted(ctx, threshold); err != nil {
		return Step{}, err
	}

	invitees, err := deps.Store.Shortlisted(ctx, threshold)
	if err != nil {
		return Step{}, err
	}

	count, err := deps.Store.CountShortlisted(ctx, threshold)
	if err != nil {
		return Step{}, err
	}

	st.Invitees = invitees
	st.Shortlisted = count

	for _, inv := range invitees {
		_ = deps.Events.Publish(ctx, events.New(events.TypeCandidateShortlisted, st.RunID, inv.Name, inv.Email))
	}

	deps.Logger.Info("shortlisted candidates", zap.Float64("threshold", threshold), zap.Int("count", count))

	initial := st.Candidates
	if initial < count {
		initial = count
	}
	return Step{Initial: initial, Dropped: initial - count, Left: count}, nil
}
