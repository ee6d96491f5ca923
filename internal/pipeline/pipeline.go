// Package pipeline runs the screening stages in order against a shared store.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/domain"
	"github.com/spigell/resume-screener/internal/events"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/notify"
	"github.com/spigell/resume-screener/internal/store"
)

// DefaultThreshold is the minimum match score for a shortlist.
const DefaultThreshold = 80.0

// Stage is a single step of a screening run.
type Stage interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, st *State) (Step, error)
}

// Store is the persistence used by the stages.
type Store interface {
	Migrate(ctx context.Context) error
	InsertJobs(ctx context.Context, jobs []domain.Job) (int, error)
	ListJobs(ctx context.Context) ([]domain.Job, error)
	InsertCandidate(ctx context.Context, c domain.Candidate, key store.DedupeKey) (bool, error)
	ListCandidates(ctx context.Context) ([]domain.Candidate, error)
	UpdateMatchScores(ctx context.Context, updates []store.ScoreUpdate) error
	MarkShortlisted(ctx context.Context, threshold float64) (int64, error)
	Shortlisted(ctx context.Context, threshold float64) ([]domain.Invitee, error)
	CountShortlisted(ctx context.Context, threshold float64) (int, error)
}

// Deps aggregates dependencies shared across all stages.
type Deps struct {
	Store  Store
	Logger *zap.Logger
	Events events.Publisher
	Config *Config
}

// Config holds the settings every stage may consult.
type Config struct {
	Threshold float64
	Dedupe    store.DedupeKey
}

// State is what stages hand to the ones after them.
type State struct {
	RunID       string
	Candidates  int
	Shortlisted int
	Invitees    []domain.Invitee
	Results     []notify.Result
}

// Step describes the result of executing a stage.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a stage.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
}

// toggle implements the enable/disable part of Stage.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

func (t *toggle) disabledReason() string { return t.reason }

// DisableByName marks the stage with the provided name as disabled while keeping it in the list.
func DisableByName(stages []Stage, name, reason string) {
	for _, s := range stages {
		if s.Name() == name {
			s.Disable(reason)
		}
	}
}

// Run validates every enabled stage, then applies them sequentially.
func Run(ctx context.Context, cfg *Config, deps Deps, stages []Stage, st *State) error {
	if cfg == nil {
		return errors.New("pipeline config is required")
	}
	if deps.Store == nil {
		return errors.New("store is required")
	}
	if st == nil {
		return errors.New("run state is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Events == nil {
		deps.Events = events.Nop{}
	}
	deps.Config = cfg

	for _, s := range stages {
		if !s.IsEnabled() {
			continue
		}
		if err := s.Validate(cfg); err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
	}

	for _, s := range stages {
		log := logger.ForStage(deps.Logger, st.RunID, s.Name())

		if !s.IsEnabled() {
			log.Info("stage disabled", zap.String("reason", reasonOf(s)))
			continue
		}

		stageDeps := deps
		stageDeps.Logger = log

		info, err := s.Apply(ctx, stageDeps, st)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}

		log.Info("stage finished",
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
	}

	return nil
}

// Describe returns status entries for the provided stages.
func Describe(stages []Stage) []Status {
	statuses := make([]Status, 0, len(stages))
	for _, s := range stages {
		statuses = append(statuses, Status{
			Name:    s.Name(),
			Enabled: s.IsEnabled(),
			Reason:  reasonOf(s),
		})
	}
	return statuses
}

func reasonOf(s Stage) string {
	if r, ok := s.(interface{ disabledReason() string }); ok {
		return r.disabledReason()
	}
	return ""
}
