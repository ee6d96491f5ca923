package pipeline

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/domain"
	"github.com/spigell/resume-screener/internal/jobs"
)

// JobReader parses a jobs file.
type JobReader interface {
	ReadFile(path, encoding string) ([]domain.Job, error)
}

type jobsStage struct {
	toggle
	reader   JobReader
	path     string
	encoding string
}

// NewJobs creates the stage that ingests job postings from path.
func NewJobs(reader JobReader, path, encoding string) Stage {
	return &jobsStage{reader: reader, path: path, encoding: encoding}
}

func (s *jobsStage) Name() string { return "jobs" }

func (s *jobsStage) Validate(*Config) error {
	if s.reader == nil {
		return errors.New("job reader is required")
	}
	return jobs.Config{File: s.path, Encoding: s.encoding}.Validate()
}

func (s *jobsStage) Apply(ctx context.Context, deps Deps, _ *State) (Step, error) {
	parsed, err := s.reader.ReadFile(strings.TrimSpace(s.path), s.encoding)
	if err != nil {
		return Step{}, err
	}

	inserted, err := deps.Store.InsertJobs(ctx, parsed)
	if err != nil {
		return Step{}, err
	}

	deps.Logger.Debug("jobs stored", zap.String("file", s.path), zap.Int("count", inserted))

	return Step{Initial: len(parsed), Dropped: len(parsed) - inserted, Left: inserted}, nil
}
