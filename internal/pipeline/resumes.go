package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/domain"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/resume"
)

// CandidateExtractor turns a document into a candidate record.
type CandidateExtractor interface {
	Extract(ctx context.Context, doc resume.Document) domain.Candidate
}

type resumesStage struct {
	toggle
	source    resume.Source
	extractor CandidateExtractor
}

// NewResumes creates the stage that extracts and stores candidates from every document in source.
func NewResumes(source resume.Source, extractor CandidateExtractor) Stage {
	return &resumesStage{source: source, extractor: extractor}
}

func (s *resumesStage) Name() string { return "resumes" }

func (s *resumesStage) Validate(*Config) error {
	if s.source == nil {
		return errors.New("resume source is required")
	}
	if s.extractor == nil {
		return errors.New("resume extractor is required")
	}
	return nil
}

func (s *resumesStage) Apply(ctx context.Context, deps Deps, _ *State) (Step, error) {
	docs, err := s.source.Documents(ctx)
	if err != nil {
		return Step{}, err
	}

	deps.Logger.Info("reading resumes", zap.String("source", s.source.String()), zap.Int("documents", len(docs)))

	key := deps.Config.Dedupe
	inserted := 0
	for _, doc := range docs {
		c := s.extractor.Extract(ctx, doc)

		ok, err := deps.Store.InsertCandidate(ctx, c, key)
		if err != nil {
			return Step{}, err
		}

		log := deps.Logger.With(
			zap.String(logger.FieldDocument, doc.Name),
			zap.String(logger.FieldCandidate, c.Name),
		)
		if !ok {
			log.Info("skipping duplicate candidate", zap.String("dedupe_key", string(key)))
			continue
		}
		log.Debug("candidate stored", zap.String("skills", c.Skills))
		inserted++
	}

	return Step{Initial: len(docs), Dropped: len(docs) - inserted, Left: inserted}, nil
}
