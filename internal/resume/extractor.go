// Package resume turns résumé documents into candidate records.
package resume

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/domain"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/nlp"
	"github.com/spigell/resume-screener/internal/utils"
	"github.com/spigell/resume-screener/internal/vocabulary"
)

const previewLength = 120

// Config selects where résumés are read from.
type Config struct {
	Dir        string   `mapstructure:"dir" yaml:"dir"`
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
	S3         S3Config `mapstructure:"s3" yaml:"s3"`
}

// Extractor applies the field rules to every document.
type Extractor struct {
	vocab  vocabulary.Vocabularies
	names  nlp.NameFinder
	logger *zap.Logger
}

func NewExtractor(vocab vocabulary.Vocabularies, names nlp.NameFinder, logger *zap.Logger) *Extractor {
	return &Extractor{vocab: vocab, names: names, logger: logger}
}

// Extract never fails: unreadable documents and tagger errors fall back to placeholders.
func (e *Extractor) Extract(ctx context.Context, doc Document) domain.Candidate {
	log := e.logger.With(zap.String(logger.FieldDocument, doc.Name))

	text, err := Text(doc)
	if err != nil {
		log.Warn("document text could not be extracted", zap.Error(err))
		text = ""
	}

	log.Debug("document text extracted",
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", utils.TruncateForLog(text, previewLength)),
	)

	return domain.Candidate{
		Name:           e.name(ctx, log, text),
		Email:          Email(text),
		Education:      Education(text, e.vocab.Education),
		Experience:     Experience(text, e.vocab.Experience),
		Skills:         Skills(text, e.vocab.ResumeSkills),
		Certifications: Certifications(text, e.vocab.Certification),
		Source:         doc.Name,
		SourceHash:     Hash(doc.Data),
	}
}

func (e *Extractor) name(ctx context.Context, log *zap.Logger, text string) string {
	if strings.TrimSpace(text) == "" {
		return domain.Unknown
	}

	name, ok, err := nlp.FirstName(ctx, e.names, text)
	if err != nil {
		log.Warn("name tagging failed", zap.Error(err))
		return domain.Unknown
	}
	if !ok {
		return domain.Unknown
	}
	return name
}

// Hash is the hex sha256 of the document bytes.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
