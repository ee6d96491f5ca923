// Package jobs reads job postings from a CSV file and derives their skills and qualifications.
package jobs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/spigell/resume-screener/internal/domain"
	"github.com/spigell/resume-screener/internal/nlp"
	"github.com/spigell/resume-screener/internal/vocabulary"
)

const (
	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf-8"
)

// Config controls where and how job postings are read.
type Config struct {
	File       string `mapstructure:"file" yaml:"file"`
	Encoding   string `mapstructure:"encoding" yaml:"encoding"`
	SkillMatch string `mapstructure:"skill-match" yaml:"skill-match"`
}

// Validate checks the encoding and skill match mode.
func (c Config) Validate() error {
	if strings.TrimSpace(c.File) == "" {
		return errors.New("jobs.file is required")
	}
	if _, err := decoderFor(c.Encoding); err != nil {
		return err
	}
	if _, err := ParseSkillMatch(c.SkillMatch); err != nil {
		return err
	}
	return nil
}

// Ingestor turns CSV rows into jobs.
type Ingestor struct {
	vocab     vocabulary.Vocabularies
	segmenter nlp.SentenceSegmenter
	match     SkillMatch
	logger    *zap.Logger
}

func NewIngestor(vocab vocabulary.Vocabularies, segmenter nlp.SentenceSegmenter, match SkillMatch, logger *zap.Logger) *Ingestor {
	return &Ingestor{vocab: vocab, segmenter: segmenter, match: match, logger: logger}
}

// ReadFile opens path and parses it with the given encoding.
func (i *Ingestor) ReadFile(path, encoding string) ([]domain.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening jobs file: %w", err)
	}
	defer f.Close()

	jobs, err := i.Read(f, encoding)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return jobs, nil
}

// Read parses a CSV whose first row is a header. Only the first two columns
// are used, as title and description.
func (i *Ingestor) Read(r io.Reader, encoding string) ([]domain.Job, error) {
	decode, err := decoderFor(encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decode(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) < 2 {
		return nil, domain.ErrNoColumns
	}

	var jobs []domain.Job
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		if len(record) < 2 {
			i.logger.Warn("skipping job row with fewer than two columns", zap.Int("line", line))
			continue
		}

		jobs = append(jobs, i.Job(record[0], record[1]))
	}

	return jobs, nil
}

// Job derives skills and qualifications from a posting description.
func (i *Ingestor) Job(title, description string) domain.Job {
	return domain.Job{
		Title:          strings.TrimSpace(title),
		Skills:         MatchSkills(description, i.vocab.JobSkills, i.match),
		Qualifications: Qualifications(i.segmenter.Sentences(description), i.vocab.Degree),
	}
}

func decoderFor(encoding string) (func(io.Reader) io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingLatin1, "iso-8859-1":
		return func(r io.Reader) io.Reader { return charmap.ISO8859_1.NewDecoder().Reader(r) }, nil
	case EncodingUTF8, "utf8":
		return func(r io.Reader) io.Reader { return r }, nil
	default:
		return nil, fmt.Errorf("unsupported jobs encoding %q", encoding)
	}
}
