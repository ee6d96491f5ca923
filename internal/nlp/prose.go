package nlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

const personLabel = "PERSON"

// Prose tags text with the jdkato/prose pretrained models.
type Prose struct{}

// NewProse returns the default tagger.
func NewProse() *Prose {
	return &Prose{}
}

// Sentences segments text. Text that cannot be parsed is returned as one sentence.
func (p *Prose) Sentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	doc, err := prose.NewDocument(text, prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		return []string{text}
	}

	sentences := make([]string, 0, len(doc.Sentences()))
	for _, s := range doc.Sentences() {
		if t := strings.TrimSpace(s.Text); t != "" {
			sentences = append(sentences, t)
		}
	}
	return sentences
}

// PersonNames returns PERSON entities in order of appearance.
func (p *Prose) PersonNames(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("tagging text: %w", err)
	}

	var names []string
	for _, ent := range doc.Entities() {
		if ent.Label == personLabel {
			names = append(names, strings.TrimSpace(ent.Text))
		}
	}
	return names, nil
}
