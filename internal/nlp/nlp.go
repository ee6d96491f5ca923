// Package nlp holds the tokenization and entity tagging used to read jobs and résumés.
package nlp

import "context"

// SentenceSegmenter splits free text into sentences.
type SentenceSegmenter interface {
	Sentences(text string) []string
}

// NameFinder returns the person names it can find in text, in order of appearance.
type NameFinder interface {
	PersonNames(ctx context.Context, text string) ([]string, error)
}

// FirstName returns the first person name found, or ok=false.
func FirstName(ctx context.Context, finder NameFinder, text string) (string, bool, error) {
	names, err := finder.PersonNames(ctx, text)
	if err != nil {
		return "", false, err
	}
	for _, n := range names {
		if n != "" {
			return n, true, nil
		}
	}
	return "", false, nil
}
