package jobs

import (
	"fmt"
	"strings"

	"github.com/spigell/resume-screener/internal/domain"
)

// SkillMatch selects how vocabulary terms are found in a description.
type SkillMatch string

const (
	// SkillMatchToken keeps whitespace-separated words equal to a term.
	// Terms containing spaces never match in this mode.
	SkillMatchToken SkillMatch = "token"
	// SkillMatchPhrase keeps terms appearing anywhere in the text, ignoring case.
	SkillMatchPhrase SkillMatch = "phrase"
)

func ParseSkillMatch(v string) (SkillMatch, error) {
	switch m := SkillMatch(strings.ToLower(strings.TrimSpace(v))); m {
	case "":
		return SkillMatchToken, nil
	case SkillMatchToken, SkillMatchPhrase:
		return m, nil
	default:
		return "", fmt.Errorf("unknown skill match mode %q (want %q or %q)", v, SkillMatchToken, SkillMatchPhrase)
	}
}

// MatchSkills returns the ", "-joined vocabulary terms found in text.
// Token mode reports every matching word in the order it appears in text,
// repeats included; phrase mode reports each term once in vocabulary order.
func MatchSkills(text string, terms []string, mode SkillMatch) string {
	var found []string

	switch mode {
	case SkillMatchPhrase:
		lower := strings.ToLower(text)
		for _, term := range terms {
			if term != "" && strings.Contains(lower, strings.ToLower(term)) {
				found = append(found, term)
			}
		}
	default:
		vocab := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			vocab[term] = struct{}{}
		}
		for _, word := range strings.Fields(text) {
			if _, ok := vocab[word]; ok {
				found = append(found, word)
			}
		}
	}

	return strings.Join(found, domain.SkillSeparator)
}

// Qualifications joins the sentences mentioning any degree keyword, ignoring case.
func Qualifications(sentences, degreeKeywords []string) string {
	var kept []string
	for _, s := range sentences {
		lower := strings.ToLower(s)
		for _, k := range degreeKeywords {
			if k != "" && strings.Contains(lower, strings.ToLower(k)) {
				kept = append(kept, s)
				break
			}
		}
	}
	return strings.Join(kept, " ")
}
