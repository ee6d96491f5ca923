package resume

import (
	"regexp"
	"strings"

	"github.com/spigell/resume-screener/internal/domain"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Email returns the first address in text, or domain.Unknown.
func Email(text string) string {
	if m := emailPattern.FindString(text); m != "" {
		return m
	}
	return domain.Unknown
}

// Education joins with " | " the lines containing any keyword (case-sensitive).
func Education(text string, keywords []string) string {
	return orDefault(strings.Join(linesWith(text, keywords), " | "), domain.Unknown)
}

// Experience joins with a space the lines containing any keyword (case-sensitive).
func Experience(text string, keywords []string) string {
	return orDefault(strings.Join(linesWith(text, keywords), " "), domain.Unknown)
}

// Certifications joins with " | " the lines containing any keyword, or domain.None.
func Certifications(text string, keywords []string) string {
	return orDefault(strings.Join(linesWith(text, keywords), " | "), domain.None)
}

// Skills lists, in vocabulary order, the terms found anywhere in text ignoring case.
func Skills(text string, terms []string) string {
	lower := strings.ToLower(text)
	var found []string
	for _, term := range terms {
		if term != "" && strings.Contains(lower, strings.ToLower(term)) {
			found = append(found, term)
		}
	}
	return orDefault(strings.Join(found, domain.SkillSeparator), domain.Unknown)
}

func linesWith(text string, keywords []string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for _, k := range keywords {
			if k != "" && strings.Contains(line, k) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
