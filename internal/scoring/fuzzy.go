package scoring

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/strutil/metrics"
)

// TokenSetRatio compares two texts by their unique word sets and returns a
// similarity in 0..100. Word order and duplicated words do not matter, and a
// text whose words are a subset of the other's scores 100.
//
// Both inputs are lowercased and every rune that is not a letter or digit is
// treated as a separator. If either side has no tokens left the result is 0.
func TokenSetRatio(a, b string) int {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	t0 := strings.Join(common, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(onlyA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(onlyB, " "))

	return max(Ratio(t0, t1), Ratio(t0, t2), Ratio(t1, t2))
}

// indel scores substitutions as a deletion plus an insertion, so its
// distance is len(a)+len(b)-2*LCS(a, b).
var indel = &metrics.Levenshtein{CaseSensitive: true, InsertCost: 1, DeleteCost: 1, ReplaceCost: 2}

// Ratio is the normalized indel similarity of two strings in 0..100:
// 2*LCS / (len(a)+len(b)), measured in runes. Halves round to even.
func Ratio(a, b string) int {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 0
	}
	matched := total - indel.Distance(a, b)
	return int(math.RoundToEven(100 * float64(matched) / float64(total)))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
