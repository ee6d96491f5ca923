package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "equal", a: "Python, SQL", b: "Python, SQL", want: 100},
		{name: "reordered", a: "SQL, Python", b: "python sql", want: 100},
		{name: "subset", a: "Python", b: "Python, Machine Learning", want: 100},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
		{name: "left empty", a: "", b: "Python", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "punctuation only", a: " | ", b: "Python", want: 0},
		// "cloud" vs "java": LCS 0 -> 0
		{name: "disjoint words", a: "Cloud", b: "Java", want: 0},
		// "ai" vs "aim": 2*2/5 = 80
		{name: "partial", a: "AI", b: "aim", want: 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenSetRatio(tt.a, tt.b))
			assert.Equal(t, tt.want, TokenSetRatio(tt.b, tt.a), "must be symmetric")
		})
	}
}

func TestTokenSetRatioDeterministic(t *testing.T) {
	a := "Bachelor of Science in Computer Engineering | Master Degree"
	b := "A bachelor degree in computer science is required."
	first := TokenSetRatio(a, b)
	for range 10 {
		assert.Equal(t, first, TokenSetRatio(a, b))
	}
	assert.Greater(t, first, 0)
	assert.Less(t, first, 100)
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("abc", "abc"))
	assert.Equal(t, 0, Ratio("", ""))
	// LCS("abcd", "abed") = 3 -> 6/8
	assert.Equal(t, 75, Ratio("abcd", "abed"))
	// a substitution counts twice: LCS("kitten", "sitting") = 4 -> 8/13
	assert.Equal(t, 62, Ratio("kitten", "sitting"))
	// 2*1/16 = 12.5 rounds to even
	assert.Equal(t, 12, Ratio("a", "abcdefghijklmno"))
	// 2*3/20 = 30, counted in runes
	assert.Equal(t, 30, Ratio("été", "été"+strings.Repeat("x", 14)))
}
