package jobs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-screener/internal/domain"
	"github.com/spigell/resume-screener/internal/vocabulary"
)

// periodSegmenter splits on ". " which is enough for the fixtures below.
type periodSegmenter struct{}

func (periodSegmenter) Sentences(text string) []string {
	var out []string
	for _, s := range strings.SplitAfter(text, ". ") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func newTestIngestor(t *testing.T, mode SkillMatch) (*Ingestor, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return NewIngestor(vocabulary.Defaults(), periodSegmenter{}, mode, zap.New(core)), logs
}

func TestReadDataScientistPosting(t *testing.T) {
	ing, _ := newTestIngestor(t, SkillMatchToken)

	csv := "Job Title,Job Description,Extra\n" +
		`Data Scientist,"We use Python and SQL daily. Bachelor's in Computer Science required. Machine Learning a plus.",ignored` + "\n"

	jobs, err := ing.Read(strings.NewReader(csv), EncodingUTF8)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	assert.Equal(t, domain.Job{
		Title:          "Data Scientist",
		Skills:         "Python, SQL",
		Qualifications: "Bachelor's in Computer Science required.",
	}, jobs[0])
}

func TestReadSkipsShortRows(t *testing.T) {
	ing, logs := newTestIngestor(t, SkillMatchToken)

	csv := "title,description\nlonely\nEngineer,Cloud and AI work.\n"

	jobs, err := ing.Read(strings.NewReader(csv), EncodingUTF8)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Engineer", jobs[0].Title)
	assert.Equal(t, "Cloud, AI", jobs[0].Skills)
	assert.Empty(t, jobs[0].Qualifications)

	assert.Equal(t, 1, logs.FilterMessage("skipping job row with fewer than two columns").Len())
}

func TestReadHeaderOnlyAndEmpty(t *testing.T) {
	ing, _ := newTestIngestor(t, SkillMatchToken)

	jobs, err := ing.Read(strings.NewReader("title,description\n"), EncodingUTF8)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	jobs, err = ing.Read(strings.NewReader(""), EncodingUTF8)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = ing.Read(strings.NewReader("title\nx\n"), EncodingUTF8)
	require.ErrorIs(t, err, domain.ErrNoColumns)
}

func TestReadLatin1(t *testing.T) {
	ing, _ := newTestIngestor(t, SkillMatchToken)

	raw := []byte("title,description\nAnalyste donn\xe9es,Python requis.\n")

	jobs, err := ing.Read(strings.NewReader(string(raw)), EncodingLatin1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Analyste données", jobs[0].Title)
	assert.Equal(t, "Python", jobs[0].Skills)
}

func TestReadFile(t *testing.T) {
	ing, _ := newTestIngestor(t, SkillMatchToken)

	path := filepath.Join(t.TempDir(), "jobs.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\nSRE,Cybersecurity focus.\n"), 0o600))

	jobs, err := ing.ReadFile(path, "")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Cybersecurity", jobs[0].Skills)

	_, err = ing.ReadFile(filepath.Join(t.TempDir(), "missing.csv"), "")
	require.Error(t, err)

	_, err = ing.Read(strings.NewReader(""), "utf-16")
	require.Error(t, err)
}

func TestMatchSkills(t *testing.T) {
	terms := vocabulary.Defaults().JobSkills

	cases := []struct {
		name string
		text string
		mode SkillMatch
		want string
	}{
		{"token keeps text order and repeats", "SQL then Python then SQL", SkillMatchToken, "SQL, Python, SQL"},
		{"token is case sensitive", "python sql", SkillMatchToken, ""},
		{"token ignores punctuation-attached words", "Python, SQL.", SkillMatchToken, ""},
		{"token never matches multiword terms", "Machine Learning", SkillMatchToken, ""},
		{"phrase matches multiword terms", "machine learning and python", SkillMatchPhrase, "Python, Machine Learning"},
		{"phrase uses vocabulary order", "sql, cloud", SkillMatchPhrase, "Cloud, SQL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchSkills(tc.text, terms, tc.mode))
		})
	}
}

func TestQualifications(t *testing.T) {
	got := Qualifications([]string{
		"Strong communicator.",
		"A MASTER'S DEGREE is preferred.",
		"PhD welcome.",
	}, vocabulary.Defaults().Degree)

	assert.Equal(t, "A MASTER'S DEGREE is preferred. PhD welcome.", got)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, Config{File: "jobs.csv"}.Validate())
	require.NoError(t, Config{File: "jobs.csv", Encoding: "UTF-8", SkillMatch: "phrase"}.Validate())
	require.Error(t, Config{}.Validate())
	require.Error(t, Config{File: "jobs.csv", Encoding: "ebcdic"}.Validate())
	require.Error(t, Config{File: "jobs.csv", SkillMatch: "fuzzy"}.Validate())
}
