package scoring

import (
	"github.com/spigell/resume-screener/internal/domain"
)

// Weights controls how the partial similarities are combined.
type Weights struct {
	Skills         float64 `mapstructure:"skills" yaml:"skills"`
	Education      float64 `mapstructure:"education" yaml:"education"`
	Certifications float64 `mapstructure:"certifications" yaml:"certifications"`
	ExactBonus     float64 `mapstructure:"exact-bonus" yaml:"exact-bonus"`
}

// DefaultWeights are the weights used when none are configured.
var DefaultWeights = Weights{
	Skills:         0.65,
	Education:      0.15,
	Certifications: 0.15,
	ExactBonus:     5,
}

// Breakdown holds the partial scores of a single candidate/job pair.
type Breakdown struct {
	JobID          int64
	Skills         int
	Education      int
	Certifications int
	ExactBonus     float64
	Final          float64
}

// Scorer computes weighted fuzzy match scores.
type Scorer struct {
	weights Weights
}

func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Pair scores a candidate against a single job.
func (s *Scorer) Pair(c domain.Candidate, j domain.Job) Breakdown {
	b := Breakdown{
		JobID:          j.ID,
		Skills:         TokenSetRatio(c.Skills, j.Skills),
		Education:      TokenSetRatio(c.Education, j.Qualifications),
		Certifications: TokenSetRatio(c.Certifications, j.Qualifications),
	}
	if SharesSkill(c.Skills, j.Skills) {
		b.ExactBonus = s.weights.ExactBonus
	}
	b.Final = float64(b.Skills)*s.weights.Skills +
		float64(b.Education)*s.weights.Education +
		float64(b.Certifications)*s.weights.Certifications +
		b.ExactBonus
	return b
}

// Best returns the highest scoring job for the candidate. The zero Breakdown
// is returned when there are no jobs.
func (s *Scorer) Best(c domain.Candidate, jobs []domain.Job) Breakdown {
	var best Breakdown
	for _, j := range jobs {
		if b := s.Pair(c, j); b.Final > best.Final {
			best = b
		}
	}
	return best
}

// SharesSkill reports whether two ", "-joined skill lists have an identical term.
func SharesSkill(candidateSkills, jobSkills string) bool {
	js := domain.SkillSet(jobSkills)
	for s := range domain.SkillSet(candidateSkills) {
		if _, ok := js[s]; ok {
			return true
		}
	}
	return false
}
