// Package vocabulary holds the keyword lists used by the extractors.
package vocabulary

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Vocabularies maps every keyword category to its terms. Job and résumé skills
// are configured independently.
type Vocabularies struct {
	JobSkills     []string `mapstructure:"job-skills" yaml:"job-skills"`
	ResumeSkills  []string `mapstructure:"resume-skills" yaml:"resume-skills"`
	Degree        []string `mapstructure:"degree" yaml:"degree"`
	Education     []string `mapstructure:"education" yaml:"education"`
	Experience    []string `mapstructure:"experience" yaml:"experience"`
	Certification []string `mapstructure:"certification" yaml:"certification"`
}

// Defaults returns the built-in vocabularies.
func Defaults() Vocabularies {
	return Vocabularies{
		JobSkills: []string{"Python", "Machine Learning", "AI", "Cloud", "Cybersecurity", "SQL"},
		ResumeSkills: []string{
			"Python", "Machine Learning", "AI", "Deep Learning", "TensorFlow", "SQL", "Java", "Cloud",
			"Cybersecurity", "Data Science", "NLP", "Big Data", "DevOps",
		},
		Degree:        []string{"bachelor", "master", "phd", "degree", "certification"},
		Education:     []string{"Bachelor", "Master", "PhD", "Diploma", "Engineering", "Degree"},
		Experience:    []string{"Experience", "Work Experience"},
		Certification: []string{"Certified", "Certification"},
	}
}

// AsMap returns the vocabularies keyed by category, suitable for viper defaults.
func (v Vocabularies) AsMap() map[string]any {
	return map[string]any{
		"job-skills":    v.JobSkills,
		"resume-skills": v.ResumeSkills,
		"degree":        v.Degree,
		"education":     v.Education,
		"experience":    v.Experience,
		"certification": v.Certification,
	}
}

// Parse decodes a category -> terms mapping. Categories missing from raw keep
// their default terms; unknown categories are rejected.
func Parse(raw map[string]any) (Vocabularies, error) {
	v := Defaults()
	if len(raw) == 0 {
		return v, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           &v,
	})
	if err != nil {
		return v, err
	}

	if err := decoder.Decode(raw); err != nil {
		return v, fmt.Errorf("decoding vocabularies: %w", err)
	}

	v.normalize()
	return v, nil
}

func (v *Vocabularies) normalize() {
	for _, list := range []*[]string{
		&v.JobSkills, &v.ResumeSkills, &v.Degree, &v.Education, &v.Experience, &v.Certification,
	} {
		*list = trimList(*list)
	}
}

func trimList(xs []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" || seen[x] {
			continue
		}
		seen[x] = true
		out = append(out, x)
	}
	return out
}
