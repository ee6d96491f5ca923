package domain

import "strings"

const (
	// Unknown is stored for fields that could not be extracted.
	Unknown = "Unknown"
	// None is stored when a résumé lists no certifications.
	None = "None"

	// SkillSeparator joins skill terms in job and candidate rows.
	SkillSeparator = ", "
)

// Candidate is a résumé reduced to the fields used for matching.
type Candidate struct {
	ID             int64   `db:"id"`
	Name           string  `db:"name"`
	Email          string  `db:"email"`
	Education      string  `db:"education"`
	Experience     string  `db:"experience"`
	Skills         string  `db:"skills"`
	Certifications string  `db:"certifications"`
	MatchScore     float64 `db:"match_score"`
	Shortlisted    bool    `db:"shortlisted"`
	Source         string  `db:"source"`
	SourceHash     string  `db:"source_hash"`
}

// SkillSet splits a ", "-joined skills value into its terms.
func SkillSet(skills string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range strings.Split(skills, SkillSeparator) {
		set[s] = struct{}{}
	}
	return set
}

// Invitee is a shortlisted candidate that should receive an invitation.
type Invitee struct {
	Name  string `db:"name"`
	Email string `db:"email"`
}
