package domain

// Job is a posting ingested from the job descriptions file.
type Job struct {
	ID             int64  `db:"id"`
	Title          string `db:"title"`
	Skills         string `db:"skills"`
	Qualifications string `db:"qualifications"`
}
