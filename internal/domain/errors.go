package domain

import "errors"

var (
	// ErrLocked is returned when another run holds the database lock.
	ErrLocked = errors.New("database is locked by another run")

	// ErrInvalidAddress is returned when an invitee has no deliverable email address.
	ErrInvalidAddress = errors.New("invalid email address")

	// ErrNoJobs is reported when scoring runs against an empty jobs table.
	ErrNoJobs = errors.New("no jobs to score against")

	// ErrNoColumns is returned when the jobs file has fewer than two columns.
	ErrNoColumns = errors.New("jobs file must have at least two columns")
)
