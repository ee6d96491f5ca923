// Package events publishes pipeline outcomes for downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeCandidateShortlisted = "candidate.shortlisted"
	TypeInvitationSent       = "invitation.sent"
	TypeInvitationFailed     = "invitation.failed"
)

// Event is the JSON payload published for every outcome.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	RunID      string    `json:"run_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Candidate  string    `json:"candidate"`
	Email      string    `json:"email,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType, runID, candidate, email string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		RunID:      runID,
		OccurredAt: time.Now().UTC(),
		Candidate:  candidate,
		Email:      email,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
