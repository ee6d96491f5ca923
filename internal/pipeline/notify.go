package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/domain"
	"github.com/spigell/resume-screener/internal/events"
	"github.com/spigell/resume-screener/internal/notify"
)

// NoInviteesMessage is logged when nobody reached the threshold.
const NoInviteesMessage = "no candidates met the criteria, no emails sent"

// Sender delivers invitations and reports one result per invitee.
type Sender interface {
	SendAll(ctx context.Context, invitees []domain.Invitee) ([]notify.Result, error)
}

// Confirm asks the operator whether count invitations should go out.
type Confirm func(count int) (bool, error)

// AutoConfirm approves every batch.
func AutoConfirm(int) (bool, error) { return true, nil }

type notifyStage struct {
	toggle
	sender  Sender
	confirm Confirm
}

// NewNotify creates the stage that emails shortlisted candidates.
func NewNotify(sender Sender, confirm Confirm) Stage {
	if confirm == nil {
		confirm = AutoConfirm
	}
	return &notifyStage{sender: sender, confirm: confirm}
}

func (s *notifyStage) Name() string { return "notify" }

func (s *notifyStage) Validate(*Config) error {
	if s.sender == nil {
		return errors.New("invitation sender is required")
	}
	return nil
}

func (s *notifyStage) Apply(ctx context.Context, deps Deps, st *State) (Step, error) {
	total := len(st.Invitees)
	if total == 0 {
		deps.Logger.Info(NoInviteesMessage)
		return Step{}, nil
	}

	ok, err := s.confirm(total)
	if err != nil {
		return Step{}, err
	}
	if !ok {
		deps.Logger.Info("invitations not sent", zap.String("reason", "declined by operator"))
		return Step{Initial: total, Dropped: total}, nil
	}

	results, err := s.sender.SendAll(ctx, st.Invitees)
	st.Results = results
	if err != nil {
		return Step{}, err
	}

	sent := 0
	for _, r := range results {
		e := events.New(events.TypeInvitationSent, st.RunID, r.Invitee.Name, r.Invitee.Email)
		if r.Sent() {
			sent++
		} else {
			e.Type = events.TypeInvitationFailed
			e.Error = r.Err.Error()
		}
		_ = deps.Events.Publish(ctx, e)
	}

	return Step{Initial: total, Dropped: total - sent, Left: sent}, nil
}
