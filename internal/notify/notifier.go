// Package notify emails interview invitations to shortlisted candidates.
package notify

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spigell/resume-screener/internal/domain"
	"github.com/spigell/resume-screener/internal/logger"
)

const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 465
)

// Config holds SMTP and message settings. The password is resolved through the secrets loader.
type Config struct {
	Host            string   `mapstructure:"host" yaml:"host"`
	Port            int      `mapstructure:"port" yaml:"port"`
	Username        string   `mapstructure:"username" yaml:"username"`
	Password        string   `mapstructure:"password" yaml:"password,omitempty" json:"-"`
	PasswordFile    string   `mapstructure:"password-file" yaml:"password-file,omitempty"`
	PasswordKeyring string   `mapstructure:"password-keyring" yaml:"password-keyring,omitempty"`
	From            string   `mapstructure:"from" yaml:"from"`
	FromName        string   `mapstructure:"from-name" yaml:"from-name"`
	Company         string   `mapstructure:"company" yaml:"company"`
	Signature       []string `mapstructure:"signature" yaml:"signature"`
	Format          string   `mapstructure:"format" yaml:"format"`
	Template        string   `mapstructure:"template" yaml:"template,omitempty"`
	Slots           []string `mapstructure:"slots" yaml:"slots"`
	MinDays         int      `mapstructure:"min-days" yaml:"min-days"`
	MaxDays         int      `mapstructure:"max-days" yaml:"max-days"`
	RatePerSecond   float64  `mapstructure:"rate-per-second" yaml:"rate-per-second"`
}

// Validate checks the settings needed before any message is sent.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("notify.host is required")
	}
	if c.Port <= 0 {
		return fmt.Errorf("notify.port must be positive")
	}
	if _, err := mail.ParseAddress(c.From); err != nil {
		return fmt.Errorf("notify.from: %w", err)
	}
	if c.MaxDays != 0 && c.MaxDays < c.MinDays {
		return fmt.Errorf("notify.max-days must not be less than notify.min-days")
	}
	if c.RatePerSecond < 0 {
		return fmt.Errorf("notify.rate-per-second must not be negative")
	}
	return nil
}

// Result is the outcome of one invitation.
type Result struct {
	Invitee domain.Invitee
	Slot    Slot
	Err     error
}

func (r Result) Sent() bool {
	return r.Err == nil
}

// Notifier sends invitations one recipient at a time.
type Notifier struct {
	mailer    Mailer
	composer  *Composer
	scheduler *Scheduler
	limiter   *rate.Limiter
	from      string
	logger    *zap.Logger
}

func NewNotifier(mailer Mailer, composer *Composer, scheduler *Scheduler, ratePerSecond float64, logger *zap.Logger) *Notifier {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	return &Notifier{
		mailer:    mailer,
		composer:  composer,
		scheduler: scheduler,
		limiter:   rate.NewLimiter(limit, 1),
		from:      composer.from.Address,
		logger:    logger,
	}
}

// SendAll sends one invitation per invitee. A failure for one recipient is
// recorded in its Result and does not stop the others. The returned error is
// non-nil only when ctx is cancelled.
func (n *Notifier) SendAll(ctx context.Context, invitees []domain.Invitee) ([]Result, error) {
	results := make([]Result, 0, len(invitees))
	for _, inv := range invitees {
		if err := n.limiter.Wait(ctx); err != nil {
			return results, err
		}

		res := n.send(ctx, inv)
		results = append(results, res)

		log := n.logger.With(
			zap.String(logger.FieldCandidate, inv.Name),
			zap.String("email", inv.Email),
		)
		if res.Err != nil {
			log.Error("invitation failed", zap.Error(res.Err))
			continue
		}
		log.Info("invitation sent", zap.String("date", res.Slot.Date), zap.String("time", res.Slot.Time))
	}
	return results, nil
}

func (n *Notifier) send(ctx context.Context, inv domain.Invitee) Result {
	res := Result{Invitee: inv, Slot: n.scheduler.Next()}

	to, err := mail.ParseAddress(inv.Email)
	if err != nil || inv.Email == domain.Unknown {
		res.Err = fmt.Errorf("%q: %w", inv.Email, domain.ErrInvalidAddress)
		return res
	}

	msg, err := n.composer.Compose(inv.Name, mail.Address{Name: inv.Name, Address: to.Address}, res.Slot)
	if err != nil {
		res.Err = err
		return res
	}

	if err := n.mailer.Send(ctx, n.from, to.Address, msg); err != nil {
		res.Err = err
	}
	return res
}
