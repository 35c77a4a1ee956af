package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/medassist/telemed-api/internal/config"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, to, doctorName string, scheduledAt time.Time) error
}

type mailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewService returns a gomail-backed sender, or a no-op sender when mail
// is not configured.
func NewService(cfg config.MailConfig) Service {
	if !cfg.Enabled() {
		return noopService{}
	}
	return &mailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *mailService) SendBookingConfirmation(_ context.Context, to, doctorName string, scheduledAt time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your consultation is booked")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your consultation with %s is scheduled for %s.",
		doctorName, scheduledAt.Format(time.RFC1123),
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}
	return nil
}

type noopService struct{}

func (noopService) SendBookingConfirmation(context.Context, string, string, time.Time) error {
	return nil
}
