package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/zeecare/hospital-api/internal/config"
	"github.com/zeecare/hospital-api/internal/model"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, apt *model.Appointment) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, apt *model.Appointment) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", apt.Email)
	msg.SetHeader("Subject", "Your appointment is booked")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Dear %s %s,\n\nYour %s appointment with Dr. %s %s on %s is confirmed and paid.\n\nZeeCare Medical Institute",
		apt.FirstName, apt.LastName,
		apt.Department,
		apt.DoctorFirstName, apt.DoctorLastName,
		apt.AppointmentDate.Format(model.DateOnly),
	))

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}
	return nil
}

// NoopService satisfies Service when SMTP is not configured
type NoopService struct{}

func (NoopService) SendBookingConfirmation(context.Context, *model.Appointment) error {
	return nil
}
