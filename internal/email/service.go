package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/neuroscan/clinic-api/internal/config"
	"github.com/neuroscan/clinic-api/internal/model"
)

// Sender delivers a notification to one recipient.
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.NotificationConfig) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.FromAddress,
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// NoopSender is used when notifications are disabled in config.
type NoopSender struct{}

func (NoopSender) Send(string, string, string) error { return nil }

// AppointmentMessage renders the notification for an appointment lifecycle
// event. The empty return means the event type carries no patient email.
func AppointmentMessage(eventType string, payload model.AppointmentEventPayload) (subject, body string) {
	when := fmt.Sprintf("%s at %s", payload.AppointmentDate, payload.TimeSlot)

	switch eventType {
	case model.EventAppointmentBooked:
		return "Appointment request received",
			fmt.Sprintf("Your appointment request for %s has been received and is awaiting confirmation.", when)
	case model.EventAppointmentApproved:
		return "Appointment confirmed",
			fmt.Sprintf("Your appointment on %s has been confirmed.", when)
	case model.EventAppointmentRejected:
		return "Appointment declined",
			fmt.Sprintf("Your appointment request for %s could not be accommodated. Please pick another slot.", when)
	case model.EventAppointmentCompleted:
		return "Appointment completed",
			fmt.Sprintf("Your appointment on %s is complete. Any notes from your doctor are available in your records.", when)
	case model.EventAppointmentCancelled:
		return "Appointment cancelled",
			fmt.Sprintf("Your appointment on %s has been cancelled.", when)
	}
	return "", ""
}

// DoctorApprovedMessage renders the account-activation notice.
func DoctorApprovedMessage() (subject, body string) {
	return "Your account has been approved",
		"An administrator has approved your account. You can now sign in and accept appointments."
}
