// File: /services/email_service.go
package services

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
	"runclub-api/config"
	"runclub-api/models"
)

// Mailer delivers account and run notifications.
type Mailer interface {
	SendWelcome(user models.User) error
	SendJoinConfirmation(user models.User, run models.Run) error
}

// NoopMailer is used when SMTP is not configured.
type NoopMailer struct{}

func (NoopMailer) SendWelcome(models.User) error { return nil }
func (NoopMailer) SendJoinConfirmation(models.User, models.Run) error { return nil }

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	config *config.Config
	dialer sender
	log    *zap.Logger
}

func NewEmailService(cfg *config.Config, log *zap.Logger) *EmailService {
	return &EmailService{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		log:    log.Named("email"),
	}
}

// NewMailer picks the SMTP mailer when a host is configured.
func NewMailer(cfg *config.Config, log *zap.Logger) Mailer {
	if !cfg.EmailEnabled() {
		return NoopMailer{}
	}
	return NewEmailService(cfg, log)
}

func (es *EmailService) newMessage(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

func (es *EmailService) send(m *gomail.Message, to string) error {
	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	es.log.Debug("email sent", zap.String("to", to))
	return nil
}

func (es *EmailService) SendWelcome(user models.User) error {
	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>Welcome to %s, %s!</h2>
<p>Your account is ready. Browse the upcoming group runs and join one that fits your pace.</p>
</body></html>`, es.config.FromName, user.Name)

	return es.send(es.newMessage(user.Email, fmt.Sprintf("Welcome to %s!", es.config.FromName), body), user.Email)
}

func (es *EmailService) SendJoinConfirmation(user models.User, run models.Run) error {
	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>You're in, %s!</h2>
<p><strong>%s</strong> - %.1f km at %s/km</p>
<p>%s, %s</p>
</body></html>`, user.Name, run.Title, run.Distance, run.Pace, run.Location, run.ScheduledAt.Format("Mon Jan 2, 15:04"))

	return es.send(es.newMessage(user.Email, "Run confirmed: "+run.Title, body), user.Email)
}
