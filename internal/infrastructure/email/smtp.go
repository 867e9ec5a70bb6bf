package email

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	// BaseURL prefixes links in emails, e.g. "https://fammo.ai".
	BaseURL     string
	AdminEmails []string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (s *SMTPEmailService) SendActivationEmail(to, token string) error {
	activationURL := fmt.Sprintf("%s/activate?token=%s", s.config.BaseURL, url.QueryEscape(token))

	subject := "Activate your FAMMO account"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Welcome to FAMMO!</h2>
			<p>Please activate your account by clicking the link below:</p>
			<p><a href="%s">Activate account</a></p>
			<p>Or copy and paste this URL into your browser:</p>
			<p>%s</p>
			<p>This link will expire in 24 hours.</p>
		</body>
		</html>
	`, activationURL, activationURL)

	plainBody := fmt.Sprintf(`
Welcome to FAMMO!

Please activate your account by visiting:
%s

This link will expire in 24 hours.
	`, activationURL)

	return s.sendEmail([]string{to}, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendClinicConfirmationEmail(to, clinicName string, clinicID uint, token string) error {
	confirmURL := fmt.Sprintf("%s/api/vets/clinics/confirm?clinic_id=%d&token=%s",
		s.config.BaseURL, clinicID, url.QueryEscape(token))
	name := html.EscapeString(clinicName)

	subject := "Confirm your clinic email - FAMMO"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Confirm %s</h2>
			<p>Thank you for registering your clinic with FAMMO. Please confirm this email address:</p>
			<p><a href="%s">Confirm email</a></p>
			<p>%s</p>
			<p>This link will expire in 24 hours. Your clinic will appear in search results once it is also approved by our team.</p>
		</body>
		</html>
	`, name, confirmURL, confirmURL)

	plainBody := fmt.Sprintf(`
Confirm %s

Thank you for registering your clinic with FAMMO. Please confirm this email address by visiting:
%s

This link will expire in 24 hours.
	`, clinicName, confirmURL)

	return s.sendEmail([]string{to}, subject, htmlBody, plainBody)
}

// NotifyAdminsClinicConfirmed tells the operators that a clinic is waiting
// for approval. It is a no-op when no admin recipients are configured.
func (s *SMTPEmailService) NotifyAdminsClinicConfirmed(clinicName, clinicEmail, city string) error {
	if len(s.config.AdminEmails) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Clinic awaiting approval: %s", clinicName)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>New clinic confirmed its email</h2>
			<ul>
				<li>Name: %s</li>
				<li>Email: %s</li>
				<li>City: %s</li>
			</ul>
			<p>Review and approve it in the admin panel.</p>
		</body>
		</html>
	`, html.EscapeString(clinicName), html.EscapeString(clinicEmail), html.EscapeString(city))

	plainBody := fmt.Sprintf(`
New clinic confirmed its email

Name: %s
Email: %s
City: %s

Review and approve it in the admin panel.
	`, clinicName, clinicEmail, city)

	return s.sendEmail(s.config.AdminEmails, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to []string, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", strings.TrimSpace(plainBody))
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
