package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"time"

	"github.com/avast/retry-go/v4"
)

// Mailer dispatches transactional email. Delivery failure is a
// presentation concern: callers log and continue.
type Mailer interface {
	SendLoginLink(to, link string, ttl time.Duration) error
}

// SMTPConfig holds outbound mail configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SiteName string
}

// SMTPMailer sends mail through a plain SMTP relay
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a new SMTP-backed mailer
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.SiteName == "" {
		cfg.SiteName = "Glow Atelier"
	}
	return &SMTPMailer{cfg: cfg}
}

// loginLinkParams is passed as data when executing the login email template
type loginLinkParams struct {
	SiteName string
	Link     string
	Minutes  int
}

var loginLinkTemplate = template.Must(template.New("login_link").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>Sign in to {{.SiteName}}</h2>
  <p>Click the button below to sign in to your client portal. The link is valid for {{.Minutes}} minutes and can be used once.</p>
  <p><a href="{{.Link}}" style="display:inline-block;padding:12px 24px;background:#b76e79;color:#fff;text-decoration:none;border-radius:6px;">Sign in</a></p>
  <p>If the button does not work, copy this address into your browser:<br>{{.Link}}</p>
  <p>If you did not request this email, you can ignore it.</p>
</body>
</html>
`))

// RenderLoginLink renders the login email body
func RenderLoginLink(siteName, link string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := loginLinkTemplate.Execute(&buf, loginLinkParams{
		SiteName: siteName,
		Link:     link,
		Minutes:  int(ttl.Minutes()),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendLoginLink emails a magic link. Transient SMTP failures are retried
// a few times before giving up.
func (m *SMTPMailer) SendLoginLink(to, link string, ttl time.Duration) error {
	body, err := RenderLoginLink(m.cfg.SiteName, link, ttl)
	if err != nil {
		return fmt.Errorf("render login email: %w", err)
	}

	subject := fmt.Sprintf("Your %s sign-in link", m.cfg.SiteName)
	msg := []byte("From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" + body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var a smtp.Auth
	if m.cfg.Username != "" {
		a = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	err = retry.Do(
		func() error {
			return smtp.SendMail(addr, a, m.cfg.From, []string{to}, msg)
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		return fmt.Errorf("send login email: %w", err)
	}

	return nil
}

// LogMailer logs links instead of sending them. Used in development when
// no SMTP relay is configured.
type LogMailer struct{}

// SendLoginLink logs the link to stdout
func (m *LogMailer) SendLoginLink(to, link string, ttl time.Duration) error {
	log.Printf("mailer: login link for %s (valid %s): %s", to, ttl, link)
	return nil
}
