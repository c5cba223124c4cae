// Package email delivers transactional mail over the configured SMTP server.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"sales_crm_backend/platform/config"
)

const subjectWelcome = "Your Sales CRM account"

// Sender delivers the application's transactional emails.
type Sender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, fullName, temporaryPassword string) error
}

// SMTPSender delivers rendered HTML templates via a direct SMTP connection.
type SMTPSender struct {
	host       string
	port       int
	username   string
	password   string
	fromName   string
	fromEmail  string
	appBaseURL string
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:       cfg.GetSMTPHost(),
		port:       cfg.GetSMTPPort(),
		username:   cfg.GetSMTPUsername(),
		password:   cfg.GetSMTPPassword(),
		fromName:   cfg.GetEmailFromName(),
		fromEmail:  cfg.GetEmailFromAddress(),
		appBaseURL: cfg.GetAppBaseURL(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendWelcomeEmail(ctx context.Context, toEmail, fullName, temporaryPassword string) error {
	content, err := renderEmailTemplate("welcome.html", welcomeEmailData{
		baseEmailData: baseEmailData{
			Title:    "Welcome to Sales CRM",
			Heading:  "Welcome aboard",
			CTALabel: "Sign in",
			CTAURL:   s.appBaseURL + "/login",
		},
		FullName:          fullName,
		Email:             toEmail,
		TemporaryPassword: temporaryPassword,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectWelcome, content)
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendWelcomeEmail(context.Context, string, string, string) error {
	return nil
}
