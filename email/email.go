// Package email sends subscription confirmation mail over SMTP.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"signup-backend/config"
	"signup-backend/subscriptions"
)

// DefaultTimeout bounds one delivery when the caller's context has no
// earlier deadline.
const DefaultTimeout = 10 * time.Second

// Mailer delivers plain-text mail through one SMTP relay.
type Mailer struct {
	host    string
	addr    string
	auth    smtp.Auth
	from    string
	timeout time.Duration
	dialer  net.Dialer
	deliver func(ctx context.Context, to string, msg []byte) error
	log     *slog.Logger
}

// NewMailer builds a Mailer from the SMTP_* settings. It returns nil when
// SMTP is not configured; a nil *Mailer must not be used as a notifier.
func NewMailer(cfg *config.Config, log *slog.Logger) *Mailer {
	if !cfg.SMTPEnabled() {
		return nil
	}
	if log == nil {
		log = slog.Default()
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	m := &Mailer{
		host:    cfg.SMTPHost,
		addr:    net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort),
		auth:    smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost),
		from:    from,
		timeout: DefaultTimeout,
		log:     log,
	}
	m.deliver = m.sendSMTP
	return m
}

// Send delivers one message. It gives up when ctx is done or the mailer's
// timeout passes, whichever comes first.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, body)
	if err := m.deliver(ctx, to, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// sendSMTP is smtp.SendMail with every network step bounded by ctx.
func (m *Mailer) sendSMTP(ctx context.Context, to string, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	conn, err := m.dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}
	if ok, _ := c.Extension("AUTH"); ok && m.auth != nil {
		if err := c.Auth(m.auth); err != nil {
			return err
		}
	}
	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// SubscriptionCreated mails a confirmation to the subscriber. Records without
// an email address are skipped.
func (m *Mailer) SubscriptionCreated(ctx context.Context, s *subscriptions.Subscription) error {
	if s == nil || strings.TrimSpace(s.Email) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, body := confirmation(s)
	if err := m.Send(ctx, s.Email, subject, body); err != nil {
		return err
	}
	m.log.Info("confirmation sent", "subscription_id", s.ID, "to", s.Email)
	return nil
}

func confirmation(s *subscriptions.Subscription) (string, string) {
	months := "month"
	if s.DurationMonths != 1 {
		months = "months"
	}
	subject := fmt.Sprintf("Your %s membership is %s", s.PlanName, strings.ToLower(string(s.Status)))
	body := fmt.Sprintf(`Hi %s,

Your %s plan is confirmed for %d %s.
Status: %s

Thanks for joining.`, s.UserName, s.PlanName, s.DurationMonths, months, s.Status)
	return subject, body
}
