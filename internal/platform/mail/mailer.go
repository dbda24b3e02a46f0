// Package mail dispatches transactional email. Production wires the SMTP
// transport; development uses the log transport so no mail server is needed.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"time"

	"learnhub_backend/internal/config"
)

// dialTimeout bounds the SMTP connection attempt so a dead mail server
// cannot pin request handlers.
const dialTimeout = 10 * time.Second

// SMTPMailer sends mail through an SMTP relay with STARTTLS.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates an SMTPMailer from the service configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

// SendPasswordReset renders and dispatches the password-reset message.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	if m.host == "" || m.username == "" {
		return fmt.Errorf("smtp not configured")
	}

	msg, err := buildResetMessage(m.from, to, name, resetURL)
	if err != nil {
		return fmt.Errorf("failed to build reset message: %w", err)
	}
	return m.send(ctx, to, msg)
}

// send delivers a raw message, respecting the context deadline for the dial.
func (m *SMTPMailer) send(ctx context.Context, to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to reach smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake failed: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}
	if err := client.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp MAIL failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT failed: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}
	return client.Quit()
}

// buildResetMessage renders the multipart/alternative reset email with a
// plain-text and an HTML body.
func buildResetMessage(from, to, name, resetURL string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	msg.WriteString("Subject: Your password reset token (valid for 10 minutes)\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	msg.WriteString("\r\n")

	text, html := renderResetBodies(name, resetURL)

	tp, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	if _, err := tp.Write([]byte(text)); err != nil {
		return nil, err
	}
	hp, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	if _, err := hp.Write([]byte(html)); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

// renderResetBodies produces the text and HTML variants of the reset email.
func renderResetBodies(name, resetURL string) (text, html string) {
	text = fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Forgot your password? Open the link below to set a new one:\r\n\r\n"+
			"%s\r\n\r\n"+
			"The link is valid for 10 minutes. If you didn't request a reset, ignore this email.\r\n",
		name, resetURL)
	html = fmt.Sprintf(
		"<p>Hello %s,</p>"+
			"<p>Forgot your password? <a href=%q>Set a new one here</a>.</p>"+
			"<p>The link is valid for 10 minutes. If you didn't request a reset, ignore this email.</p>",
		name, resetURL)
	return text, html
}

// LogMailer is the development transport: it logs the reset link instead of
// sending anything.
type LogMailer struct{}

// SendPasswordReset logs the message that would have been sent.
func (LogMailer) SendPasswordReset(_ context.Context, to, name, resetURL string) error {
	slog.Info("password reset email (dev transport)",
		"to", to, "name", name, "reset_url", resetURL)
	return nil
}
