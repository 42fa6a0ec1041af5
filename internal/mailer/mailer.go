// Package mailer sends signup confirmation mail. Delivery itself is an
// external concern; the interface keeps the auth service testable.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"sync"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer delivers through a plain SMTP relay.
type SMTPMailer struct {
	host string
	port int
	from string
}

func NewSMTPMailer(host string, port int, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, nil, m.from, []string{to}, buildMessage(m.from, to, subject, body)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// buildMessage assembles the raw message. The subject is Q-encoded per
// RFC 2047 so a non-ASCII subject survives transport; header values must
// stay ASCII.
func buildMessage(from, to, subject, body string) []byte {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from, to, mime.QEncoding.Encode("utf-8", subject), body)
	return []byte(msg)
}

// LogMailer writes mail to the log instead of delivering it. Used in
// development when no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info("outbound mail", "to", to, "subject", subject, "body", body)
	return nil
}

// Recorder keeps sent mail in memory for tests.
type Recorder struct {
	mu   sync.Mutex
	Sent []RecordedMail
}

type RecordedMail struct {
	To      string
	Subject string
	Body    string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (m *Recorder) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, RecordedMail{To: to, Subject: subject, Body: body})
	return nil
}
