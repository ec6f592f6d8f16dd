package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, from, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	if to == m.from {
		return errors.New("invalid email address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

// LogMailer only logs what would have been sent. Used when no SMTP host is
// configured
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, body string) error {
	zap.L().Info("Mail", zap.String("to", to), zap.String("subject", subject), zap.String("body", body))
	return nil
}
