// Package mailer renders and delivers the account emails (verification and
// password reset).
package mailer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gopkg.in/gomail.v2"
)

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Dispatcher delivers a rendered message.
type Dispatcher interface {
	Send(ctx context.Context, m Message) error
}

// SMTPDispatcher sends through an SMTP relay.
type SMTPDispatcher struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPDispatcher(host string, port int, user, pass, from string) *SMTPDispatcher {
	return &SMTPDispatcher{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (d *SMTPDispatcher) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", d.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Text)
	if m.HTML != "" {
		msg.AddAlternative("text/html", m.HTML)
	}
	if err := d.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	return nil
}

// ConsoleDispatcher prints the plain-text part instead of sending it. Used when
// no SMTP host is configured (local development).
type ConsoleDispatcher struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleDispatcher(w io.Writer) *ConsoleDispatcher {
	return &ConsoleDispatcher{w: w}
}

func (d *ConsoleDispatcher) Send(_ context.Context, m Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := fmt.Fprintf(d.w, "========== EMAIL ==========\nTo: %s\nSubject: %s\n\n%s\n===========================\n", m.To, m.Subject, m.Text)
	return err
}
