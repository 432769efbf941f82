package mailer

import (
	"context"
	"strconv"
	"time"
)

const appName = "TikClone"

// Service composes and dispatches the account emails.
type Service struct {
	d   Dispatcher
	tpl *Templates
	ttl time.Duration
}

// NewService wires a dispatcher to the templates. ttl is shown to the reader as
// the link lifetime.
func NewService(d Dispatcher, tpl *Templates, ttl time.Duration) *Service {
	return &Service{d: d, tpl: tpl, ttl: ttl}
}

type linkData struct {
	AppName   string
	Link      string
	ExpiresIn string
}

func (s *Service) SendVerificationEmail(ctx context.Context, to, link string) error {
	return s.send(ctx, to, "Verify your "+appName+" account", TemplateVerifyEmail, link)
}

func (s *Service) SendPasswordResetEmail(ctx context.Context, to, link string) error {
	return s.send(ctx, to, "Reset your "+appName+" password", TemplateResetPassword, link)
}

func (s *Service) send(ctx context.Context, to, subject, tpl, link string) error {
	html, text, err := s.tpl.Render(tpl, linkData{AppName: appName, Link: link, ExpiresIn: humanDuration(s.ttl)})
	if err != nil {
		return err
	}
	return s.d.Send(ctx, Message{To: to, Subject: subject, HTML: html, Text: text})
}

func humanDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "a short while"
	case d%time.Hour == 0:
		if h := int(d / time.Hour); h != 1 {
			return strconv.Itoa(h) + " hours"
		}
		return "1 hour"
	case d%time.Minute == 0:
		if m := int(d / time.Minute); m != 1 {
			return strconv.Itoa(m) + " minutes"
		}
		return "1 minute"
	}
	return d.String()
}
