package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/umoc/basecamp/backend/internal/domain"
)

// ProfileLookup resolves a recipient to their e-mail address.
// repo.ProfileRepo satisfies it.
type ProfileLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.UserProfile, error)
}

// mailSender is satisfied by *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailPublisher mails each notification to its recipient.
type EmailPublisher struct {
	profiles ProfileLookup
	sender   mailSender
	from     string
}

// NewEmailPublisher returns a publisher that sends through the SMTP server
// at host:port with STARTTLS.
func NewEmailPublisher(profiles ProfileLookup, host string, port int, username, password, from string) *EmailPublisher {
	d := gomail.NewDialer(host, port, username, password)
	d.TLSConfig = &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}
	return &EmailPublisher{profiles: profiles, sender: d, from: from}
}

func (p *EmailPublisher) Name() string { return "email" }

// Publish looks up the recipient and sends them the notification text.
// Recipients without an address are skipped.
func (p *EmailPublisher) Publish(ctx context.Context, n domain.Notification) error {
	profile, err := p.profiles.GetByID(ctx, n.RecipientID)
	if err != nil {
		return fmt.Errorf("notify.EmailPublisher.Publish: recipient: %w", err)
	}
	if profile.Email == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", p.from)
	m.SetAddressHeader("To", profile.Email, profile.FullName())
	m.SetHeader("Subject", n.Message)
	m.SetBody("text/plain", plainBody(profile, n))
	m.AddAlternative("text/html", htmlBody(profile, n))

	if err := p.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("notify.EmailPublisher.Publish: send: %w", err)
	}
	return nil
}

func plainBody(to domain.UserProfile, n domain.Notification) string {
	body := fmt.Sprintf("Hi %s,\n\n%s\n", to.FirstName, n.Message)
	if n.Link != "" {
		body += "\nSee " + n.Link + "\n"
	}
	return body
}

func htmlBody(to domain.UserProfile, n domain.Notification) string {
	body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", html.EscapeString(to.FirstName), html.EscapeString(n.Message))
	if n.Link != "" {
		body += fmt.Sprintf(`<p><a href="%s">View in Basecamp</a></p>`, html.EscapeString(n.Link))
	}
	return body
}
