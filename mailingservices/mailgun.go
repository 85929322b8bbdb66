package mailingservices

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

// Init configures the mailgun client from the environment
func (m *Mailgun) Init() {
	domain := os.Getenv("MINDBOOST_MG_DOMAIN")
	apiKey := os.Getenv("MINDBOOST_MG_API_KEY")
	m.Client = mailgun.NewMailgun(domain, apiKey)
	m.From = os.Getenv("MINDBOOST_EMAIL_FROM")
	if m.From == "" {
		m.From = fmt.Sprintf("Mindboost <no-reply@%s>", domain)
	}
}

func (m *Mailgun) send(recipient, subject, body string) (string, error) {
	message := m.Client.NewMessage(m.From, subject, body, recipient)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	_, id, err := m.Client.Send(ctx, message)
	if err != nil {
		log.Printf("error sending mail to %s: %v", recipient, err)
		return "", err
	}
	return id, nil
}

// SendResetPassword emails the password reset link to the user
func (m *Mailgun) SendResetPassword(recipient, resetLink string) (string, error) {
	body := fmt.Sprintf("You requested a password reset for your Mindboost account.\n\nFollow this link to choose a new password: %s\n\nIf you did not request this, you can ignore this email.", resetLink)
	return m.send(recipient, "Reset your Mindboost password", body)
}

// SendWelcome emails a welcome message to a newly registered user
func (m *Mailgun) SendWelcome(recipient, fullname string) (string, error) {
	body := fmt.Sprintf("Hi %s,\n\nWelcome to Mindboost! Your account is ready. Log in to browse courses and start preparing for your exams.", fullname)
	return m.send(recipient, "Welcome to Mindboost", body)
}
