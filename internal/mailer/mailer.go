// Package mailer sends transactional email through the Resend API.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/resend/resend-go/v2"
)

// ProductName is used in the From display name of every message.
const ProductName = "Client Portal"

// ErrInvalidMessage is returned for messages missing a recipient, subject or body.
var ErrInvalidMessage = errors.New("invalid email message")

// Message is a single outgoing email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// Sender delivers messages and returns the provider message ID.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// FormatFrom builds the From header. A sender name is shown as
// "<name> via Client Portal"; without one the product name is used alone.
func FormatFrom(fromName, fromEmail string) string {
	fromName = strings.TrimSpace(fromName)
	if fromName == "" {
		return fmt.Sprintf("%s <%s>", ProductName, fromEmail)
	}
	return fmt.Sprintf("%s via %s <%s>", fromName, ProductName, fromEmail)
}

// Validate checks the parts every provider requires.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return fmt.Errorf("%w: recipient email address cannot be empty", ErrInvalidMessage)
	}
	for _, to := range m.To {
		if strings.TrimSpace(to) == "" {
			return fmt.Errorf("%w: recipient email address cannot be empty", ErrInvalidMessage)
		}
	}
	if m.From == "" {
		return fmt.Errorf("%w: sender email address cannot be empty", ErrInvalidMessage)
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: email subject cannot be empty", ErrInvalidMessage)
	}
	if m.HTML == "" && m.Text == "" {
		return fmt.Errorf("%w: email body cannot be empty", ErrInvalidMessage)
	}
	return nil
}

// ResendMailer sends through Resend.
type ResendMailer struct {
	client *resend.Client
}

// NewResendMailer creates a mailer authenticated with apiKey.
func NewResendMailer(apiKey string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey)}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	}
	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}

// Recorder is an in-memory Sender that keeps every message it is given.
// Err, when set, is returned instead of recording.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (r *Recorder) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	r.messages = append(r.messages, msg)
	return fmt.Sprintf("msg-%d", len(r.messages)), nil
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
