// utils/email.go
package utils

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Notifier delivers a single plain-text email
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// PostmarkNotifier sends email through Postmark
type PostmarkNotifier struct {
	client *postmark.Client
	from   string
}

// NewPostmarkNotifier creates a notifier for the given server token
func NewPostmarkNotifier(serverToken, from string) *PostmarkNotifier {
	return &PostmarkNotifier{client: postmark.NewClient(serverToken, ""), from: from}
}

func (n *PostmarkNotifier) Send(ctx context.Context, to, subject, body string) error {
	_, err := n.client.SendEmail(postmark.Email{
		From:     n.from,
		To:       to,
		Subject:  subject,
		TextBody: body,
	})
	if err != nil {
		return fmt.Errorf("postmark: %w", err)
	}
	return nil
}

// SendgridNotifier sends email through SendGrid
type SendgridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendgridNotifier creates a notifier for the given API key
func NewSendgridNotifier(apiKey, from string) *SendgridNotifier {
	return &SendgridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Campus Connect", from),
	}
}

func (n *SendgridNotifier) Send(ctx context.Context, to, subject, body string) error {
	message := mail.NewSingleEmail(n.from, subject, mail.NewEmail("", to), body, "")
	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogNotifier only logs; used when no provider is configured
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	log.Printf("email to=%s subject=%q", to, subject)
	return nil
}

// EmailService dispatches best-effort notifications. Sends run detached from
// the request and failures are only logged.
type EmailService struct {
	notifier Notifier
	baseURL  string
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewEmailService wraps a notifier; baseURL is used to build links
func NewEmailService(notifier Notifier, baseURL string) *EmailService {
	return &EmailService{notifier: notifier, baseURL: baseURL, timeout: 15 * time.Second}
}

// Dispatch sends an email in the background
func (es *EmailService) Dispatch(toEmail, subject, body string) {
	es.wg.Add(1)
	go func() {
		defer es.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), es.timeout)
		defer cancel()
		if err := es.notifier.Send(ctx, toEmail, subject, body); err != nil {
			log.Printf("Failed to send email to %s: %v", toEmail, err)
		}
	}()
}

// Wait blocks until every dispatched email has been attempted
func (es *EmailService) Wait() {
	es.wg.Wait()
}

// SendVerificationEmail sends an email verification link to the user
func (es *EmailService) SendVerificationEmail(toEmail, token string) {
	link := fmt.Sprintf("%s/api/auth/verify?token=%s", es.baseURL, token)
	body := fmt.Sprintf("Welcome to Campus Connect!\n\nPlease verify your email by opening this link:\n%s\n", link)
	es.Dispatch(toEmail, "Verify your Campus Connect email", body)
}

// SendMessageNotification tells the receiver about a new chat message
func (es *EmailService) SendMessageNotification(toEmail, senderName, content string) {
	body := fmt.Sprintf("You have a new message from %s: %s", senderName, content)
	es.Dispatch(toEmail, "New Message on Campus Connect", body)
}

// SendPurchaseNotification tells the seller that a listing was bought
func (es *EmailService) SendPurchaseNotification(toEmail, buyerName, title string, amount float64, pickupLocation string) {
	body := fmt.Sprintf(
		"Good news! %s bought \"%s\" for ₹%.2f.\n\nPickup location: %s\n\nConfirm the pickup from your transactions page.",
		buyerName, title, amount, pickupLocation,
	)
	es.Dispatch(toEmail, "Your item was sold on Campus Connect", body)
}

// SendStatusNotification tells the buyer the seller moved the transaction
func (es *EmailService) SendStatusNotification(toEmail, title, status string) {
	body := fmt.Sprintf("The seller updated your purchase of \"%s\" to '%s'.", title, status)
	es.Dispatch(toEmail, "Transaction update on Campus Connect", body)
}
