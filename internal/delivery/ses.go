// Package delivery hands generated collections emails to AWS SES. Delivery
// is optional: content generation never depends on it, and a disabled sender
// turns Send into an error the API surfaces as a 503.
package delivery

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/ignite/payment-assist/internal/email"
)

// SESAPI is the slice of the SES v2 client the sender needs. *sesv2.Client
// satisfies it; tests substitute fakes.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SendResult reports a single delivery attempt.
type SendResult struct {
	MessageID string    `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
}

// SESSender sends rendered emails via AWS SES.
type SESSender struct {
	client SESAPI
	from   string
}

// NewSESSender wraps an SES v2 client with a configured from address.
func NewSESSender(client SESAPI, from string) *SESSender {
	return &SESSender{client: client, from: from}
}

// Enabled reports whether delivery is configured.
func (s *SESSender) Enabled() bool {
	return s != nil && s.client != nil && s.from != ""
}

// Send delivers one generated email to the recipient. Collections emails are
// plain text; SES receives Text content only.
func (s *SESSender) Send(ctx context.Context, to string, content email.EmailContent) (*SendResult, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("delivery not configured")
	}
	if to == "" {
		return nil, fmt.Errorf("no recipient address")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(content.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(content.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("ses send to %s: %w", to, err)
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}
	log.Printf("[SES] Sent collections email to %s (id: %s)", redactEmail(to), messageID)

	return &SendResult{MessageID: messageID, SentAt: time.Now()}, nil
}

// redactEmail masks the local part for logs.
func redactEmail(addr string) string {
	for i, r := range addr {
		if r == '@' {
			if i <= 2 {
				return "***" + addr[i:]
			}
			return addr[:2] + "***" + addr[i:]
		}
	}
	return "***"
}
