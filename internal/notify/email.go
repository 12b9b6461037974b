package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopfront/backend-shopfront/internal/common"
	"github.com/shopfront/backend-shopfront/internal/events"
	"github.com/shopfront/backend-shopfront/internal/pricing"
)

// EmailNotifier sends transactional emails for selected topics.
type EmailNotifier struct {
	Mail    common.EmailSender
	Enabled bool
	From    string
}

// Notify implements the events.Notifier interface. Events without a
// recipient are skipped silently.
func (n EmailNotifier) Notify(_ context.Context, event events.Event) error {
	if !n.Enabled || n.Mail == nil {
		return nil
	}
	if event.Topic != events.TopicOrderCreated {
		return nil
	}
	payload := map[string]any{}
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("email notify: decode payload: %w", err)
		}
	}
	to := extractRecipient(payload)
	if to == "" {
		return nil
	}
	number, _ := payload["number"].(string)
	subject := "Your order is confirmed"
	if number != "" {
		subject = fmt.Sprintf("Order %s confirmed", number)
	}
	return n.Mail.Send(to, subject, orderBody(number, payload))
}

func extractRecipient(payload map[string]any) string {
	for _, key := range []string{"email", "recipient", "userEmail", "customerEmail"} {
		if val, ok := payload[key]; ok {
			if s, ok := val.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func orderBody(number string, payload map[string]any) string {
	var b strings.Builder
	b.WriteString("<p>Thanks for your purchase!</p>")
	if number != "" {
		fmt.Fprintf(&b, "<p>Order number: <strong>%s</strong></p>", number)
	}
	if total, ok := payload["total"].(float64); ok {
		fmt.Fprintf(&b, "<p>Total: %s</p>", pricing.FormatUSD(pricing.Money(total)))
	}
	return b.String()
}
