// Package notifier delivers transactional emails. Delivery is best-effort:
// every caller in the membership workflow absorbs send errors into a
// degraded success message instead of failing the operation.
package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"
)

// Sender sends a templated notification to a single recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, template string, data map[string]interface{}) error
}

// SMTPSender delivers mail through a plain SMTP relay.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPSender creates a sender for the given relay. Auth is skipped when
// no username is configured (local relays).
func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr: host + ":" + port,
		auth: auth,
		from: from,
	}
}

// Send renders the template data as a plain-text body and delivers it.
func (s *SMTPSender) Send(ctx context.Context, to, subject, template string, data map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", s.from)
	fmt.Fprintf(&body, "To: %s\r\n", to)
	fmt.Fprintf(&body, "Subject: %s\r\n", subject)
	fmt.Fprintf(&body, "X-Template: %s\r\n", template)
	body.WriteString("\r\n")

	// Stable ordering so messages are reproducible.
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&body, "%s: %v\r\n", k, data[k])
	}

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(body.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
