package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/thecollekta/airbnb-clone-project/internal/logging"
)

// sendMail is a seam for testing smtp.SendMail.
var sendMail = smtp.SendMail

// SMTPNotifier delivers rendered messages through a plain SMTP relay.
type SMTPNotifier struct {
	addr   string
	from   string
	logger logging.Logger
}

func NewSMTPNotifier(addr, from string, logger logging.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		addr:   addr,
		from:   from,
		logger: logger.With("module", "mail"),
	}
}

// Notify renders the template and hands the message to the relay. The error
// return is informational; callers dispatch asynchronously and only log it.
func (n *SMTPNotifier) Notify(ctx context.Context, tmpl Template, recipient string, data map[string]string) error {
	msg, err := Render(tmpl, data)
	if err != nil {
		return err
	}

	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		n.from, recipient, msg.Subject, msg.Body)

	if err := sendMail(n.addr, nil, n.from, []string{recipient}, []byte(payload)); err != nil {
		return fmt.Errorf("sending %s mail: %w", tmpl, err)
	}

	n.logger.Info(ctx, "notification delivered", "template", string(tmpl))
	return nil
}
