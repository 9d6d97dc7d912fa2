// Package mail renders and delivers the notifications produced by the
// identity lifecycle: verification links, welcome messages, and password
// reset links. Delivery is best-effort; callers treat failures as
// out-of-band and never fail the triggering operation.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
)

// Template identifies one of the rendered notification kinds.
type Template string

const (
	TemplateVerification  Template = "verification"
	TemplateWelcome       Template = "welcome"
	TemplatePasswordReset Template = "password-reset"
)

// Notifier delivers a rendered message to an address. Implementations are
// fire-and-forget from the caller's perspective.
type Notifier interface {
	Notify(ctx context.Context, tmpl Template, recipient string, data map[string]string) error
}

// Message is a rendered notification.
type Message struct {
	Subject string
	Body    string
}

const siteName = "Airbnb Clone"

var templates = map[Template]*template.Template{
	TemplateVerification: template.Must(template.New("verification").Parse(
		`Hi {{.FirstName}},

Thanks for signing up for ` + siteName + `. Please confirm your email address
by following the link below:

{{.VerificationURL}}

The link expires after a short while. If you did not create an account, you
can ignore this message.
`)),
	TemplateWelcome: template.Must(template.New("welcome").Parse(
		`Hi {{.FirstName}},

Your email address has been verified. Welcome to ` + siteName + `!

You can now book stays or list your own property.
`)),
	TemplatePasswordReset: template.Must(template.New("password-reset").Parse(
		`Hi {{.FirstName}},

We received a request to reset the password for your ` + siteName + ` account.
Follow the link below to choose a new password:

{{.ResetURL}}

If you did not request a reset, no action is needed; the link expires on its
own.
`)),
}

var subjects = map[Template]string{
	TemplateVerification:  "Verify your email address",
	TemplateWelcome:       "Welcome to " + siteName + "!",
	TemplatePasswordReset: "Password Reset Request",
}

// Render produces the subject and body for the given template and context.
func Render(tmpl Template, data map[string]string) (Message, error) {
	t, ok := templates[tmpl]
	if !ok {
		return Message{}, fmt.Errorf("unknown template: %s", tmpl)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("rendering template %s: %w", tmpl, err)
	}

	return Message{Subject: subjects[tmpl], Body: body.String()}, nil
}
