package partnership

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends partner notifications.
type Mailer interface {
	// SendPartnerApproval sends the approved partner the credentials to log in.
	SendPartnerApproval(
		ctx context.Context, partner Principal, password string) error
}

// NewMailer creates SendGrid mailer, or a mailer which only logs if SendGrid
// is not configured.
func NewMailer(config *Config) Mailer {
	if config.SendGridAPIKey == "" {
		return logMailer{}
	}
	return &sendGridMailer{
		client: sendgrid.NewSendClient(config.SendGridAPIKey),
		from:   mail.NewEmail(config.EmailFromName, config.EmailFromAddress),
	}
}

////////////////////////////////////////////////////////////////////////////////

type sendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func (mailer *sendGridMailer) SendPartnerApproval(
	ctx context.Context, partner Principal, password string) error {
	subject, text, html := formatPartnerApproval(partner, password)
	message := mail.NewSingleEmail(mailer.from, subject,
		mail.NewEmail(partner.GetName(), partner.GetEmail()), text, html)
	response, err := mailer.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf(`failed to send email to partner %d: "%w"`,
			partner.GetID(), err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf(`email service rejected email to partner %d: %d "%s"`,
			partner.GetID(), response.StatusCode, response.Body)
	}
	return nil
}

func formatPartnerApproval(
	partner Principal, password string) (subject, text, html string) {
	subject = "Your partner application is approved"
	text = fmt.Sprintf(
		"Hello, %s!\n\nYour partner application is approved.\n"+
			"Login: %s\nPassword: %s\n",
		partner.GetName(), partner.GetEmail(), password)
	html = fmt.Sprintf(
		"<p>Hello, %s!</p><p>Your partner application is approved.</p>"+
			"<p>Login: <strong>%s</strong><br>Password: <strong>%s</strong></p>",
		partner.GetName(), partner.GetEmail(), password)
	return
}

////////////////////////////////////////////////////////////////////////////////

type logMailer struct{}

func (logMailer) SendPartnerApproval(
	_ context.Context, partner Principal, _ string) error {
	Log.Info(`Email service is not configured, approval email to partner %d skipped.`,
		partner.GetID())
	return nil
}
