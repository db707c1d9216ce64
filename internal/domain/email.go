package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// TeamRegistrationEmailData holds data for the team confirmation email.
type TeamRegistrationEmailData struct {
	Email       string
	Name        string
	EventTitle  string
	TeamName    string
	TeamChestNo string
	ChestNo     string
	LeaderName  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendTeamRegistration(ctx context.Context, data *TeamRegistrationEmailData) error
}
