package services

import (
	"context"
	"fmt"
	"log/slog"

	"festreg/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendTeamRegistration sends the "team_registration" confirmation to one team member.
func (s *emailService) SendTeamRegistration(ctx context.Context, data *domain.TeamRegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("team registration data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("team_registration", data)
	if err != nil {
		return fmt.Errorf("failed to render team_registration template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send team registration email: %w", err)
	}
	s.logger.DebugContext(ctx, "team registration email sent", "to", data.Email, "team_chest_no", data.TeamChestNo)
	return nil
}
