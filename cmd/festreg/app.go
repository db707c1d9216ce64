package main

import (
	"log/slog"
	"net/http"

	"festreg/config"
	"festreg/internal/adapters/auth"
	"festreg/internal/adapters/email"
	"festreg/internal/catalog"
	deliveryhttp "festreg/internal/delivery/http"
	"festreg/internal/delivery/http/controllers"
	"festreg/internal/delivery/http/middleware"
	"festreg/internal/domain"
	"festreg/internal/rules"
	"festreg/internal/services"
)

// newHandler wires services and controllers over store and returns the full middleware chain.
func newHandler(cfg *config.Config, store domain.DocumentStore, logger *slog.Logger) (http.Handler, error) {
	events, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return nil, err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	emailService := services.NewEmailService(mailer, renderer, logger)

	settings := services.NewEventSettingsService(store, cfg.SettingsCacheTTL)
	validator := rules.NewValidator(events)
	registrations := services.NewRegistrationService(store, events, validator, settings, emailService, logger, cfg.RequestTimeout)
	query := services.NewRegistrationQueryService(store, logger, cfg.RequestTimeout)
	reports := services.NewReportService(store, events, settings, cfg.RequestTimeout)

	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Events:        controllers.NewEventController(logger, events, settings),
		Registrations: controllers.NewRegistrationController(logger, registrations, query, validator),
		Teams:         controllers.NewTeamController(logger, registrations),
		Admin:         controllers.NewAdminController(logger, reports, settings, events),
	}, auth.NewJWTVerifier(cfg.JWTSecret), logger)

	return middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux)), nil
}
