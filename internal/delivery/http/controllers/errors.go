package controllers

import (
	"log/slog"
	"net/http"

	"festreg/internal/delivery/http/helpers"
)

// writeFailure renders a registration failure, logging it when it is a server error.
func writeFailure(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if status, _ := helpers.StatusForError(err); status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	helpers.WriteRegistrationFailure(w, err)
}
