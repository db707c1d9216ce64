package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"festreg/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeInternalError = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// Registration failures are the exception: Data carries the RegistrationResult.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// RegistrationResult is the outcome of a registration workflow.
// swagger:model RegistrationResult
type RegistrationResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Team    *domain.Team `json:"team,omitempty"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// StatusForError maps a service error onto an HTTP status and error code.
func StatusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrQuotaExceeded),
		errors.Is(err, domain.ErrRegistrationClosed):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, domain.ErrTransactionConflict):
		return http.StatusConflict, ErrCodeConflict
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// WriteRegistrationFailure renders a failed registration workflow as
// {success: false, message} with the status that matches err.
func WriteRegistrationFailure(w http.ResponseWriter, err error) {
	status, code := StatusForError(err)
	message := domain.UserMessage(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  RegistrationResult{Success: false, Message: message},
		Error: &APIError{Code: code, Message: message},
	})
}
