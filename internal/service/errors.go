package service

import "net/http"

// APIError is a client-facing failure carrying an HTTP status, a machine
// code, and optional per-field messages. Errors of any other type reach
// the handlers as server errors.
type APIError struct {
	Code        string
	Description string
	Status      int
	Fields      map[string]string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

func newAPIError(code, description string, status int) *APIError {
	return &APIError{Code: code, Description: description, Status: status}
}

func newValidationError(fields map[string]string) *APIError {
	return &APIError{
		Code:        "invalid_request",
		Description: "Validation failed.",
		Status:      http.StatusBadRequest,
		Fields:      fields,
	}
}

// errInvalidCredentials is shared by the unknown-number and wrong-password
// paths so responses do not reveal which one happened.
func errInvalidCredentials() *APIError {
	return newAPIError("invalid_credentials", "Invalid credentials", http.StatusBadRequest)
}

func errNotFound() *APIError {
	return newAPIError("not_found", "Not found.", http.StatusNotFound)
}
