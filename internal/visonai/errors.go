package visonai

import (
	"errors"
	"net/http"
)

// Error codes returned to API callers. Callers branch on these, never on
// the message text.
const (
	CodeMissingToken       = "missing_token"
	CodeUnauthorized       = "unauthorized"
	CodeMissingDomain      = "missing_domain"
	CodeForbidden          = "forbidden"
	CodeMissingFields      = "missing_fields"
	CodeInvalidUser        = "invalid_user"
	CodePostCreationFailed = "post_creation_failed"
	CodePostNotFound       = "post_not_found"
	CodePostUpdateFailed   = "post_update_failed"
	CodePostDeletionFailed = "post_deletion_failed"
	CodeNoUsers            = "no_users"
	CodeNoRoute            = "rest_no_route"
)

// ErrNotFound is returned by stores when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// APIError is a structured failure returned by the API.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// newAPIError keeps the error table below readable.
func newAPIError(code, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, Status: status}
}

// Operation failures of the content and user routes.
var (
	ErrMissingFields      = newAPIError(CodeMissingFields, "Title and Content are required.", http.StatusBadRequest)
	ErrInvalidUser        = newAPIError(CodeInvalidUser, "The specified user does not exist.", http.StatusBadRequest)
	ErrPostCreationFailed = newAPIError(CodePostCreationFailed, "Failed to create post", http.StatusInternalServerError)
	ErrPostNotFound       = newAPIError(CodePostNotFound, "Post not found", http.StatusNotFound)
	ErrPostUpdateFailed   = newAPIError(CodePostUpdateFailed, "Failed to update post", http.StatusInternalServerError)
	ErrPostDeletionFailed = newAPIError(CodePostDeletionFailed, "Failed to delete post", http.StatusInternalServerError)
	ErrNoUsers            = newAPIError(CodeNoUsers, "No users found.", http.StatusNotFound)
	ErrNoRoute            = newAPIError(CodeNoRoute, "No route was found matching the URL and request method.",
		http.StatusNotFound)
)
