package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation ErrKind = "validation" // 400
	KindAuth       ErrKind = "auth"       // 401
	KindForbidden  ErrKind = "forbidden"  // 403
	KindNotFound   ErrKind = "not_found"  // 404
	KindConflict   ErrKind = "conflict"   // 409
	KindInternal   ErrKind = "internal"   // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe, human-readable summary for clients
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging only
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

// Is reports whether err is a domain error carrying code.
func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// KindOf returns the kind of a domain error, or KindInternal for anything else.
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "Invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", field+" is required"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", field+" "+reason), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

// ErrValidation carries an already formatted, human-readable summary.
func ErrValidation(msg string) *Error {
	return New(KindValidation, "validation_failed", msg)
}

// ----------------------
// Auth errors (401)
// ----------------------

// IMPORTANT: use this for every login failure to avoid user enumeration.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "Invalid email or password")
}

// No Authorization header, or one that is not a Bearer credential.
func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "Access token required")
}

// ----------------------
// Forbidden (403)
// ----------------------

// A bearer token was presented but did not verify (bad signature, malformed, expired).
func ErrTokenInvalid() *Error {
	return New(KindForbidden, "token_invalid", "Invalid or expired token")
}

func ErrTokenInvalidCause(cause error) *Error {
	return Wrap(KindForbidden, "token_invalid", "Invalid or expired token", cause)
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "User not found")
}

func ErrItemNotFound() *Error {
	return New(KindNotFound, "item_not_found", "Item not found")
}

func ErrRouteNotFound() *Error {
	return New(KindNotFound, "route_not_found", "Not found")
}

// ----------------------
// Conflict (409)
// ----------------------

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "User with this email already exists")
}

// ----------------------
// Internal (500)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInternal, "db_unavailable", "Internal server error", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "Internal server error", cause)
}

// AsHashFailed passes a domain error through and wraps anything else.
func AsHashFailed(err error) error {
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return ErrHashFailed(err)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "Internal server error", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "Internal server error", cause)
}
