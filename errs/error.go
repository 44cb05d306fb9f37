package errs

import (
	"errors"
	"fmt"
)

// Application error codes. Every error that leaves the crud layer carries one
// of these, so that the http layer can turn it into a distinct status code.
const (
	// EINVALIDID is returned when an identifier is malformed. It is raised
	// before any database lookup happens.
	EINVALIDID = "invalid_identifier"
	// EUNAUTHENTICATED is returned when a mutating operation is attempted
	// without an authenticated actor.
	EUNAUTHENTICATED = "unauthenticated"
	// EFORBIDDEN is returned when the actor is not the owner of the content
	// item it tries to change.
	EFORBIDDEN = "forbidden"
	// ENOTFOUND is returned when a referenced record does not exist.
	ENOTFOUND = "not_found"
	// EINVALID is returned when incoming data fails validation.
	EINVALID = "invalid"
	// EINTEGRITY is returned when stored data violates an invariant the app
	// relies on, e.g. content whose owner record is missing.
	EINTEGRITY = "integrity"
	// EUPLOADFAILED is returned when the asset storage rejects an upload.
	EUPLOADFAILED = "upload_failed"
	// EUNAVAILABLE is returned when the database fails to answer.
	EUNAVAILABLE = "store_unavailable"
	// EINTERNAL is returned for everything else.
	EINTERNAL = "internal"
)

// Error represents an application-specific error. Code is one of the codes
// above, Message is safe to show to the client, Err is the underlying cause
// (if any) and is only logged.
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap returns an Error with the given code and message that keeps err as its cause.
func Wrap(err error, code string, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Is reports whether err is an application error with the given code.
func Is(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}
