package core

import (
	"net/http"

	"github.com/pkg/errors"
)

// DefaultRequestErrorMessage is used when the server did not explain a failed request.
const DefaultRequestErrorMessage = "Request failed"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned when a form fails validation; nothing is sent to the server.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) > 0 {
		return err.Fields[0].Field + ": " + err.Fields[0].Error
	}
	return ""
}

// Field returns the message reported for the given field, if any.
func (err ValidationError) Field(name string) (string, bool) {
	for _, fld := range err.Fields {
		if fld.Field == name {
			return fld.Error, true
		}
	}
	return "", false
}

// RequestError is the single failure kind of the API client.
// Status is 0 when the request never got a response.
type RequestError struct {
	Status  int
	Message string
}

func NewRequestError(status int, msg string) error {
	if msg == "" {
		msg = DefaultRequestErrorMessage
	}
	return &RequestError{Status: status, Message: msg}
}

func (err RequestError) Error() string {
	return err.Message
}

// IsUnauthorized reports whether err is a RequestError with a 401 status.
func IsUnauthorized(err error) bool {
	rErr, ok := errors.Cause(err).(*RequestError)
	return ok && rErr.Status == http.StatusUnauthorized
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}
