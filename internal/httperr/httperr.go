package httperr

import (
	"errors"
	"net/http"
)

// Error is an error which knows the http status and payload id it should be reported with.
type Error struct {
	Err    error
	Status int
	ID     string
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return errors.Is(e.Err, target)
	}
	return t.Status == e.Status && t.ID == e.ID && errors.Is(t.Err, e.Err)
}

func New(err error, status int, id string) error {
	return &Error{
		Err:    err,
		Status: status,
		ID:     id,
	}
}

func BadRequest(err error) error {
	return New(err, http.StatusBadRequest, "badRequest")
}

func Unauthorized(err error) error {
	return New(err, http.StatusUnauthorized, "unauthorized")
}

func Forbidden(err error) error {
	return New(err, http.StatusForbidden, "forbidden")
}

func NotFound(err error) error {
	return New(err, http.StatusNotFound, "notFound")
}

func TooManyRequests(err error) error {
	return New(err, http.StatusTooManyRequests, "tooManyRequests")
}

func InternalServerError(err error) error {
	return New(err, http.StatusInternalServerError, "internal")
}

func NotImplemented(err error) error {
	return New(err, http.StatusNotImplemented, "notImplemented")
}

// Status returns the http status and payload id of err.
// Errors which are not an *Error are reported as internal server errors.
func Status(err error) (int, string) {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr.Status, httpErr.ID
	}
	return http.StatusInternalServerError, "internal"
}
