package common

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// Classified failures. Use errors.Is to test for these, since they
// usually arrive wrapped in an *Error or *HttpError.
var (
	ErrAmbiguousMatch  = errors.New("short name matches more than one item")
	ErrConfigMissing   = errors.New("configuration file not found")
	ErrForbidden       = errors.New("access to item forbidden")
	ErrNoLicenceModel  = errors.New("no standard licence model under product")
	ErrNoMatch         = errors.New("short name matches no item")
	ErrNotFound        = errors.New("item not found")
	ErrUnauthorized    = errors.New("access denied, check credentials")
	ErrUnknownHost     = errors.New("unknown host")
	ErrUnsupportedType = errors.New("unsupported item type")
)

type DetailedError interface {
	Detail() string
}

// Error is a custom error type that includes some additional fields
// to help us debug. See the Detail method.
type Error struct {
	Err     error
	File    string
	IsFatal bool
	Line    int
	Message string
}

func NewError(message string, err error, isFatal bool) *Error {
	_, file, line, _ := runtime.Caller(1)
	return &Error{
		Err:     err,
		File:    file,
		IsFatal: isFatal,
		Line:    line,
		Message: message,
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

// This returns a detailed error message.
func (e *Error) Detail() string {
	prefix := ""
	if e.IsFatal {
		prefix = "FATAL: "
	}
	underlyingError := ""
	if e.Err != nil {
		underlyingError = fmt.Sprintf("(Underlying error: %s)", e.Err.Error())
	}
	return fmt.Sprintf("%s%s [%s:%d] %s",
		prefix, e.Message, e.File, e.Line, underlyingError)
}

// HttpError captures details of a failed request to the Plone REST API.
type HttpError struct {
	Err        error
	Message    string
	Method     string
	StatusCode int
	URL        string
}

// NewHttpError returns an HttpError. If err is nil, the error is
// classified from the status code, so that errors.Is works against
// ErrUnauthorized, ErrForbidden and ErrNotFound. Only 401 means the
// token was rejected. A 403 concerns the single item.
func NewHttpError(message string, err error, method, url string, statusCode int) *HttpError {
	if err == nil {
		err = classifyStatus(statusCode)
	}
	return &HttpError{
		Err:        err,
		Message:    message,
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
	}
}

func classifyStatus(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

func (e *HttpError) Detail() string {
	underlyingError := ""
	if e.Err != nil {
		underlyingError = fmt.Sprintf("(Underlying error: %s)", e.Err.Error())
	}
	return fmt.Sprintf(
		"%s: %s returned status %d. Message: %s %s",
		e.Method, e.URL, e.StatusCode, e.Message, underlyingError)
}

// IsUnauthorized returns true if err, or any error it wraps, says the
// remote server rejected our credentials. Retrying other identifiers
// after this is pointless.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// Detail returns err.Detail() for errors that have one, and err.Error()
// for everything else.
func Detail(err error) string {
	var detailed DetailedError
	if errors.As(err, &detailed) {
		return detailed.Detail()
	}
	return err.Error()
}
