package hafas

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Sentinels for errors.Is.
var (
	ErrValidation   = errors.New("hafas: invalid input")
	ErrConstruction = errors.New("hafas: invalid profile")

	ErrNotFound       = errors.New("hafas: not found")
	ErrInvalidRequest = errors.New("hafas: invalid request")
	ErrUnauthorized   = errors.New("hafas: unauthorized")
	ErrQuota          = errors.New("hafas: quota exceeded")
	ErrServer         = errors.New("hafas: server error")
)

// ValidationError reports malformed caller input. It is raised before any
// network call.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	if e.Field == "" {
		return "hafas: invalid input: " + e.Err.Error()
	}
	return "hafas: invalid " + e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

func validationErrorf(field, format string, args ...any) error {
	return validationError(field, fmt.Errorf(format, args...))
}

// MissingCapabilitiesError lists the required profile keys absent after composition.
type MissingCapabilitiesError struct {
	Missing []string
}

func (e *MissingCapabilitiesError) Error() string {
	return "hafas: profile is missing required capabilities: " + strings.Join(e.Missing, ", ")
}

func (e *MissingCapabilitiesError) Is(target error) bool {
	return target == ErrConstruction
}

// Category classifies operator error codes.
type Category string

const (
	CategoryNotFound       Category = "not_found"
	CategoryInvalidRequest Category = "invalid_request"
	CategoryUnauthorized   Category = "unauthorized"
	CategoryQuota          Category = "quota"
	CategoryServer         Category = "server"
)

func (c Category) sentinel() error {
	switch c {
	case CategoryNotFound:
		return ErrNotFound
	case CategoryInvalidRequest:
		return ErrInvalidRequest
	case CategoryUnauthorized:
		return ErrUnauthorized
	case CategoryQuota:
		return ErrQuota
	case CategoryServer:
		return ErrServer
	default:
		return nil
	}
}

// ErrorInfo is one entry of an operator error-code table.
type ErrorInfo struct {
	Name     string   `yaml:"name" json:"name" validate:"required"`
	Category Category `yaml:"category" json:"category" validate:"oneof=not_found invalid_request unauthorized quota server"`
	// IsServer marks errors caused by the operator rather than by the request.
	IsServer bool   `yaml:"is_server" json:"isServer"`
	Message  string `yaml:"message" json:"message,omitempty"`
}

// ErrorKind tells transport failures from HTTP error replies.
type ErrorKind int

const (
	KindHTTP ErrorKind = iota
	KindTransport
)

// RequestInfo is the request configuration attached to errors for diagnosis.
type RequestInfo struct {
	Method string
	Header http.Header
}

// Error is returned when a call fails at the transport or HTTP level.
type Error struct {
	Kind ErrorKind

	// Code is the operator's error code (e.g. "H890"), empty when the reply carried none.
	Code string
	// Name, Category and IsServer come from the error-code table; empty for unknown codes.
	Name     string
	Category Category
	IsServer bool
	// Message is the operator's message, or the text body of non-JSON replies.
	Message string

	StatusCode int
	Endpoint   string
	URL        string
	Query      url.Values
	Request    RequestInfo

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("hafas: ")
	if e.Kind == KindTransport {
		b.WriteString("request failed")
		if e.URL != "" {
			b.WriteString(" url=" + e.URL)
		}
		if e.Err != nil {
			b.WriteString(": " + e.Err.Error())
		}
		return b.String()
	}
	if e.Code != "" {
		b.WriteString(e.Code)
		if e.Name != "" {
			b.WriteString(" " + e.Name)
		}
	} else {
		b.WriteString("request failed")
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		b.WriteString(": " + msg)
	}
	fmt.Fprintf(&b, " (status=%d)", e.StatusCode)
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the category sentinels, and ErrServer for unknown 5xx replies.
func (e *Error) Is(target error) bool {
	if s := e.Category.sentinel(); s != nil && s == target {
		return true
	}
	if e.Category == "" && e.Kind == KindHTTP && e.StatusCode >= 500 && target == ErrServer {
		return true
	}
	return false
}

// HafasErrorCode returns the operator code carried by err, if any.
func HafasErrorCode(err error) (string, bool) {
	var he *Error
	if errors.As(err, &he) && he.Code != "" {
		return he.Code, true
	}
	return "", false
}
