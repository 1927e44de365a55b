package core

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrEmptyDoctorID  = errors.New("doctor id cannot be empty")
	ErrEmptyAddressID = errors.New("address id cannot be empty")
	ErrInvalidWeeks   = errors.New("weeks must be positive")
	ErrEmptyToken     = errors.New("access token cannot be empty")
)

// ParseErrorKind identifies which expectation about the profile page failed
type ParseErrorKind int

const (
	KindCredentialsNotFound ParseErrorKind = iota + 1
	KindDoctorNotFound
	KindCalendarNotFound
	KindActiveCalendarNotFound
	KindMalformedCredentials
	KindMalformedCalendars
)

func (k ParseErrorKind) String() string {
	switch k {
	case KindCredentialsNotFound:
		return "credentials not found"
	case KindDoctorNotFound:
		return "doctor not found"
	case KindCalendarNotFound:
		return "calendar not found"
	case KindActiveCalendarNotFound:
		return "active calendar not found"
	case KindMalformedCredentials:
		return "malformed credentials"
	case KindMalformedCalendars:
		return "malformed calendars"
	default:
		return "unknown parse error"
	}
}

// ParseError reports a profile page that does not have the expected shape
type ParseError struct {
	Kind   ParseErrorKind
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches any ParseError of the same kind, so the sentinels below work with errors.Is
func (e *ParseError) Is(target error) bool {
	var pe *ParseError
	if !errors.As(target, &pe) {
		return false
	}
	return pe.Kind == e.Kind
}

// Sentinels for errors.Is checks
var (
	ErrCredentialsNotFound    = &ParseError{Kind: KindCredentialsNotFound}
	ErrDoctorNotFound         = &ParseError{Kind: KindDoctorNotFound}
	ErrCalendarNotFound       = &ParseError{Kind: KindCalendarNotFound}
	ErrActiveCalendarNotFound = &ParseError{Kind: KindActiveCalendarNotFound}
	ErrMalformedCredentials   = &ParseError{Kind: KindMalformedCredentials}
	ErrMalformedCalendars     = &ParseError{Kind: KindMalformedCalendars}
)

// NewParseError builds a ParseError with a formatted detail
func NewParseError(kind ParseErrorKind, err error, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
