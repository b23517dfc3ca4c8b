package client

import (
	"errors"
	"fmt"
	"strings"

	"curriculum-cli/internal/i18n"
)

// Kind classifies a failed request.
type Kind int

const (
	KindUnknown Kind = iota
	// KindUnauthorized: no token, expired token, or HTTP 401/403.
	KindUnauthorized
	// KindNetworkUnavailable: the request never produced a response.
	KindNetworkUnavailable
	// KindMalformedPayload: a 2xx response we could not interpret.
	KindMalformedPayload
	// KindRejected: any other non-2xx status.
	KindRejected
)

// Sentinels for errors.Is.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrMalformedPayload   = errors.New("malformed payload")
	ErrRejected           = errors.New("rejected")
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNetworkUnavailable:
		return "network_unavailable"
	case KindMalformedPayload:
		return "malformed_payload"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindUnauthorized:
		return ErrUnauthorized
	case KindNetworkUnavailable:
		return ErrNetworkUnavailable
	case KindMalformedPayload:
		return ErrMalformedPayload
	case KindRejected:
		return ErrRejected
	default:
		return nil
	}
}

// Error is returned by every Client method that reached classification.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	parts := []string{e.Op, e.Kind.String()}
	if e.Status != 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.Status))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf extracts the Kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// UserMessage is the text shown to the student in place of a response.
// Unclassified errors get the generic message.
func UserMessage(err error, lang i18n.Language) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case KindUnauthorized:
		return i18n.Text(lang, i18n.MsgUnauthorized)
	case KindNetworkUnavailable:
		return i18n.Text(lang, i18n.MsgNetworkUnavailable)
	case KindMalformedPayload:
		return i18n.Text(lang, i18n.MsgMalformedPayload)
	case KindRejected:
		return i18n.Text(lang, i18n.MsgRejected)
	default:
		return i18n.Text(lang, i18n.MsgGenericError)
	}
}

func malformed(op, format string, args ...any) *Error {
	return &Error{Kind: KindMalformedPayload, Op: op, Err: fmt.Errorf(format, args...)}
}
