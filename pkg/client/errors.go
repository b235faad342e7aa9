package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"

	"apod/pkg/consts"
)

// Kind classifies a failed APOD call.
type Kind int

const (
	KindUnknown Kind = iota
	KindRateLimited
	KindForbidden
	KindInvalidRequest
	KindTimeout
	KindServerUnavailable
	KindNetwork
	KindRequiresPersonalKey
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindRateLimited:         "rate_limited",
	KindForbidden:           "forbidden",
	KindInvalidRequest:      "invalid_request",
	KindTimeout:             "timeout",
	KindServerUnavailable:   "server_unavailable",
	KindNetwork:             "network_error",
	KindRequiresPersonalKey: "requires_personal_key",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText lets kinds travel as their names in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

var kindMessages = map[Kind]string{
	KindUnknown:             "Failed to fetch APOD data. Please try again later.",
	KindRateLimited:         "Too many requests. Please wait a moment and try again, or get your own NASA API key for unlimited access.",
	KindForbidden:           "Access to the NASA API was denied. Please check that the API key is valid.",
	KindInvalidRequest:      "The request was rejected by the NASA API. APOD dates range from " + consts.FirstDate + " to today.",
	KindTimeout:             "The NASA API took too long to respond. Please try again.",
	KindServerUnavailable:   "The NASA API is temporarily unavailable. Please try again later.",
	KindNetwork:             "Failed to fetch APOD data. Please check your internet connection.",
	KindRequiresPersonalKey: "This feature requires a personal NASA API key. Get yours free at " + consts.KeySignupURL,
}

// Error is returned by every Client operation.
// StatusCode is 0 when no response was received.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, status int, err error) *Error {
	return &Error{
		Kind:       kind,
		Message:    kindMessages[kind],
		StatusCode: status,
		Err:        err,
	}
}

// KindOf extracts the kind of err, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// UserMessage returns the text meant for display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return kindMessages[KindUnknown]
}

// statusError is a non-2xx answer from upstream.
type statusError struct {
	code   int
	detail string
}

func (e *statusError) Error() string {
	if e.detail != "" {
		return fmt.Sprintf("apod returned status %d: %s", e.code, e.detail)
	}
	return fmt.Sprintf("apod returned status %d", e.code)
}

func newStatusError(resp *http.Response) *statusError {
	se := &statusError{code: resp.StatusCode}

	// api.nasa.gov answers either {"code","msg"} or {"error":{"code","message"}}
	var body struct {
		Msg   string `json:"msg"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil || json.Unmarshal(raw, &body) != nil {
		return se
	}

	se.detail = body.Msg
	if se.detail == "" {
		se.detail = body.Error.Message
	}
	return se
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ECONNABORTED) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// classify turns the last attempt's failure into a typed error.
func classify(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.code == http.StatusTooManyRequests:
			return newError(KindRateLimited, se.code, err)
		case se.code == http.StatusForbidden:
			return newError(KindForbidden, se.code, err)
		case se.code == http.StatusBadRequest:
			return newError(KindInvalidRequest, se.code, err)
		case se.code >= http.StatusInternalServerError:
			return newError(KindServerUnavailable, se.code, err)
		default:
			return newError(KindUnknown, se.code, err)
		}
	}

	if isTimeout(err) {
		return newError(KindTimeout, 0, err)
	}

	var transport *transportError
	if errors.As(err, &transport) {
		return newError(KindNetwork, 0, err)
	}

	return newError(KindUnknown, 0, err)
}

// transportError marks failures where no response arrived.
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("execute request: %v", e.err)
}

func (e *transportError) Unwrap() error {
	return e.err
}
