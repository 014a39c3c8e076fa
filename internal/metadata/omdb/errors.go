package omdb

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// ErrorName identifies OMDb errors in JSON payloads.
	ErrorName = "OMDbError"

	// NoResultsMessage is the server message for a search without matches.
	NoResultsMessage = "Movie not found!"
)

// ErrNotImplemented is returned by operations a client does not support.
// It is never an *Error.
var ErrNotImplemented = errors.New("not implemented")

// Error is a data error reported while searching: a server-side error
// message, a non-2xx status, an unparseable body or a transport failure.
type Error struct {
	message string
}

// NewError creates an Error with the given message.
func NewError(message string) *Error {
	return &Error{message: message}
}

// Errorf creates an Error with a formatted message.
func Errorf(format string, args ...any) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.message
}

// Name returns the error kind name.
func (e *Error) Name() string {
	return ErrorName
}

// MarshalJSON renders the error as {"error":true,"name":...,"message":...}.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error   bool   `json:"error"`
		Name    string `json:"name"`
		Message string `json:"message"`
	}{true, ErrorName, e.message})
}

// statusError formats an HTTP level failure as "E<status>: <text>".
func statusError(status int, text string) *Error {
	return Errorf("E%d: %s", status, text)
}
