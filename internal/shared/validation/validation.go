// Package validation carries caller-facing input errors from the domain
// layer to the HTTP layer, where they become 400 responses.
package validation

import "errors"

// Error is a message safe to show to the caller verbatim.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string) error {
	return &Error{Message: message}
}

// As reports whether err wraps a validation Error and returns it.
func As(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
