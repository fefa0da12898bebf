package apperr

import "errors"

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindBadRequest
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// BadRequest reports invalid caller input.
func BadRequest(msg string) *Error { return &Error{Kind: KindBadRequest, Message: msg} }

// Forbidden reports a role or ownership mismatch.
func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

// NotFound reports a missing entity.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// Conflict reports a uniqueness violation.
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// KindOf returns the classification of err, or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
