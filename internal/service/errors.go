package service

import (
	"errors"
	"fmt"
)

// Kinds of failure a caller can act on. Handlers map them to HTTP statuses.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrDuplicate       = errors.New("duplicate")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrPremiumRequired = errors.New("premium required")
	ErrLocked          = errors.New("locked")
)

// Error carries a message fit to show the user alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

const (
	msgPremiumOnly = "この機能はプレミアム会員限定です。"
	msgPostMissing = "投稿が見つかりません。"
	msgUserMissing = "ユーザーが見つかりません。"
)
