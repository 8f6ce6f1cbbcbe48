package fserr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound              Kind = "NotFoundError"
	KindTypeMismatch          Kind = "TypeMismatchError"
	KindPathExists            Kind = "PathExistsError"
	KindInvalidModification   Kind = "InvalidModificationError"
	KindNoModificationAllowed Kind = "NoModificationAllowedError"
	KindInvalidState          Kind = "InvalidStateError"
	KindNotSupported          Kind = "NotSupportedError"
)

// Error is the only error type returned by entry operations. Network marks a
// NotFound produced because no response could be obtained at all.
type Error struct {
	Kind    Kind
	Message string
	Network bool
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s, err:%v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NewNetwork(url string, err error) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("NetworkError when attempting to fetch <%s>", url),
		Network: true,
		Err:     err,
	}
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func IsNetwork(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Network
}
