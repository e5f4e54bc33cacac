package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a business error so the HTTP layer can pick a status
// without knowing every code.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindInvalidArgument Kind = "invalid_argument"
	KindConflict        Kind = "conflict"
	KindUpstreamFailure Kind = "upstream_failure"
	KindUnconfigured    Kind = "unconfigured"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// ErrBusiness keeps the original code-only constructor; the kind defaults
// to InvalidArgument.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindInvalidArgument, Code: code}
}

func New(kind Kind, code, format string, args ...any) error {
	return BusinessError{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(code, format string, args ...any) error {
	return New(KindNotFound, code, format, args...)
}

func InvalidArgumentf(code, format string, args ...any) error {
	return New(KindInvalidArgument, code, format, args...)
}

func Conflictf(code, format string, args ...any) error {
	return New(KindConflict, code, format, args...)
}

func UpstreamFailuref(code, format string, args ...any) error {
	return New(KindUpstreamFailure, code, format, args...)
}

func Unconfiguredf(code, format string, args ...any) error {
	return New(KindUnconfigured, code, format, args...)
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}
