package domain

import "errors"

// Kind classifies a domain error so boundaries can map it without
// inspecting concrete types.
type Kind string

const (
	KindInvalidMoney  Kind = "INVALID_MONEY"
	KindInvalidState  Kind = "INVALID_ORDER_STATE"
	KindCannotCancel  Kind = "ORDER_CANNOT_BE_CANCELLED"
	KindAlreadyPaid   Kind = "ORDER_ALREADY_PAID"
	KindValidation    Kind = "VALIDATION"
	KindLimitExceeded Kind = "LIMIT_EXCEEDED"
)

// Error is the single domain error type: a tagged variant carrying a
// stable code and structured context instead of an error class per rule.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Context map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(kind Kind, code, message string) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// With attaches a context field and returns the same error for chaining.
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// AsError extracts the domain error from an error chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

func IsInvalidMoney(err error) bool  { return IsKind(err, KindInvalidMoney) }
func IsInvalidState(err error) bool  { return IsKind(err, KindInvalidState) }
func IsCannotCancel(err error) bool  { return IsKind(err, KindCannotCancel) }
func IsAlreadyPaid(err error) bool   { return IsKind(err, KindAlreadyPaid) }
func IsValidation(err error) bool    { return IsKind(err, KindValidation) }
func IsLimitExceeded(err error) bool { return IsKind(err, KindLimitExceeded) }
