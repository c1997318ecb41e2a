package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Business error codes surfaced verbatim to the frontend. They are part of
// the wire contract: clients switch on the code, not the message.
const (
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeExpired          = "CODE_EXPIRED"
	CodeInvalid          = "INVALID_CODE"
	CodeInvalidChallenge = "INVALID_CHALLENGE"
)

// FlowError is an expected business failure in an authentication flow.
// It travels as a value and is rendered as a success:false envelope,
// never as a 5xx.
type FlowError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *FlowError) Error() string { return e.Code + ": " + e.Message }

func NewFlowError(code, message string) *FlowError {
	return &FlowError{Code: code, Message: message}
}

// AsFlowError unwraps err into a *FlowError when it is one.
func AsFlowError(err error) (*FlowError, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
