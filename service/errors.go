package service

import (
	"errors"
	"net/http"

	"navid/server/constants"
)

// Machine-readable error codes. Clients branch on these, never on the HTTP
// status.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeNoUser             = "NO_USER"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidModel       = "INVALID_MODEL"
	CodeNotFound           = "NOT_FOUND"
	CodeMessageNotFound    = "MESSAGE_NOT_FOUND"
	CodeNoUserMessage      = "NO_USER_MESSAGE"
	CodeInvalidAttachment  = "INVALID_ATTACHMENT"
	CodeValidation         = "VALIDATION"
	CodeInternal           = "INTERNAL"
)

// Error is the single structured error every domain operation raises. The
// handler layer translates Status to the transport; everything else is for
// the client.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// WithDetails returns a copy of e carrying extra context for the client.
func (e *Error) WithDetails(details map[string]any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

func newError(code string, status int, message string) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

var (
	ErrInvalidCredentials = newError(CodeInvalidCredentials, http.StatusUnauthorized, constants.MsgInvalidCredentials)
	ErrEmailTaken         = newError(CodeEmailTaken, http.StatusConflict, constants.MsgEmailTaken)
	ErrInvalidToken       = newError(CodeInvalidToken, http.StatusBadRequest, constants.MsgInvalidResetToken)
	ErrNoUser             = newError(CodeNoUser, http.StatusBadRequest, constants.MsgNoUser)
	ErrUnauthorized       = newError(CodeUnauthorized, http.StatusUnauthorized, constants.MsgUnauthorized)
	ErrInvalidModel       = newError(CodeInvalidModel, http.StatusBadRequest, constants.MsgInvalidModel)
	ErrNotFound           = newError(CodeNotFound, http.StatusNotFound, constants.MsgNotFound)
	ErrMessageNotFound    = newError(CodeMessageNotFound, http.StatusNotFound, constants.MsgMessageNotFound)
	ErrNoUserMessage      = newError(CodeNoUserMessage, http.StatusBadRequest, constants.MsgNoUserMessage)
	ErrInvalidAttachment  = newError(CodeInvalidAttachment, http.StatusBadRequest, constants.MsgInvalidAttachment)
	ErrInternal           = newError(CodeInternal, http.StatusInternalServerError, constants.MsgInternal)
)

// Validation builds a field-level validation error.
func Validation(message string) *Error {
	return newError(CodeValidation, http.StatusBadRequest, message)
}

// AsError extracts the structured error from err. Unexpected failures
// collapse to ErrInternal so the client always gets a stable code.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal
}
