package usecase

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation_error" // 400
	KindUnauthorized ErrorKind = "unauthorized"     // 401
	KindForbidden    ErrorKind = "forbidden"        // 403
	KindNotFound     ErrorKind = "not_found"        // 404（他チームのものも含む）
	KindInvalidState ErrorKind = "invalid_state"    // 409
	KindStorage      ErrorKind = "internal"         // 500
)

// AppError はusecaseが返すエラーの共通形。
// handlerでKindをHTTPステータスに変換する。
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) error {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewUnauthorizedError(message string) error {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NewForbiddenError(message string) error {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NewNotFoundError(message string) error {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewInvalidStateError(message string) error {
	return &AppError{Kind: KindInvalidState, Message: message}
}

// 詳細はErrに残し、利用者には汎用メッセージだけ返す
func NewStorageError(err error) error {
	return &AppError{Kind: KindStorage, Message: "internal error", Err: err}
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

func IsKind(err error, kind ErrorKind) bool {
	ae, ok := AsAppError(err)
	return ok && ae.Kind == kind
}
