package model

import (
	"errors"
)

// ErrorKind 错误类别，展示层据此选择提示
type ErrorKind string

const (
	KindAuth       ErrorKind = "AuthError"
	KindNotFound   ErrorKind = "NotFoundError"
	KindValidation ErrorKind = "ValidationError"
)

// Error 带类别的业务错误
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func NewAuthError(msg string) error {
	return &Error{Kind: KindAuth, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewValidationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf 取出错误链中的类别，非业务错误返回空
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf 取出错误链中的业务消息
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
