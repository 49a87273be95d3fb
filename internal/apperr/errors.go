package apperr

import (
	"errors"
	"fmt"
)

// Kind категория ошибки
type Kind string

const (
	KindValidation     Kind = "VALIDATION"
	KindNetwork        Kind = "NETWORK"
	KindServer         Kind = "SERVER"
	KindMalformed      Kind = "MALFORMED_RESPONSE"
	KindAuthentication Kind = "AUTHENTICATION_REQUIRED"
)

// Error ошибка приложения с категорией, кодом и контекстом
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Err     error  `json:"-"`
}

// Error реализует интерфейс error
func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Code != "" {
		prefix += "/" + e.Code
	}
	if e.Status != 0 {
		prefix = fmt.Sprintf("%s (%d)", prefix, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap позволяет использовать errors.Is и errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает с предопределёнными ошибками по Kind и Code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Code == "" {
		return false
	}
	return t.Kind == e.Kind && t.Code == e.Code
}

// WithError добавляет underlying ошибку
func (e *Error) WithError(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Status: e.Status, Err: err}
}

// WithMessage заменяет сообщение, сохраняя код
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Status: e.Status, Err: e.Err}
}

// Предопределенные ошибки
var (
	ErrAuthRequired = &Error{
		Kind:    KindAuthentication,
		Code:    "SESSION_REQUIRED",
		Message: "no active session",
	}

	// Ошибки слотов
	ErrSlotConflict = &Error{
		Kind:    KindValidation,
		Code:    "SLOT_CONFLICT",
		Message: "this time overlaps with a scheduled lesson",
	}

	ErrSlotExists = &Error{
		Kind:    KindValidation,
		Code:    "SLOT_EXISTS",
		Message: "this time is already marked as available",
	}

	ErrSlotPending = &Error{
		Kind:    KindValidation,
		Code:    "SLOT_PENDING",
		Message: "this time is still being saved, try again in a moment",
	}

	ErrSlotInPast = &Error{
		Kind:    KindValidation,
		Code:    "SLOT_IN_PAST",
		Message: "cannot mark a time in the past",
	}

	ErrSlotBooked = &Error{
		Kind:    KindValidation,
		Code:    "SLOT_BOOKED",
		Message: "this time is taken by a lesson",
	}

	ErrInvalidTime = &Error{
		Kind:    KindValidation,
		Code:    "INVALID_TIME",
		Message: "invalid time, expected HH:mm",
	}

	ErrInvalidDate = &Error{
		Kind:    KindValidation,
		Code:    "INVALID_DATE",
		Message: "invalid date, expected YYYY-MM-DD",
	}

	// Ошибки оценок
	ErrIncompleteForm = &Error{
		Kind:    KindValidation,
		Code:    "INCOMPLETE_FORM",
		Message: "the form is incomplete",
	}

	ErrEditWindowClosed = &Error{
		Kind:    KindValidation,
		Code:    "EDIT_WINDOW_CLOSED",
		Message: "evaluations can only be edited within 3 days of submission",
	}

	ErrNoReceipt = &Error{
		Kind:    KindValidation,
		Code:    "NO_RECEIPT",
		Message: "no submitted evaluation found for this lesson",
	}

	ErrLessonNotFound = &Error{
		Kind:    KindValidation,
		Code:    "LESSON_NOT_FOUND",
		Message: "lesson not found",
	}

	ErrInvalidCredentials = &Error{
		Kind:    KindValidation,
		Code:    "INVALID_CREDENTIALS",
		Message: "email and password are required",
	}
)

// Validation создает ошибку валидации
func Validation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Network оборачивает ошибку транспорта
func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "backend is unreachable", Err: err}
}

// Server ошибка, возвращённая бэкендом
func Server(status int, message string) *Error {
	if message == "" {
		message = "request failed"
	}
	return &Error{Kind: KindServer, Message: message, Status: status}
}

// Malformed ответ бэкенда не соответствует ожидаемой схеме
func Malformed(format string, args ...any) *Error {
	return &Error{Kind: KindMalformed, Message: fmt.Sprintf(format, args...)}
}

// KindOf возвращает категорию ошибки или пустую строку
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind проверяет категорию ошибки
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage возвращает текст для показа пользователю
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		return "❌ Something went wrong. Please try again."
	}

	switch appErr.Kind {
	case KindValidation:
		return "⚠️ " + capitalize(appErr.Message)
	case KindNetwork:
		return "📡 Could not reach the server. Check your connection and try again."
	case KindServer:
		return "❌ " + capitalize(appErr.Message)
	case KindMalformed:
		return "❌ The server sent an unexpected response. Please try again later."
	case KindAuthentication:
		return "🔒 Please log in first: /login"
	default:
		return "❌ Something went wrong. Please try again."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
