package domain

import (
	"errors"
	"strings"
)

var (
	// ErrUserNotFound пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken пользователь с таким email уже существует
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrInvalidID идентификатор не является UUID
	ErrInvalidID = errors.New("invalid user id")

	// ErrIncompleteReplace PUT без полного набора полей
	ErrIncompleteReplace = errors.New("replace requires name, email and password")

	// ErrTooManyFields PUT с лишними полями
	ErrTooManyFields = errors.New("replace accepts only name, email and password")

	// ErrNoUpdateFields PATCH без допустимых полей
	ErrNoUpdateFields = errors.New("no updatable fields provided")
)

// FieldError описывает нарушение схемы для одного поля
type FieldError struct {
	Field   string
	Message string
}

// ValidationError — ошибка схемы пользователя
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "user validation failed: " + strings.Join(parts, ", ")
}

// Has проверяет, есть ли нарушение для поля
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
