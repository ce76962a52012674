package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateNew проверяет поля нового пользователя: все три обязательны.
func ValidateNew(f UserFields) error {
	var verr ValidationError
	if f.Name == nil {
		verr.Fields = append(verr.Fields, FieldError{Field: "name", Message: "name is required"})
	}
	if f.Email == nil {
		verr.Fields = append(verr.Fields, FieldError{Field: "email", Message: "email is required"})
	}
	if f.Password == nil {
		verr.Fields = append(verr.Fields, FieldError{Field: "password", Message: "password is required"})
	}
	verr.Fields = append(verr.Fields, checkPresent(f)...)
	if len(verr.Fields) > 0 {
		return &verr
	}
	return nil
}

// ValidateChanges проверяет только переданные поля (как runValidators при update).
func ValidateChanges(f UserFields) error {
	if errs := checkPresent(f); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func checkPresent(f UserFields) []FieldError {
	var errs []FieldError
	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if f.Email != nil {
		switch {
		case strings.TrimSpace(*f.Email) == "":
			errs = append(errs, FieldError{Field: "email", Message: "email is required"})
		case !emailRegex.MatchString(*f.Email):
			errs = append(errs, FieldError{Field: "email", Message: "invalid email format"})
		}
	}
	if f.Password != nil && *f.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}
	return errs
}

// ParseID нормализует идентификатор пользователя
func ParseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidID, id, err)
	}
	return parsed.String(), nil
}

// NewID генерирует идентификатор для нового пользователя
func NewID() string {
	return uuid.NewString()
}
