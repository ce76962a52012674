package usecase

import (
	"fmt"

	"userservice/internal/user/application/ports/out"
	"userservice/internal/user/domain"
)

// hashPassword заменяет пароль на результат hasher, если пароль передан
func hashPassword(hasher out.PasswordHasher, fields domain.UserFields) (domain.UserFields, error) {
	if hasher == nil || fields.Password == nil {
		return fields, nil
	}
	hashed, err := hasher.Hash(*fields.Password)
	if err != nil {
		return fields, fmt.Errorf("hash password: %w", err)
	}
	fields.Password = &hashed
	return fields, nil
}
