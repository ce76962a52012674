package hasher

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher хэширует пароль через bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher создает hasher; cost вне допустимого диапазона заменяется на bcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// PlainHasher сохраняет пароль как есть
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) {
	return password, nil
}
