package domain

import (
	"time"
)

// User представляет пользователя системы
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserFields — набор изменяемых полей пользователя.
// nil означает, что поле не передано.
type UserFields struct {
	Name     *string
	Email    *string
	Password *string
}

// Count возвращает количество переданных полей
func (f UserFields) Count() int {
	n := 0
	for _, v := range []*string{f.Name, f.Email, f.Password} {
		if v != nil {
			n++
		}
	}
	return n
}

// IsEmpty — ни одно поле не передано
func (f UserFields) IsEmpty() bool {
	return f.Count() == 0
}

// ApplyTo переносит переданные поля в user
func (f UserFields) ApplyTo(u *User) {
	if f.Name != nil {
		u.Name = *f.Name
	}
	if f.Email != nil {
		u.Email = *f.Email
	}
	if f.Password != nil {
		u.Password = *f.Password
	}
}

// Clone возвращает копию пользователя
func (u *User) Clone() *User {
	c := *u
	return &c
}
