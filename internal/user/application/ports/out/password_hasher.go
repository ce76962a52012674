package out

// PasswordHasher преобразует пароль перед сохранением
type PasswordHasher interface {
	Hash(password string) (string, error)
}
