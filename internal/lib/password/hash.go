// Package password хеширует пароли сотрудников и сверяет их при входе.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost стоимость bcrypt для паролей сотрудников.
const Cost = 10

// GetHash возвращает bcrypt-хэш пароля для хранения в базе.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сверяет пароль с сохранённым хэшем.
// Возвращает nil при совпадении.
func CompareHash(hash, password string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
