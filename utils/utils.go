package utils

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 12

// минимальная длина пароля администратора
const MinPasswordLength = 8

var ErrPasswordTooShort = errors.New("password is too short")

// HashPassword готовит значение для ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	password = strings.TrimSpace(password)
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
