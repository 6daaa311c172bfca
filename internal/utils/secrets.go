package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrSecretNotFound возвращается, когда файла секрета нет.
	ErrSecretNotFound = errors.New("secret not found")
	// ErrSecretEmpty возвращается, когда файл есть, но после trim пуст.
	ErrSecretEmpty = errors.New("secret file is empty")
)

// ReadSecretFrom читает секрет secretName из каталога dir (обычно /run/secrets).
func ReadSecretFrom(dir, secretName string) (string, error) {
	filePath := filepath.Join(dir, secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, filePath)
		}
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretEmpty, filePath)
	}
	return secret, nil
}

// MaskSecret оставляет от секрета последние 4 символа для логов.
func MaskSecret(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
