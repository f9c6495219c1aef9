package utils

import (
	"crypto/rand"
	"strings"
)

// RandomDigits генерирует строку из count случайных цифр на базе
// crypto/rand. Используется выборка с отклонением: принимаются только
// байты < 250, остаток по модулю 10 дает равномерное распределение 0-9.
func RandomDigits(count int) (string, error) {
	if count <= 0 {
		return "", nil
	}
	const threshold = 250 // 256 - (256 % 10)
	var sb strings.Builder
	sb.Grow(count)
	buf := make([]byte, 64)
	for sb.Len() < count {
		n, err := rand.Read(buf)
		if err != nil {
			return "", err
		}
		for i := 0; i < n && sb.Len() < count; i++ {
			if buf[i] < threshold {
				sb.WriteByte('0' + (buf[i] % 10))
			}
		}
	}
	return sb.String(), nil
}

// IsDigits проверяет, что строка состоит только из цифр
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
