package utils

import (
	"errors"
	"fmt"
	"math"
)

// maxAmount ограничивает сумму одной операции (в единицах валюты),
// чтобы конвертация в сентаво не переполнялась.
const maxAmount = 1e13

// ToCents конвертирует сумму из JSON (число с максимум двумя знаками
// после запятой) в целые сентаво. Суммы с большей точностью и
// неположительные суммы отклоняются на границе.
func ToCents(amount float64) (int64, error) {
	if amount <= 0 {
		return 0, errors.New("amount must be positive")
	}
	if amount > maxAmount {
		return 0, errors.New("amount is too large")
	}
	scaled := amount * 100
	rounded := math.Round(scaled)
	if math.Abs(scaled-rounded) > 1e-6 {
		return 0, errors.New("amount must have at most 2 decimal places")
	}
	return int64(rounded), nil
}

// FormatCents форматирует сумму в сентаво как десятичную строку, например "50.00"
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
