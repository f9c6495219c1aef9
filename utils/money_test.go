package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	cents, err := ToCents(50.00)
	require.NoError(t, err)
	require.Equal(t, int64(5000), cents)

	cents, err = ToCents(0.01)
	require.NoError(t, err)
	require.Equal(t, int64(1), cents)

	// Классически проблемное для float64 значение
	cents, err = ToCents(19.99)
	require.NoError(t, err)
	require.Equal(t, int64(1999), cents)
}

func TestToCentsRejectsInvalid(t *testing.T) {
	_, err := ToCents(0)
	require.Error(t, err)

	_, err = ToCents(-10.50)
	require.Error(t, err)

	// Больше двух знаков после запятой
	_, err = ToCents(10.505)
	require.Error(t, err)

	_, err = ToCents(2e13)
	require.Error(t, err)
}

func TestFormatCents(t *testing.T) {
	require.Equal(t, "50.00", FormatCents(5000))
	require.Equal(t, "0.05", FormatCents(5))
	require.Equal(t, "1234.56", FormatCents(123456))
	require.Equal(t, "-7.50", FormatCents(-750))
}
