package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomDigits(t *testing.T) {
	for _, count := range []int{1, 3, 9, 10} {
		s, err := RandomDigits(count)
		require.NoError(t, err)
		require.Len(t, s, count)
		require.True(t, IsDigits(s))
	}

	s, err := RandomDigits(0)
	require.NoError(t, err)
	require.Empty(t, s)
}

func TestIsDigits(t *testing.T) {
	require.True(t, IsDigits("0123456789"))
	require.False(t, IsDigits(""))
	require.False(t, IsDigits("12a4"))
	require.False(t, IsDigits("12 34"))
	require.False(t, IsDigits("-123"))
}
