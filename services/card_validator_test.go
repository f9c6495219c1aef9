package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardValidatorUnknownCard(t *testing.T) {
	db := newTestDB(t)
	v := NewCardValidator()

	result, card := v.Check(db, "5000010000099999", "123", 1000)
	require.Equal(t, CheckCardNotFound, result)
	require.Nil(t, card)
	require.Equal(t, CodeCardNotFound, result.DomainError().Code)
}

func TestCardValidatorInactiveCard(t *testing.T) {
	db := newTestDB(t)
	_, card := seedCardholder(t, db, "00010001000000000001", "5000010000000001", 10000)
	require.NoError(t, db.Model(card).Update("active", false).Error)

	v := NewCardValidator()
	result, _ := v.Check(db, card.Number, "123", 1000)
	require.Equal(t, CheckCardInactive, result)
	require.Equal(t, CodeCardInactive, result.DomainError().Code)
}

// Блокировка проверяется раньше кода безопасности: по заблокированной
// карте с неверным CVV уходит именно "карта неактивна"
func TestCardValidatorInactiveBeforeSecurity(t *testing.T) {
	db := newTestDB(t)
	_, card := seedCardholder(t, db, "00010001000000000002", "5000010000000002", 10000)
	require.NoError(t, db.Model(card).Update("active", false).Error)

	v := NewCardValidator()
	result, _ := v.Check(db, card.Number, "999", 1000)
	require.Equal(t, CheckCardInactive, result)
}

func TestCardValidatorSecurityMismatch(t *testing.T) {
	db := newTestDB(t)
	_, card := seedCardholder(t, db, "00010001000000000003", "5000010000000003", 10000)

	v := NewCardValidator()
	result, _ := v.Check(db, card.Number, "999", 1000)
	require.Equal(t, CheckSecurityMismatch, result)
	// Неверный CVV наружу неотличим от несуществующей карты
	require.Equal(t, CodeCardNotFound, result.DomainError().Code)
}

func TestCardValidatorInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	_, card := seedCardholder(t, db, "00010001000000000004", "5000010000000004", 10000)

	v := NewCardValidator()
	result, _ := v.Check(db, card.Number, "123", 10001)
	require.Equal(t, CheckInsufficientFunds, result)
	require.Equal(t, CodeInsufficientFunds, result.DomainError().Code)
}

// Сумма, равная остатку, проходит проверку
func TestCardValidatorExactBalance(t *testing.T) {
	db := newTestDB(t)
	_, card := seedCardholder(t, db, "00010001000000000005", "5000010000000005", 10000)

	v := NewCardValidator()
	result, found := v.Check(db, card.Number, "123", 10000)
	require.Equal(t, CheckValid, result)
	require.NotNil(t, found)
	require.Equal(t, card.Number, found.Number)
}
