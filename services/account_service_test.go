package services

import (
	"strings"
	"testing"

	"github.com/Hramos93/wholabank/models"
	"github.com/Hramos93/wholabank/utils"
	"github.com/stretchr/testify/require"
)

func TestCreateAccountNumberFormat(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	svc := NewAccountService(db, cfg)

	client := &models.Client{
		Kind: models.PersonKindNatural, FullName: "Pedro Perez",
		TaxID: "V-12345678", Email: "pedro@example.com", Password: "hash",
	}
	require.NoError(t, db.Create(client).Error)

	account, err := svc.CreateAccount(db, client.ID, models.AccountKindChecking)
	require.NoError(t, err)

	// Код банка, код агентства, фиксированное "00", десять случайных цифр
	require.Len(t, account.Number, 20)
	require.True(t, strings.HasPrefix(account.Number, "0001000100"))
	require.True(t, utils.IsDigits(account.Number))
	require.Equal(t, int64(0), account.Balance)

	found, err := svc.FindByNumber(account.Number)
	require.NoError(t, err)
	require.Equal(t, account.ID, found.ID)
}

func TestIssueCardFormat(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	accounts := NewAccountService(db, cfg)
	cards := NewCardService(db, cfg)

	client := &models.Client{
		Kind: models.PersonKindNatural, FullName: "Pedro Perez",
		TaxID: "V-12345678", Email: "pedro@example.com", Password: "hash",
	}
	require.NoError(t, db.Create(client).Error)
	account, err := accounts.CreateAccount(db, client.ID, models.AccountKindChecking)
	require.NoError(t, err)

	card, err := cards.IssueCard(db, account.ID)
	require.NoError(t, err)

	// Префикс "5", BIN банка, девять случайных цифр, контрольная "0"
	require.Len(t, card.Number, 16)
	require.True(t, strings.HasPrefix(card.Number, "500001"))
	require.True(t, strings.HasSuffix(card.Number, "0"))
	require.True(t, utils.IsDigits(card.Number))

	require.Len(t, card.SecurityCode, 3)
	require.True(t, utils.IsDigits(card.SecurityCode))
	require.Len(t, card.Expiration, 5)
	require.Equal(t, "/", card.Expiration[2:3])
	require.True(t, card.Active)
}

// Коллизия сгенерированного номера счета приводит к повторной
// генерации, а не к отказу
func TestCreateAccountRetriesOnCollision(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	svc := NewAccountService(db, cfg)

	// Счет с номером, который генератор выдаст первым
	seedCardholder(t, db, "00010001001111111111", "5000010000000009", 0)

	client := &models.Client{
		Kind: models.PersonKindNatural, FullName: "Maria Gomez",
		TaxID: "V-87654321", Email: "maria@example.com", Password: "hash",
	}
	require.NoError(t, db.Create(client).Error)

	attempts := 0
	svc.randomDigits = func(count int) (string, error) {
		attempts++
		if attempts == 1 {
			return "1111111111", nil // занято
		}
		return "2222222222", nil
	}

	account, err := svc.CreateAccount(db, client.ID, models.AccountKindChecking)
	require.NoError(t, err)
	require.Equal(t, "00010001002222222222", account.Number)
	require.Equal(t, 2, attempts)
}

func TestIssueCardRetriesOnCollision(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	cards := NewCardService(db, cfg)

	// Карта с номером, который генератор выдаст первым
	account, _ := seedCardholder(t, db, "00010001000000000001", "5000011111111110", 0)

	sequence := []string{"123", "111111111", "222222222"}
	calls := 0
	cards.randomDigits = func(count int) (string, error) {
		digits := sequence[calls]
		calls++
		return digits, nil
	}

	card, err := cards.IssueCard(db, account.ID)
	require.NoError(t, err)
	// Первый кандидат "5"+BIN+"111111111"+"0" занят, выпущен второй
	require.Equal(t, "5000012222222220", card.Number)
	require.Equal(t, 3, calls)
}

func TestSetCardActive(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	cards := NewCardService(db, cfg)
	_, card := seedCardholder(t, db, "00010001000000000001", "5000010000000001", 0)

	updated, err := cards.SetCardActive(card.ID, false)
	require.NoError(t, err)
	require.False(t, updated.Active)

	var stored models.Card
	require.NoError(t, db.First(&stored, card.ID).Error)
	require.False(t, stored.Active)
	// Остальные реквизиты не изменились
	require.Equal(t, card.Number, stored.Number)
	require.Equal(t, card.SecurityCode, stored.SecurityCode)
}

func TestMaskCardNumber(t *testing.T) {
	require.Equal(t, "**** **** **** 2345", MaskCardNumber("5000010000012345"))
	require.Equal(t, "123", MaskCardNumber("123"))
}
