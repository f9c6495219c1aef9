package services

import (
	"testing"

	"github.com/Hramos93/wholabank/models"
	"github.com/stretchr/testify/require"
)

// Выключенный флаг Active должен сохраняться как есть: значение по
// умолчанию из схемы не должно подменять явный false при вставке
func TestInactiveMerchantPersists(t *testing.T) {
	db := newTestDB(t)
	_, account := seedMerchant(t, db, "C-OFF", "00010001000000000200", false)

	var stored models.Merchant
	require.NoError(t, db.Where("account_id = ?", account.ID).First(&stored).Error)
	require.False(t, stored.Active)
}

func TestInactiveCardPersists(t *testing.T) {
	db := newTestDB(t)
	account, _ := seedCardholder(t, db, "00010001000000000201", "5000010000000201", 0)

	require.NoError(t, db.Create(&models.Card{
		Number:       "5000010000000202",
		SecurityCode: "123",
		Expiration:   "01/30",
		Active:       false,
		AccountID:    account.ID,
	}).Error)

	var stored models.Card
	require.NoError(t, db.Where("number = ?", "5000010000000202").First(&stored).Error)
	require.False(t, stored.Active)
}

func TestCreateMerchant(t *testing.T) {
	db := newTestDB(t)
	account, _ := seedCardholder(t, db, "00010001000000000203", "5000010000000203", 0)
	svc := NewMerchantService(db)

	merchant, err := svc.CreateMerchant("C-100", "Panaderia CA", account.Number)
	require.NoError(t, err)
	require.True(t, merchant.Active)

	// Дубликат публичного кода
	_, err = svc.CreateMerchant("C-100", "Otra CA", account.Number)
	require.Error(t, err)
}

func TestFindByCodeMissing(t *testing.T) {
	db := newTestDB(t)
	svc := NewMerchantService(db)

	_, err := svc.FindByCode("C-404")
	require.ErrorIs(t, err, errMerchantMissing)
}

func TestSetMerchantActiveRoundTrip(t *testing.T) {
	db := newTestDB(t)
	seedMerchant(t, db, "C-101", "00010001000000000204", true)
	svc := NewMerchantService(db)

	merchant, err := svc.SetActive("C-101", false)
	require.NoError(t, err)
	require.False(t, merchant.Active)

	stored, err := svc.FindByCode("C-101")
	require.NoError(t, err)
	require.False(t, stored.Active)

	merchant, err = svc.SetActive("C-101", true)
	require.NoError(t, err)
	require.True(t, merchant.Active)
}
