package services

import (
	"testing"
	"time"

	"github.com/Hramos93/wholabank/config"
	"github.com/Hramos93/wholabank/database"
	"github.com/Hramos93/wholabank/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB открывает чистую БД в памяти со схемой приложения
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// newTestConfig собирает конфигурацию банка "0001" с коротким таймаутом
// межбанковских вызовов
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Bank.Code = "0001"
	cfg.Bank.BranchCode = "0001"
	cfg.Bank.CardBIN = "00001"
	cfg.Bank.Name = "WHOLABANK"
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.ExpiresIn = 1
	cfg.Interbank.RequestTimeout = 500 * time.Millisecond
	cfg.Interbank.PendingMaxAge = 10 * time.Minute
	cfg.Interbank.SweepInterval = time.Minute
	return cfg
}

// seedCardholder создает клиента со счетом и картой с заданным балансом
func seedCardholder(t *testing.T, db *gorm.DB, accountNumber, cardNumber string, balance int64) (*models.Account, *models.Card) {
	t.Helper()
	taxID := "V-" + accountNumber[10:]
	client := &models.Client{
		Kind:     models.PersonKindNatural,
		FullName: "Pedro Perez",
		TaxID:    taxID,
		Email:    taxID + "@example.com",
		Password: "hash",
	}
	require.NoError(t, db.Create(client).Error)

	account := &models.Account{
		Number:   accountNumber,
		Balance:  balance,
		Kind:     models.AccountKindChecking,
		ClientID: client.ID,
	}
	require.NoError(t, db.Create(account).Error)

	card := &models.Card{
		Number:       cardNumber,
		SecurityCode: "123",
		Expiration:   "01/30",
		Active:       true,
		AccountID:    account.ID,
	}
	require.NoError(t, db.Create(card).Error)
	return account, card
}

// seedMerchant создает коммерцию с расчетным счетом
func seedMerchant(t *testing.T, db *gorm.DB, code, accountNumber string, active bool) (*models.Merchant, *models.Account) {
	t.Helper()
	client := &models.Client{
		Kind:     models.PersonKindJuridical,
		FullName: "Comercio " + code,
		TaxID:    "J-" + code,
		Email:    code + "@example.com",
		Password: "hash",
	}
	require.NoError(t, db.Create(client).Error)

	account := &models.Account{
		Number:   accountNumber,
		Balance:  0,
		Kind:     models.AccountKindChecking,
		ClientID: client.ID,
	}
	require.NoError(t, db.Create(account).Error)

	merchant := &models.Merchant{
		Code:      code,
		Name:      "Comercio " + code,
		AccountID: account.ID,
		Active:    active,
	}
	require.NoError(t, db.Create(merchant).Error)
	merchant.Account = *account
	return merchant, account
}

// accountBalance перечитывает баланс счета из БД
func accountBalance(t *testing.T, db *gorm.DB, accountID uint) int64 {
	t.Helper()
	var account models.Account
	require.NoError(t, db.First(&account, accountID).Error)
	return account.Balance
}
