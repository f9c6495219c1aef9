package services

import (
	"testing"

	"github.com/Hramos93/wholabank/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newClientService(t *testing.T, db *gorm.DB) *ClientService {
	t.Helper()
	cfg := newTestConfig(t)
	return NewClientService(db, cfg, NewAccountService(db, cfg), NewCardService(db, cfg), nil)
}

func naturalRequest(email, cedula string) RegisterClientRequest {
	return RegisterClientRequest{
		Kind:       models.PersonKindNatural,
		FullName:   "Pedro Perez",
		NationalID: cedula,
		Email:      email,
		Password:   "Secreto123",
	}
}

// Регистрация создает клиента, счет и активную карту одним действием
func TestRegisterNaturalClient(t *testing.T) {
	db := newTestDB(t)
	svc := newClientService(t, db)

	client, err := svc.Register(naturalRequest("pedro@example.com", "12345678"))
	require.NoError(t, err)
	// RIF физического лица производится от цедулы
	require.Equal(t, "V-12345678", client.TaxID)

	var accounts []models.Account
	require.NoError(t, db.Preload("Cards").Where("client_id = ?", client.ID).Find(&accounts).Error)
	require.Len(t, accounts, 1)
	require.Len(t, accounts[0].Cards, 1)
	require.True(t, accounts[0].Cards[0].Active)

	// Пароль хранится хешем
	require.NotEqual(t, "Secreto123", client.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newClientService(t, db)

	_, err := svc.Register(naturalRequest("pedro@example.com", "12345678"))
	require.NoError(t, err)

	_, err = svc.Register(naturalRequest("pedro@example.com", "87654321"))
	require.Error(t, err)
	var derr *DomainError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, CodeRegEmailTaken, derr.Code)
}

func TestRegisterNaturalWithoutCedula(t *testing.T) {
	db := newTestDB(t)
	svc := newClientService(t, db)

	_, err := svc.Register(naturalRequest("pedro@example.com", ""))
	var derr *DomainError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, CodeRegMissingCedula, derr.Code)
}

func TestRegisterDuplicateCedula(t *testing.T) {
	db := newTestDB(t)
	svc := newClientService(t, db)

	_, err := svc.Register(naturalRequest("pedro@example.com", "12345678"))
	require.NoError(t, err)

	_, err = svc.Register(naturalRequest("maria@example.com", "12345678"))
	var derr *DomainError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, CodeRegCedulaTaken, derr.Code)
}

func TestRegisterJuridicalWithoutTaxID(t *testing.T) {
	db := newTestDB(t)
	svc := newClientService(t, db)

	_, err := svc.Register(RegisterClientRequest{
		Kind:     models.PersonKindJuridical,
		FullName: "Comercio CA",
		Email:    "comercio@example.com",
		Password: "Secreto123",
	})
	var derr *DomainError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, CodeRegMissingTaxID, derr.Code)
}

func TestRegisterJuridicalDuplicateTaxID(t *testing.T) {
	db := newTestDB(t)
	svc := newClientService(t, db)

	_, err := svc.Register(RegisterClientRequest{
		Kind: models.PersonKindJuridical, FullName: "Comercio CA",
		TaxID: "J-30123456", Email: "uno@example.com", Password: "Secreto123",
	})
	require.NoError(t, err)

	_, err = svc.Register(RegisterClientRequest{
		Kind: models.PersonKindJuridical, FullName: "Otro Comercio CA",
		TaxID: "J-30123456", Email: "dos@example.com", Password: "Secreto123",
	})
	var derr *DomainError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, CodeRegTaxIDTaken, derr.Code)
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := newClientService(t, db)

	_, err := svc.Register(naturalRequest("pedro@example.com", "12345678"))
	require.NoError(t, err)

	client, err := svc.Authenticate("pedro@example.com", "Secreto123")
	require.NoError(t, err)
	require.Equal(t, "pedro@example.com", client.Email)

	_, err = svc.Authenticate("pedro@example.com", "wrong-password")
	require.Error(t, err)
}

func TestDashboardMasksCardNumbers(t *testing.T) {
	db := newTestDB(t)
	svc := newClientService(t, db)

	client, err := svc.Register(naturalRequest("pedro@example.com", "12345678"))
	require.NoError(t, err)

	dashboard, err := svc.Dashboard(client.ID)
	require.NoError(t, err)
	require.Len(t, dashboard, 1)
	require.Len(t, dashboard[0].Cards, 1)
	require.Contains(t, dashboard[0].Cards[0].Number, "****")
}
