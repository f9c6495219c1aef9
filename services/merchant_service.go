package services

import (
	"errors"

	"github.com/Hramos93/wholabank/models"
	"github.com/Hramos93/wholabank/utils"
	"gorm.io/gorm"
)

// errMerchantMissing — внутренний признак отсутствия коммерции; движок
// авторизации транслирует его в IERROR_1001
var errMerchantMissing = errors.New("merchant not found")

// MerchantService отвечает за реестр коммерций банка-эквайера
type MerchantService struct {
	db *gorm.DB
}

// NewMerchantService создает новый экземпляр MerchantService
func NewMerchantService(db *gorm.DB) *MerchantService {
	return &MerchantService{db: db}
}

// CreateMerchant регистрирует коммерцию с привязкой к ее расчетному счету.
// Публичный код уникален: именно его знают терминалы, номер счета
// наружу не уходит.
func (s *MerchantService) CreateMerchant(code, name, accountNumber string) (*models.Merchant, error) {
	var existing models.Merchant
	if err := s.db.Where("code = ?", code).First(&existing).Error; err == nil {
		return nil, errors.New("merchant code is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var account models.Account
	if err := s.db.Where("number = ?", accountNumber).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("settlement account not found")
		}
		return nil, err
	}

	if err := s.db.Where("account_id = ?", account.ID).First(&existing).Error; err == nil {
		return nil, errors.New("account is already bound to a merchant")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	merchant := &models.Merchant{
		Code:      code,
		Name:      name,
		AccountID: account.ID,
		Active:    true,
	}
	if err := s.db.Create(merchant).Error; err != nil {
		return nil, err
	}

	utils.LogInfo("Зарегистрирована коммерция %s (%s), счет %s", code, name, accountNumber)
	return merchant, nil
}

// FindByCode ищет коммерцию по публичному коду вместе с ее счетом
func (s *MerchantService) FindByCode(code string) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := s.db.Preload("Account").Where("code = ?", code).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errMerchantMissing
		}
		return nil, err
	}
	return &merchant, nil
}

// SetActive меняет флаг активности коммерции
func (s *MerchantService) SetActive(code string, active bool) (*models.Merchant, error) {
	merchant, err := s.FindByCode(code)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(merchant).Update("active", active).Error; err != nil {
		return nil, err
	}
	merchant.Active = active
	return merchant, nil
}

// List возвращает все коммерции банка
func (s *MerchantService) List() ([]models.Merchant, error) {
	var merchants []models.Merchant
	if err := s.db.Order("code").Find(&merchants).Error; err != nil {
		return nil, err
	}
	return merchants, nil
}
