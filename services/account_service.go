package services

import (
	"errors"
	"fmt"

	"github.com/Hramos93/wholabank/config"
	"github.com/Hramos93/wholabank/models"
	"github.com/Hramos93/wholabank/utils"
	"gorm.io/gorm"
)

// максимум попыток при коллизии сгенерированного номера
const maxGenerateAttempts = 5

// AccountService отвечает за открытие счетов и генерацию их номеров
type AccountService struct {
	db  *gorm.DB
	cfg *config.Config

	// источник случайных цифр; подменяется в тестах
	randomDigits func(count int) (string, error)
}

// NewAccountService создает новый экземпляр AccountService
func NewAccountService(db *gorm.DB, cfg *config.Config) *AccountService {
	return &AccountService{db: db, cfg: cfg, randomDigits: utils.RandomDigits}
}

// generateNumber собирает номер счета: код банка, код отделения,
// фиксированное "00" и десять случайных цифр
func (s *AccountService) generateNumber() (string, error) {
	suffix, err := s.randomDigits(10)
	if err != nil {
		return "", err
	}
	return s.cfg.Bank.Code + s.cfg.Bank.BranchCode + "00" + suffix, nil
}

// CreateAccount открывает счет клиенту внутри переданной транзакции.
// При коллизии номера генерация повторяется ограниченное число раз.
func (s *AccountService) CreateAccount(tx *gorm.DB, clientID uint, kind models.AccountKind) (*models.Account, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		number, err := s.generateNumber()
		if err != nil {
			return nil, err
		}

		var existing models.Account
		err = tx.Where("number = ?", number).First(&existing).Error
		if err == nil {
			utils.LogDebug("Коллизия номера счета %s, попытка %d", number, attempt+1)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		account := &models.Account{
			Number:   number,
			Balance:  0,
			Kind:     kind,
			ClientID: clientID,
		}
		if err := tx.Create(account).Error; err != nil {
			return nil, err
		}
		return account, nil
	}
	return nil, fmt.Errorf("не удалось сгенерировать уникальный номер счета за %d попыток", maxGenerateAttempts)
}

// FindByNumber ищет счет по его номеру
func (s *AccountService) FindByNumber(number string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("number = ?", number).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("account not found")
		}
		return nil, err
	}
	return &account, nil
}
