package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Hramos93/wholabank/config"
	"github.com/Hramos93/wholabank/models"
	"github.com/Hramos93/wholabank/utils"
	"gorm.io/gorm"
)

// срок действия выпускаемых карт
const cardLifetimeYears = 5

// CardService отвечает за эмиссию дебетовых карт
type CardService struct {
	db  *gorm.DB
	cfg *config.Config

	// источник случайных цифр; подменяется в тестах
	randomDigits func(count int) (string, error)
}

// NewCardService создает новый экземпляр CardService
func NewCardService(db *gorm.DB, cfg *config.Config) *CardService {
	return &CardService{db: db, cfg: cfg, randomDigits: utils.RandomDigits}
}

// generateNumber собирает номер карты: префикс "5", пятизначный BIN
// банка, девять случайных цифр и фиксированная контрольная цифра "0"
func (s *CardService) generateNumber() (string, error) {
	middle, err := s.randomDigits(9)
	if err != nil {
		return "", err
	}
	return "5" + s.cfg.Bank.CardBIN + middle + "0", nil
}

// IssueCard выпускает карту к счету внутри переданной транзакции.
// Карта создается активной, со сроком действия пять лет от текущей даты.
func (s *CardService) IssueCard(tx *gorm.DB, accountID uint) (*models.Card, error) {
	securityCode, err := s.randomDigits(3)
	if err != nil {
		return nil, err
	}
	expiration := time.Now().AddDate(cardLifetimeYears, 0, 0).Format("01/06")

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		number, err := s.generateNumber()
		if err != nil {
			return nil, err
		}

		var existing models.Card
		err = tx.Where("number = ?", number).First(&existing).Error
		if err == nil {
			utils.LogDebug("Коллизия номера карты, попытка %d", attempt+1)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		card := &models.Card{
			Number:       number,
			SecurityCode: securityCode,
			Expiration:   expiration,
			Active:       true,
			AccountID:    accountID,
		}
		if err := tx.Create(card).Error; err != nil {
			return nil, err
		}
		return card, nil
	}
	return nil, fmt.Errorf("не удалось сгенерировать уникальный номер карты за %d попыток", maxGenerateAttempts)
}

// SetCardActive меняет флаг активности карты. Остальные реквизиты
// после выпуска неизменяемы.
func (s *CardService) SetCardActive(cardID uint, active bool) (*models.Card, error) {
	var card models.Card
	if err := s.db.First(&card, cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("card not found")
		}
		return nil, err
	}

	if err := s.db.Model(&card).Update("active", active).Error; err != nil {
		return nil, err
	}
	card.Active = active
	return &card, nil
}

// MaskCardNumber скрывает все цифры номера, кроме последних четырех
func MaskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return "**** **** **** " + number[len(number)-4:]
}
