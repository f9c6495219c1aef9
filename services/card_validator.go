package services

import (
	"errors"

	"github.com/Hramos93/wholabank/models"
	"gorm.io/gorm"
)

// CheckResult представляет исход проверки карты
type CheckResult int

const (
	CheckValid CheckResult = iota
	CheckCardNotFound
	CheckCardInactive
	CheckSecurityMismatch
	CheckInsufficientFunds
	CheckInternalError
)

// CardValidator проверяет карту перед списанием. Проверка чистая:
// никаких записей в базу, мутация баланса — ответственность движка
// авторизации.
type CardValidator struct{}

// NewCardValidator создает новый экземпляр CardValidator
func NewCardValidator() *CardValidator {
	return &CardValidator{}
}

// Check выполняет проверки карты в фиксированном порядке: существование,
// активность, код безопасности, достаточность средств. Порядок — часть
// контракта: он определяет, какой код отказа увидит инициатор. Сумма
// равная балансу проходит проверку (сравнение balance >= amount).
// Вызывается внутри транзакции движка, чтобы прочитанный баланс был
// согласован с последующим списанием.
func (v *CardValidator) Check(tx *gorm.DB, cardNumber, securityCode string, amount int64) (CheckResult, *models.Card) {
	var card models.Card
	if err := tx.Preload("Account").Where("number = ?", cardNumber).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CheckCardNotFound, nil
		}
		return CheckInternalError, nil
	}

	if !card.Active {
		return CheckCardInactive, &card
	}

	if card.SecurityCode != securityCode {
		return CheckSecurityMismatch, &card
	}

	if card.Account.Balance < amount {
		return CheckInsufficientFunds, &card
	}

	return CheckValid, &card
}

// DomainError возвращает бизнес-ошибку, соответствующую результату проверки
func (r CheckResult) DomainError() *DomainError {
	switch r {
	case CheckCardNotFound:
		return ErrCardNotFound
	case CheckCardInactive:
		return ErrCardInactive
	case CheckSecurityMismatch:
		return ErrSecurityMismatch
	case CheckInsufficientFunds:
		return ErrInsufficientFunds
	case CheckInternalError:
		return InternalError()
	default:
		return nil
	}
}
