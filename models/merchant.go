package models

import (
	"time"
)

// Merchant связывает публичный код коммерции (тот, что присылает
// датафон) со счетом в нашем банке. Наличие записи делает нас
// банком-эквайером этой коммерции; выключенный флаг Active блокирует
// прием платежей, не трогая сам счет.
type Merchant struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Code      string    `gorm:"column:code;unique;not null;size:20"`
	Name      string    `gorm:"column:name;not null;size:100"`
	AccountID uint      `gorm:"column:account_id;unique;not null"`
	Account   Account   `gorm:"foreignKey:AccountID;references:ID"`
	Active    bool      `gorm:"column:active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Merchant) TableName() string {
	return "merchants"
}
