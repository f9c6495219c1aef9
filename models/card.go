package models

import (
	"time"
)

// Card представляет банковскую карту. Номер строится по ISO/IEC 7812:
// цифра платежной сети + BIN банка (5 цифр) + случайный идентификатор
// счета (9 цифр) + фиксированная контрольная цифра. После выпуска
// изменяется только флаг Active.
type Card struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Number       string    `gorm:"column:number;unique;not null;size:16"`
	SecurityCode string    `gorm:"column:security_code;not null;size:3"`
	Expiration   string    `gorm:"column:expiration;not null;size:5"` // MM/YY
	Active       bool      `gorm:"column:active;not null"`
	AccountID    uint      `gorm:"column:account_id;not null;index"`
	Account      Account   `gorm:"foreignKey:AccountID;references:ID"`
	CreatedAt    time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Card) TableName() string {
	return "cards"
}
