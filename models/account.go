package models

import (
	"time"
)

// AccountKind представляет тип счета
type AccountKind string

const (
	AccountKindChecking AccountKind = "CHECKING" // Текущий счет
	AccountKindSavings  AccountKind = "SAVINGS"  // Сберегательный счет
)

// Account представляет банковский счет. Баланс хранится в сентаво
// (целые сотые доли), чтобы исключить ошибки плавающей точки при
// списаниях и зачислениях. Баланс меняют только движок авторизации и
// маршрутизатор, каждый раз внутри одной транзакции БД.
type Account struct {
	ID        uint        `gorm:"primaryKey;autoIncrement"`
	Number    string      `gorm:"column:number;unique;not null;size:20"`
	Balance   int64       `gorm:"column:balance;not null;default:0"`
	Kind      AccountKind `gorm:"column:kind;type:varchar(20);not null;default:'CHECKING'"`
	ClientID  uint        `gorm:"column:client_id;not null;index"`
	Client    Client      `gorm:"foreignKey:ClientID;references:ID"`
	Cards     []Card      `gorm:"foreignKey:AccountID"`
	CreatedAt time.Time   `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time   `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Account) TableName() string {
	return "accounts"
}
