package models

import (
	"time"
)

// TransactionKind представляет тип операции в журнале
type TransactionKind string

const (
	TransactionKindMerchantPayment   TransactionKind = "MERCHANT_PAYMENT"   // Оплата в коммерции
	TransactionKindInterbankTransfer TransactionKind = "INTERBANK_TRANSFER" // Межбанковский перевод
)

// TransactionStatus представляет статус записи журнала
type TransactionStatus string

const (
	// TransactionStatusPending — запись создана до сетевого вызова к
	// банку-эмитенту; вторая транзакция БД переведет ее в APPROVED
	// или REJECTED. Зависшие PENDING-записи закрывает фоновая выверка.
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusApproved TransactionStatus = "APPROVED"
	TransactionStatusRejected TransactionStatus = "REJECTED"
)

// Transaction — запись журнала операций. Создается ровно один раз на
// каждую попытку авторизации, успешную или нет. Единственная
// допустимая мутация — перевод PENDING в терминальный статус; записи
// никогда не удаляются.
type Transaction struct {
	ID            uint              `gorm:"primaryKey;autoIncrement"`
	Kind          TransactionKind   `gorm:"column:kind;type:varchar(20);not null"`
	Amount        int64             `gorm:"column:amount;not null"` // в сентаво
	SourceID      *uint             `gorm:"column:source_id;index"` // NULL, если плательщик в другом банке
	Source        *Account          `gorm:"foreignKey:SourceID;references:ID"`
	DestinationID *uint             `gorm:"column:destination_id;index"` // NULL, если получатель в другом банке
	Destination   *Account          `gorm:"foreignKey:DestinationID;references:ID"`
	Reference     string            `gorm:"column:reference;not null;size:100;index"` // номер транзакции, присланный инициатором
	IssuerBank    string            `gorm:"column:issuer_bank;not null;size:10"`      // кто выпустил карту
	Status        TransactionStatus `gorm:"column:status;type:varchar(20);not null"`
	ResponseCode  string            `gorm:"column:response_code;not null;size:20"` // "201" либо IERROR_*
	ErrorMessage  string            `gorm:"column:error_message;size:255"`
	CreatedAt     time.Time         `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Transaction) TableName() string {
	return "transactions"
}
