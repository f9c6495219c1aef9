package models

import (
	"time"
)

// PersonKind представляет тип клиента
type PersonKind string

const (
	PersonKindNatural   PersonKind = "NATURAL"   // Физическое лицо
	PersonKindJuridical PersonKind = "JURIDICAL" // Юридическое лицо
)

// Client представляет клиента банка. Для физических лиц обязательна
// национальная цедула, для юридических — налоговый RIF. RIF уникален и
// заполнен всегда (для физических лиц производится от цедулы).
type Client struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"`
	Kind       PersonKind `gorm:"column:kind;type:varchar(10);not null;default:'NATURAL'"`
	FullName   string     `gorm:"column:full_name;not null;size:100"`
	NationalID *string    `gorm:"column:national_id;unique;size:20"`
	TaxID      string     `gorm:"column:tax_id;unique;not null;size:20"`
	Email      string     `gorm:"column:email;unique;not null;size:100;index"`
	Password   string     `gorm:"column:password;not null;size:100"`
	Phone      string     `gorm:"column:phone;size:20"`
	IsAdmin    bool       `gorm:"column:is_admin;not null;default:false"`
	Accounts   []Account  `gorm:"foreignKey:ClientID"`
	CreatedAt  time.Time  `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Client) TableName() string {
	return "clients"
}
