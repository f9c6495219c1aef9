package models

import (
	"time"
)

// DirectoryKind представляет тип записи справочника
type DirectoryKind string

const (
	DirectoryKindBank     DirectoryKind = "BANK"     // Банк-партнер
	DirectoryKindMerchant DirectoryKind = "MERCHANT" // Внешняя коммерция
)

// DirectoryEntry хранит сетевые адреса остальных участников сети
// (банков и коммерций). Используется только для маршрутизации
// авторизационных запросов; коды уникальны во всем справочнике.
type DirectoryEntry struct {
	ID        uint          `gorm:"primaryKey;autoIncrement"`
	Code      string        `gorm:"column:code;unique;not null;size:10"`
	Name      string        `gorm:"column:name;not null;size:50"`
	TaxID     string        `gorm:"column:tax_id;size:20"`
	Kind      DirectoryKind `gorm:"column:kind;type:varchar(10);not null"`
	Endpoint  string        `gorm:"column:endpoint;not null;size:255"` // базовый URL API участника
	CreatedAt time.Time     `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time     `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (DirectoryEntry) TableName() string {
	return "directory_entries"
}
