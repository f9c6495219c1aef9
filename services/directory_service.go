package services

import (
	"errors"
	"strings"

	"github.com/Hramos93/wholabank/models"
	"github.com/Hramos93/wholabank/utils"
	"gorm.io/gorm"
)

// DirectoryService ведет справочник участников межбанковской сети
type DirectoryService struct {
	db *gorm.DB
}

// PanelStats — сводка для административной панели
type PanelStats struct {
	Clients      int64 `json:"clients"`
	Accounts     int64 `json:"accounts"`
	Cards        int64 `json:"cards"`
	Merchants    int64 `json:"merchants"`
	Banks        int64 `json:"banks"`
	Transactions int64 `json:"transactions"`
}

// NewDirectoryService создает новый экземпляр DirectoryService
func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

// RegisterBank добавляет банк-участник в справочник. Код должен быть
// уникален, адрес — абсолютным http(s) URL.
func (s *DirectoryService) RegisterBank(code, name, taxID, endpoint string) (*models.DirectoryEntry, error) {
	var existing models.DirectoryEntry
	if err := s.db.Where("code = ?", code).First(&existing).Error; err == nil {
		return nil, RegistrationError(CodeDirCodeTaken, "bank code is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if !strings.HasPrefix(endpoint, "http") {
		return nil, RegistrationError(CodeDirBadURL, "endpoint must be an absolute http url")
	}

	entry := &models.DirectoryEntry{
		Code:     code,
		Name:     name,
		TaxID:    taxID,
		Kind:     models.DirectoryKindBank,
		Endpoint: endpoint,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, err
	}

	utils.LogInfo("В справочник добавлен банк %s (%s) -> %s", code, name, endpoint)
	return entry, nil
}

// List возвращает все записи справочника
func (s *DirectoryService) List() ([]models.DirectoryEntry, error) {
	var entries []models.DirectoryEntry
	if err := s.db.Order("code").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// PanelStats собирает счетчики сущностей для панели администратора
func (s *DirectoryService) PanelStats() (*PanelStats, error) {
	stats := &PanelStats{}
	counts := []struct {
		model interface{}
		dest  *int64
		where []interface{}
	}{
		{&models.Client{}, &stats.Clients, nil},
		{&models.Account{}, &stats.Accounts, nil},
		{&models.Card{}, &stats.Cards, nil},
		{&models.Merchant{}, &stats.Merchants, nil},
		{&models.DirectoryEntry{}, &stats.Banks, []interface{}{"kind = ?", models.DirectoryKindBank}},
		{&models.Transaction{}, &stats.Transactions, nil},
	}
	for _, c := range counts {
		q := s.db.Model(c.model)
		if c.where != nil {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}
