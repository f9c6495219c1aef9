package services

import (
	"strconv"
	"time"

	"github.com/Hramos93/wholabank/config"
	"github.com/Hramos93/wholabank/models"
	"github.com/Hramos93/wholabank/utils"
	"github.com/beevik/etree"
	"gorm.io/gorm"
)

// SettlementService закрывает зависшие PENDING-записи журнала и строит
// сверочный отчет для клиринга
type SettlementService struct {
	db   *gorm.DB
	cfg  *config.Config
	stop chan struct{}
}

// NewSettlementService создает новый экземпляр SettlementService
func NewSettlementService(db *gorm.DB, cfg *config.Config) *SettlementService {
	return &SettlementService{
		db:   db,
		cfg:  cfg,
		stop: make(chan struct{}),
	}
}

// Start запускает фоновую выверку зависших записей
func (s *SettlementService) Start() {
	ticker := time.NewTicker(s.cfg.Interbank.SweepInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.SweepStalePending(); err != nil {
					utils.LogError("Ошибка выверки зависших записей: %v", err)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop останавливает фоновую выверку
func (s *SettlementService) Stop() {
	close(s.stop)
}

// SweepStalePending отклоняет PENDING-записи старше допустимого
// возраста. Такая запись означает, что процесс оборвался между
// сетевым вызовом и закрытием журнала: исход у эмитента неизвестен,
// средства коммерции не зачислялись, спор решается ручной сверкой.
func (s *SettlementService) SweepStalePending() error {
	cutoff := time.Now().Add(-s.cfg.Interbank.PendingMaxAge)

	var stale []models.Transaction
	if err := s.db.Where("status = ? AND created_at < ?", models.TransactionStatusPending, cutoff).
		Find(&stale).Error; err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	for _, record := range stale {
		err := s.db.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", record.ID, models.TransactionStatusPending).
			Updates(map[string]interface{}{
				"status":        models.TransactionStatusRejected,
				"response_code": CodeRoutingFailure,
				"error_message": "Error: authorization outcome unknown, closed by reconciliation.",
			}).Error
		if err != nil {
			return err
		}
		utils.LogInfo("Выверка закрыла зависшую запись %s (создана %s)", record.Reference, record.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

// SettlementReport строит XML-отчет по журналу за период для обмена с
// клиринговой палатой
func (s *SettlementService) SettlementReport(from, to time.Time) (string, error) {
	var records []models.Transaction
	if err := s.db.Preload("Source").Preload("Destination").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at").Find(&records).Error; err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	report := doc.CreateElement("SettlementReport")
	report.CreateAttr("bank", s.cfg.Bank.Code)
	report.CreateAttr("from", from.Format(time.RFC3339))
	report.CreateAttr("to", to.Format(time.RFC3339))

	var approvedTotal int64
	transactions := report.CreateElement("Transactions")
	for _, record := range records {
		el := transactions.CreateElement("Transaction")
		el.CreateAttr("reference", record.Reference)
		el.CreateAttr("kind", string(record.Kind))
		el.CreateAttr("status", string(record.Status))
		el.CreateElement("Amount").SetText(utils.FormatCents(record.Amount))
		el.CreateElement("IssuerBank").SetText(record.IssuerBank)
		el.CreateElement("ResponseCode").SetText(record.ResponseCode)
		if record.Source != nil {
			el.CreateElement("SourceAccount").SetText(record.Source.Number)
		}
		if record.Destination != nil {
			el.CreateElement("DestinationAccount").SetText(record.Destination.Number)
		}
		if record.Status == models.TransactionStatusApproved {
			approvedTotal += record.Amount
		}
	}

	summary := report.CreateElement("Summary")
	summary.CreateElement("Count").SetText(strconv.Itoa(len(records)))
	summary.CreateElement("ApprovedTotal").SetText(utils.FormatCents(approvedTotal))

	doc.Indent(2)
	return doc.WriteToString()
}
