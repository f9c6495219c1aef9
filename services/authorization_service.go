package services

import (
	"errors"
	"net/http"

	"github.com/Hramos93/wholabank/config"
	"github.com/Hramos93/wholabank/models"
	"github.com/Hramos93/wholabank/utils"
	"gorm.io/gorm"
)

// MerchantPaymentRequest — авторизация от платежного терминала.
// Суммы здесь уже в сентаво, конвертация из денежного формата
// выполняется на границе HTTP.
type MerchantPaymentRequest struct {
	TransactionID  string
	IssuerBankCode string
	CardNumber     string
	SecurityCode   string
	CardExpiration string
	MerchantCode   string
	Amount         int64
}

// InboundAuthorizationRequest — авторизация от банка-эквайера другого
// банка. Вместо кода коммерции приходит номер ее счета; для нас это
// непрозрачная строка, она только попадает в журнал через лог.
type InboundAuthorizationRequest struct {
	TransactionID         string
	IssuerBankCode        string
	CardNumber            string
	SecurityCode          string
	CardExpiration        string
	MerchantBankCode      string
	MerchantAccountNumber string
	Amount                int64
}

// AuthorizationService — ядро авторизации платежей. Последовательность
// проверок фиксированная: коммерция, маршрут, карта, средства. Каждая
// попытка, чем бы она ни закончилась, оставляет ровно одну запись в
// журнале транзакций.
type AuthorizationService struct {
	db        *gorm.DB
	cfg       *config.Config
	validator *CardValidator
	merchants *MerchantService
	routing   *RoutingService
	email     *EmailService
}

// NewAuthorizationService создает новый экземпляр AuthorizationService
func NewAuthorizationService(db *gorm.DB, cfg *config.Config, merchants *MerchantService, routing *RoutingService, email *EmailService) *AuthorizationService {
	return &AuthorizationService{
		db:        db,
		cfg:       cfg,
		validator: NewCardValidator(),
		merchants: merchants,
		routing:   routing,
		email:     email,
	}
}

// ProcessMerchantPayment обрабатывает оплату от терминала коммерции.
// Возвращает запись журнала и, при отказе, ошибку сетевого контракта.
func (s *AuthorizationService) ProcessMerchantPayment(req MerchantPaymentRequest) (*models.Transaction, *DomainError) {
	merchant, derr := s.resolveMerchant(req.MerchantCode)
	if derr != nil {
		record := s.journalRejected(req, nil, derr)
		return record, derr
	}

	// Решение о маршрутизации принимается один раз
	if req.IssuerBankCode == s.cfg.Bank.Code {
		return s.authorizeLocal(req, merchant)
	}
	return s.authorizeRemote(req, merchant)
}

// resolveMerchant ищет коммерцию через реестр и проверяет ее активность
func (s *AuthorizationService) resolveMerchant(code string) (*models.Merchant, *DomainError) {
	merchant, err := s.merchants.FindByCode(code)
	if err != nil {
		if errors.Is(err, errMerchantMissing) {
			return nil, ErrMerchantNotFound
		}
		utils.LogError("Ошибка чтения реестра коммерций: %v", err)
		return nil, InternalError()
	}
	if !merchant.Active {
		return nil, ErrMerchantInactive
	}
	return merchant, nil
}

// authorizeLocal проводит платеж, когда карта выпущена нашим банком:
// проверки, списание и зачисление выполняются в одной транзакции БД.
func (s *AuthorizationService) authorizeLocal(req MerchantPaymentRequest, merchant *models.Merchant) (*models.Transaction, *DomainError) {
	var record *models.Transaction
	var card *models.Card
	var rejection *DomainError

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result, found := s.validator.Check(tx, req.CardNumber, req.SecurityCode, req.Amount)
		if result != CheckValid {
			rejection = result.DomainError()
			return nil
		}
		card = found

		if derr := debitAccount(tx, card.AccountID, req.Amount); derr != nil {
			rejection = derr
			return nil
		}
		if err := tx.Model(&models.Account{}).Where("id = ?", merchant.AccountID).
			Update("balance", gorm.Expr("balance + ?", req.Amount)).Error; err != nil {
			return err
		}

		sourceID := card.AccountID
		destinationID := merchant.AccountID
		record = &models.Transaction{
			Kind:          models.TransactionKindMerchantPayment,
			Amount:        req.Amount,
			SourceID:      &sourceID,
			DestinationID: &destinationID,
			Reference:     req.TransactionID,
			IssuerBank:    req.IssuerBankCode,
			Status:        models.TransactionStatusApproved,
			ResponseCode:  "201",
		}
		return tx.Create(record).Error
	})
	if err != nil {
		utils.LogError("Сбой локальной авторизации %s: %v", req.TransactionID, err)
		return nil, InternalError()
	}
	if rejection != nil {
		return s.journalRejected(req, &merchant.AccountID, rejection), rejection
	}

	utils.LogInfo("Одобрен локальный платеж %s: %s в пользу %s", req.TransactionID, utils.FormatCents(req.Amount), merchant.Code)
	s.notifyCardholder(card, merchant.Name, req.Amount)
	return record, nil
}

// authorizeRemote проводит платеж по чужой карте: запись журнала
// переводится в PENDING до сетевого вызова, зачисление коммерции
// происходит отдельной транзакцией после ответа эмитента. Блокировки
// БД на время сетевого вызова не удерживаются.
func (s *AuthorizationService) authorizeRemote(req MerchantPaymentRequest, merchant *models.Merchant) (*models.Transaction, *DomainError) {
	endpoint, failure := s.routing.Resolve(req.IssuerBankCode)
	if failure != nil {
		derr := failure.DomainError()
		return s.journalRejected(req, &merchant.AccountID, derr), derr
	}

	destinationID := merchant.AccountID
	record := &models.Transaction{
		Kind:          models.TransactionKindMerchantPayment,
		Amount:        req.Amount,
		DestinationID: &destinationID,
		Reference:     req.TransactionID,
		IssuerBank:    req.IssuerBankCode,
		Status:        models.TransactionStatusPending,
		ResponseCode:  "",
	}
	if err := s.db.Create(record).Error; err != nil {
		utils.LogError("Не удалось создать PENDING-запись для %s: %v", req.TransactionID, err)
		return nil, InternalError()
	}

	failure = s.routing.Forward(endpoint, OutboundAuthorization{
		TransactionID:         req.TransactionID,
		IssuerBankCode:        req.IssuerBankCode,
		CardNumber:            req.CardNumber,
		SecurityCode:          req.SecurityCode,
		CardExpiration:        req.CardExpiration,
		MerchantBankCode:      s.cfg.Bank.Code,
		MerchantAccountNumber: merchant.Account.Number,
		Amount:                float64(req.Amount) / 100,
	})

	if failure != nil {
		derr := failure.DomainError()
		if err := s.settle(record, models.TransactionStatusRejected, derr.Code, derr.Message, 0); err != nil {
			return nil, InternalError()
		}
		utils.LogInfo("Отклонен маршрутизированный платеж %s (%s): %s", req.TransactionID, req.IssuerBankCode, derr.Message)
		return record, derr
	}

	if err := s.settle(record, models.TransactionStatusApproved, "201", "", merchant.AccountID); err != nil {
		return nil, InternalError()
	}
	utils.LogInfo("Одобрен маршрутизированный платеж %s: %s в пользу %s от банка %s",
		req.TransactionID, utils.FormatCents(req.Amount), merchant.Code, req.IssuerBankCode)
	return record, nil
}

// settle переводит PENDING-запись в терминальный статус; при одобрении
// в той же транзакции зачисляет средства коммерции
func (s *AuthorizationService) settle(record *models.Transaction, status models.TransactionStatus, code, message string, creditAccountID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if status == models.TransactionStatusApproved {
			if err := tx.Model(&models.Account{}).Where("id = ?", creditAccountID).
				Update("balance", gorm.Expr("balance + ?", record.Amount)).Error; err != nil {
				return err
			}
		}
		return tx.Model(record).Updates(map[string]interface{}{
			"status":        status,
			"response_code": code,
			"error_message": message,
		}).Error
	})
	if err != nil {
		utils.LogError("Сбой закрытия записи журнала %s: %v", record.Reference, err)
		return err
	}
	record.Status = status
	record.ResponseCode = code
	record.ErrorMessage = message
	return nil
}

// AuthorizeInbound обрабатывает авторизацию от банка-эквайера по нашей
// карте. Операция идемпотентна по transaction_id: повтор возвращает
// записанный исход без повторного списания.
func (s *AuthorizationService) AuthorizeInbound(req InboundAuthorizationRequest) (*models.Transaction, *DomainError) {
	if existing, ok := s.findInterbank(req.TransactionID); ok {
		utils.LogInfo("Повторная авторизация %s, возвращаем записанный исход %s", req.TransactionID, existing.ResponseCode)
		return existing, replayOutcome(existing)
	}

	var record *models.Transaction
	var rejection *DomainError

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result, card := s.validator.Check(tx, req.CardNumber, req.SecurityCode, req.Amount)

		record = &models.Transaction{
			Kind:       models.TransactionKindInterbankTransfer,
			Amount:     req.Amount,
			Reference:  req.TransactionID,
			IssuerBank: s.cfg.Bank.Code,
		}

		if result != CheckValid {
			rejection = result.DomainError()
		} else if derr := debitAccount(tx, card.AccountID, req.Amount); derr != nil {
			rejection = derr
		} else {
			sourceID := card.AccountID
			record.SourceID = &sourceID
		}

		if rejection != nil {
			record.Status = models.TransactionStatusRejected
			record.ResponseCode = rejection.Code
			record.ErrorMessage = rejection.Message
		} else {
			record.Status = models.TransactionStatusApproved
			record.ResponseCode = "201"
		}
		return tx.Create(record).Error
	})
	if err != nil {
		// Вероятен проигрыш гонки за уникальный индекс по reference:
		// перечитываем и возвращаем исход победителя
		if existing, ok := s.findInterbank(req.TransactionID); ok {
			utils.LogInfo("Гонка авторизаций %s, возвращаем записанный исход", req.TransactionID)
			return existing, replayOutcome(existing)
		}
		utils.LogError("Сбой входящей авторизации %s: %v", req.TransactionID, err)
		return nil, InternalError()
	}

	if rejection != nil {
		utils.LogInfo("Отклонена входящая авторизация %s от банка %s: %s", req.TransactionID, req.MerchantBankCode, rejection.Code)
		return record, rejection
	}
	utils.LogInfo("Одобрено списание %s на %s для счета коммерции в банке %s",
		req.TransactionID, utils.FormatCents(req.Amount), req.MerchantBankCode)
	return record, nil
}

// findInterbank ищет запись входящей авторизации по присланному номеру
func (s *AuthorizationService) findInterbank(reference string) (*models.Transaction, bool) {
	var existing models.Transaction
	err := s.db.Where("kind = ? AND reference = ?", models.TransactionKindInterbankTransfer, reference).
		First(&existing).Error
	if err != nil {
		return nil, false
	}
	return &existing, true
}

// replayOutcome восстанавливает исход из записи журнала: nil для
// одобренной операции, записанная ошибка для отклоненной
func replayOutcome(record *models.Transaction) *DomainError {
	if record.Status == models.TransactionStatusApproved {
		return nil
	}
	return &DomainError{
		Code:       record.ResponseCode,
		Message:    record.ErrorMessage,
		HTTPStatus: http.StatusNotFound,
	}
}

// debitAccount атомарно списывает сумму, если остатка хватает.
// Условие по балансу в самом UPDATE защищает от гонки параллельных
// списаний с одного счета.
func debitAccount(tx *gorm.DB, accountID uint, amount int64) *DomainError {
	res := tx.Model(&models.Account{}).
		Where("id = ? AND balance >= ?", accountID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		utils.LogError("Ошибка списания со счета %d: %v", accountID, res.Error)
		return InternalError()
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

// journalRejected фиксирует отклоненную попытку в журнале. Запись
// делается вне транзакции проверки: отказ обязан остаться в журнале
// даже при откате всего остального.
func (s *AuthorizationService) journalRejected(req MerchantPaymentRequest, merchantAccountID *uint, derr *DomainError) *models.Transaction {
	record := &models.Transaction{
		Kind:          models.TransactionKindMerchantPayment,
		Amount:        req.Amount,
		DestinationID: merchantAccountID,
		Reference:     req.TransactionID,
		IssuerBank:    req.IssuerBankCode,
		Status:        models.TransactionStatusRejected,
		ResponseCode:  derr.Code,
		ErrorMessage:  derr.Message,
	}
	if err := s.db.Create(record).Error; err != nil {
		utils.LogError("Не удалось записать отказ %s в журнал: %v", req.TransactionID, err)
	}
	utils.LogInfo("Отклонен платеж %s: %s", req.TransactionID, derr.Code)
	return record
}

// notifyCardholder отправляет держателю карты уведомление о списании
func (s *AuthorizationService) notifyCardholder(card *models.Card, merchantName string, amount int64) {
	if s.email == nil || card == nil {
		return
	}
	var client models.Client
	err := s.db.Joins("JOIN accounts ON accounts.client_id = clients.id").
		Where("accounts.id = ?", card.AccountID).First(&client).Error
	if err != nil {
		utils.LogDebug("Держатель карты для счета %d не найден: %v", card.AccountID, err)
		return
	}
	s.email.SendPaymentNotification(client.Email, MaskCardNumber(card.Number), merchantName, amount)
}
