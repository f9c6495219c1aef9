package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Hramos93/wholabank/config"
	"github.com/Hramos93/wholabank/models"
	"github.com/Hramos93/wholabank/utils"
	"gorm.io/gorm"
)

// RouteFailureReason представляет причину сбоя маршрутизации
type RouteFailureReason int

const (
	RouteFailureNoRoute      RouteFailureReason = iota // нет записи в справочнике
	RouteFailureTimeout                                // сетевая ошибка или истек таймаут
	RouteFailurePeerRejected                           // эмитент ответил отказом
)

// RouteFailure — внутренний результат неудачной маршрутизации. Наружу
// все три причины уходят единым кодом IERROR_1002; причина остается
// в журнале и логах.
type RouteFailure struct {
	Reason  RouteFailureReason
	Message string
}

func (f *RouteFailure) Error() string {
	return f.Message
}

// DomainError конвертирует сбой маршрутизации в ошибку сетевого контракта
func (f *RouteFailure) DomainError() *DomainError {
	return RoutingError(f.Message)
}

// OutboundAuthorization — полезная нагрузка запроса к банку-эмитенту.
// Вместо публичного кода коммерции передается номер ее счета: эмитент
// не видит наш реестр коммерций и авторизует против счета.
type OutboundAuthorization struct {
	TransactionID         string  `json:"transaction_id"`
	IssuerBankCode        string  `json:"issuer_bank_code"`
	CardNumber            string  `json:"card_number"`
	SecurityCode          string  `json:"security_code"`
	CardExpiration        string  `json:"card_expiration"`
	MerchantBankCode      string  `json:"merchant_bank_code"`
	MerchantAccountNumber string  `json:"merchant_account_number"`
	Amount                float64 `json:"amount"`
}

// peerErrorResponse — формат тела ошибки, который возвращают банки сети
type peerErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// RoutingService пересылает авторизационные запросы банку-эмитенту.
// Таймаут исходящего вызова жесткий: его превышение — окончательный
// отказ, повторов не делается (решение о повторе за терминалом).
type RoutingService struct {
	db     *gorm.DB
	cfg    *config.Config
	client *http.Client
}

// NewRoutingService создает новый экземпляр RoutingService
func NewRoutingService(db *gorm.DB, cfg *config.Config) *RoutingService {
	return &RoutingService{
		db:  db,
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Interbank.RequestTimeout,
		},
	}
}

// Resolve ищет сетевой адрес банка по его коду в справочнике
func (s *RoutingService) Resolve(bankCode string) (string, *RouteFailure) {
	var entry models.DirectoryEntry
	err := s.db.Where("code = ? AND kind = ?", bankCode, models.DirectoryKindBank).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", &RouteFailure{
				Reason:  RouteFailureNoRoute,
				Message: fmt.Sprintf("Error: no connection with bank %s.", bankCode),
			}
		}
		utils.LogError("Ошибка чтения справочника для банка %s: %v", bankCode, err)
		return "", &RouteFailure{
			Reason:  RouteFailureNoRoute,
			Message: fmt.Sprintf("Error: no connection with bank %s.", bankCode),
		}
	}
	return entry.Endpoint, nil
}

// Forward отправляет авторизацию банку-эмитенту и интерпретирует ответ.
// Одобрением считается только статус 201; любой другой статус — отказ
// с сообщением эмитента, сетевая ошибка — таймаут маршрута.
func (s *RoutingService) Forward(endpoint string, payload OutboundAuthorization) *RouteFailure {
	body, err := json.Marshal(payload)
	if err != nil {
		utils.LogError("Ошибка сериализации исходящей авторизации %s: %v", payload.TransactionID, err)
		return &RouteFailure{
			Reason:  RouteFailureTimeout,
			Message: "Error: could not reach the issuing bank.",
		}
	}

	url := strings.TrimRight(endpoint, "/") + "/api/payments/authorize"
	resp, err := s.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		utils.LogError("Сбой вызова эмитента %s (%s): %v", payload.IssuerBankCode, url, err)
		return &RouteFailure{
			Reason:  RouteFailureTimeout,
			Message: "Error: timed out waiting for the issuing bank.",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		return nil
	}

	// Эмитент отказал: достаем его сообщение, если тело разборчиво
	var peerErr peerErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&peerErr); err != nil || peerErr.Error.Message == "" {
		return &RouteFailure{
			Reason:  RouteFailurePeerRejected,
			Message: "Error: unknown error from the issuing bank.",
		}
	}
	return &RouteFailure{
		Reason:  RouteFailurePeerRejected,
		Message: "Error: " + peerErr.Error.Message,
	}
}
