package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Hramos93/wholabank/config"
	"github.com/Hramos93/wholabank/services"
	"github.com/Hramos93/wholabank/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// PaymentController обрабатывает авторизации платежей: от терминалов
// коммерций и от банков-эквайеров сети
type PaymentController struct {
	authService *services.AuthorizationService
	validator   *validator.Validate
	config      *config.Config
}

// ProcessPaymentRequest — запрос терминала коммерции
type ProcessPaymentRequest struct {
	TransactionID    string  `json:"transaction_id" validate:"required,max=100"`
	IssuerBankCode   string  `json:"issuer_bank_code" validate:"required,len=4,digits"`
	CardNumber       string  `json:"card_number" validate:"required,len=16,digits"`
	SecurityCode     string  `json:"security_code" validate:"required,len=3,digits"`
	CardExpiration   string  `json:"card_expiration" validate:"required,len=5"`
	MerchantBankCode string  `json:"merchant_bank_code" validate:"required,len=4,digits"`
	MerchantCode     string  `json:"merchant_code" validate:"required,max=50"`
	Amount           float64 `json:"amount" validate:"required,gt=0"`
}

// AuthorizeRequest — запрос банка-эквайера по нашей карте
type AuthorizeRequest struct {
	TransactionID         string  `json:"transaction_id" validate:"required,max=100"`
	IssuerBankCode        string  `json:"issuer_bank_code" validate:"required,len=4,digits"`
	CardNumber            string  `json:"card_number" validate:"required,len=16,digits"`
	SecurityCode          string  `json:"security_code" validate:"required,len=3,digits"`
	CardExpiration        string  `json:"card_expiration" validate:"required,len=5"`
	MerchantBankCode      string  `json:"merchant_bank_code" validate:"required,len=4,digits"`
	MerchantAccountNumber string  `json:"merchant_account_number" validate:"required,max=50"`
	Amount                float64 `json:"amount" validate:"required,gt=0"`
}

// NewPaymentController создает новый экземпляр PaymentController
func NewPaymentController(authService *services.AuthorizationService, cfg *config.Config) *PaymentController {
	validate := validator.New()

	// Регистрация кастомной валидации числовых идентификаторов
	validate.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return utils.IsDigits(fl.Field().String())
	})

	return &PaymentController{
		authService: authService,
		validator:   validate,
		config:      cfg,
	}
}

// validateRequest валидирует DTO и возвращает ошибки валидации
func (c *PaymentController) validateRequest(dto interface{}) error {
	if err := c.validator.Struct(dto); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "field "+e.Field()+" is required")
			case "gt":
				errorMessages = append(errorMessages, "field "+e.Field()+" must be greater than 0")
			case "len":
				errorMessages = append(errorMessages, "field "+e.Field()+" must be "+e.Param()+" characters long")
			case "digits":
				errorMessages = append(errorMessages, "field "+e.Field()+" must contain only digits")
			default:
				errorMessages = append(errorMessages, "field "+e.Field()+" is invalid")
			}
		}
		return services.BadRequestError(strings.Join(errorMessages, "; "))
	}
	return nil
}

// ProcessPayment обрабатывает оплату от терминала коммерции
func (c *PaymentController) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var dto ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeDomainError(w, services.BadRequestError("malformed json body"))
		return
	}
	if err := c.validateRequest(dto); err != nil {
		writeError(w, err)
		return
	}

	amount, err := utils.ToCents(dto.Amount)
	if err != nil {
		writeDomainError(w, services.BadRequestError(err.Error()))
		return
	}

	// Запрос адресован нам как эквайеру
	if dto.MerchantBankCode != c.config.Bank.Code {
		writeDomainError(w, services.BadRequestError("merchant bank code does not match this bank"))
		return
	}

	routed := dto.IssuerBankCode != c.config.Bank.Code
	_, derr := c.authService.ProcessMerchantPayment(services.MerchantPaymentRequest{
		TransactionID:  dto.TransactionID,
		IssuerBankCode: dto.IssuerBankCode,
		CardNumber:     dto.CardNumber,
		SecurityCode:   dto.SecurityCode,
		CardExpiration: dto.CardExpiration,
		MerchantCode:   dto.MerchantCode,
		Amount:         amount,
	})

	if derr != nil {
		utils.GetMetrics().RecordAuthorization(time.Since(start), routed, derr.Code)
		writeDomainError(w, derr)
		return
	}
	utils.GetMetrics().RecordAuthorization(time.Since(start), routed, "201")
	writeApproved(w)
}

// Authorize обрабатывает входящую авторизацию от банка-эквайера
func (c *PaymentController) Authorize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var dto AuthorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeDomainError(w, services.BadRequestError("malformed json body"))
		return
	}
	if err := c.validateRequest(dto); err != nil {
		writeError(w, err)
		return
	}

	amount, err := utils.ToCents(dto.Amount)
	if err != nil {
		writeDomainError(w, services.BadRequestError(err.Error()))
		return
	}

	_, derr := c.authService.AuthorizeInbound(services.InboundAuthorizationRequest{
		TransactionID:         dto.TransactionID,
		IssuerBankCode:        dto.IssuerBankCode,
		CardNumber:            dto.CardNumber,
		SecurityCode:          dto.SecurityCode,
		CardExpiration:        dto.CardExpiration,
		MerchantBankCode:      dto.MerchantBankCode,
		MerchantAccountNumber: dto.MerchantAccountNumber,
		Amount:                amount,
	})

	if derr != nil {
		utils.GetMetrics().RecordAuthorization(time.Since(start), false, derr.Code)
		writeDomainError(w, derr)
		return
	}
	utils.GetMetrics().RecordAuthorization(time.Since(start), false, "201")
	writeApproved(w)
}

// RegisterRoutes регистрирует маршруты контроллера; router должен быть
// сабрутером с префиксом /api/payments
func (c *PaymentController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/process", c.ProcessPayment).Methods("POST")
	router.HandleFunc("/authorize", c.Authorize).Methods("POST")
}
