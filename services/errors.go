package services

import (
	"fmt"
	"net/http"
)

// Коды ошибок платежного контура. Это часть сетевого контракта:
// их разбирают банки-партнеры и терминалы коммерций, менять нельзя.
const (
	CodeBadRequest        = "IERROR_000"  // некорректное тело запроса
	CodeMerchantNotFound  = "IERROR_1001" // коммерция не найдена
	CodeRoutingFailure    = "IERROR_1002" // сбой маршрутизации или отказ эмитента
	CodeCardInactive      = "IERROR_1003" // карта заблокирована
	CodeInsufficientFunds = "IERROR_1004" // недостаточно средств
	CodeCardNotFound      = "IERROR_1005" // карта не найдена либо неверные данные безопасности
	CodeMerchantInactive  = "IERROR_1006" // коммерция отключена
)

// DomainError — типизированная бизнес-ошибка с кодом сетевого
// контракта и HTTP-статусом для ответа. Один вариант на каждый код
// IERROR_*; сервисы возвращают только эти значения, контроллеры
// сериализуют их в {"error": {"code", "message"}}.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Отказы платежного контура. Сообщения свободные, коды фиксированные.
var (
	ErrMerchantNotFound = &DomainError{
		Code:       CodeMerchantNotFound,
		Message:    "Error: no merchant is affiliated with the provided identifier code.",
		HTTPStatus: http.StatusNotFound,
	}
	ErrMerchantInactive = &DomainError{
		Code:       CodeMerchantInactive,
		Message:    "Error: the merchant is not affiliated for acquiring.",
		HTTPStatus: http.StatusNotFound,
	}
	ErrCardNotFound = &DomainError{
		Code:       CodeCardNotFound,
		Message:    "Error: no card was found with the provided data.",
		HTTPStatus: http.StatusNotFound,
	}
	ErrCardInactive = &DomainError{
		Code:       CodeCardInactive,
		Message:    "Error: the card is inoperative.",
		HTTPStatus: http.StatusNotFound,
	}
	ErrSecurityMismatch = &DomainError{
		Code:       CodeCardNotFound,
		Message:    "Error: invalid card security data.",
		HTTPStatus: http.StatusNotFound,
	}
	ErrInsufficientFunds = &DomainError{
		Code:       CodeInsufficientFunds,
		Message:    "Error: the requested amount exceeds the available balance.",
		HTTPStatus: http.StatusNotFound,
	}
)

// BadRequestError строит ошибку некорректного запроса с деталями по полям
func BadRequestError(detail string) *DomainError {
	return &DomainError{
		Code:       CodeBadRequest,
		Message:    "Invalid request format: " + detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

// RoutingError строит ошибку маршрутизации с произвольным сообщением.
// Под этим кодом наружу уходят и отсутствие маршрута, и таймаут, и
// отказ банка-эмитента.
func RoutingError(message string) *DomainError {
	return &DomainError{
		Code:       CodeRoutingFailure,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// InternalError — обезличенная ошибка для неожиданных сбоев; детали
// остаются в логах и не уходят наружу.
func InternalError() *DomainError {
	return &DomainError{
		Code:       "IERROR_500",
		Message:    "Internal error, please try again later.",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Коды ошибок регистрации клиентов и администрирования справочника.
const (
	CodeRegEmailTaken    = "IERROR_REG_01"
	CodeRegMissingCedula = "IERROR_REG_02"
	CodeRegCedulaTaken   = "IERROR_REG_03"
	CodeRegMissingTaxID  = "IERROR_REG_04"
	CodeRegTaxIDTaken    = "IERROR_REG_05"
	CodeDirCodeTaken     = "IERROR_DIR_01"
	CodeDirBadURL        = "IERROR_DIR_02"
)

// RegistrationError строит ошибку регистрации с указанным кодом
func RegistrationError(code, message string) *DomainError {
	return &DomainError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}
