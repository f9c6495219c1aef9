package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Hramos93/wholabank/services"
)

// errorBody — формат тела ошибки платежного контура. Его разбирают
// банки-партнеры, структура фиксированная.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeJSON сериализует ответ с указанным статусом
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeApproved отвечает одобрением: статус 201 с пустым телом
func writeApproved(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
}

// writeDomainError сериализует бизнес-ошибку в контрактном формате
func writeDomainError(w http.ResponseWriter, derr *services.DomainError) {
	var body errorBody
	body.Error.Code = derr.Code
	body.Error.Message = derr.Message
	writeJSON(w, derr.HTTPStatus, body)
}

// writeError сериализует произвольную ошибку: типизированные уходят со
// своим кодом, остальные обезличиваются
func writeError(w http.ResponseWriter, err error) {
	var derr *services.DomainError
	if errors.As(err, &derr) {
		writeDomainError(w, derr)
		return
	}
	writeDomainError(w, services.InternalError())
}
