package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Hramos93/wholabank/models"
	"github.com/Hramos93/wholabank/services"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// ClientController обслуживает личный кабинет клиента
type ClientController struct {
	clientService *services.ClientService
	cardService   *services.CardService
	db            *gorm.DB
}

// SetCardActiveRequest — запрос на блокировку или разблокировку карты
type SetCardActiveRequest struct {
	Active bool `json:"active"`
}

// NewClientController создает новый экземпляр ClientController
func NewClientController(clientService *services.ClientService, cardService *services.CardService, db *gorm.DB) *ClientController {
	return &ClientController{
		clientService: clientService,
		cardService:   cardService,
		db:            db,
	}
}

// Dashboard возвращает счета клиента с картами
func (c *ClientController) Dashboard(w http.ResponseWriter, r *http.Request) {
	clientID, ok := r.Context().Value("client_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := c.clientService.Dashboard(clientID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

// SetCardActive блокирует или разблокирует карту клиента
func (c *ClientController) SetCardActive(w http.ResponseWriter, r *http.Request) {
	clientID, ok := r.Context().Value("client_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cardID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid card id", http.StatusBadRequest)
		return
	}

	var req SetCardActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Проверяем, что карта принадлежит клиенту
	var card models.Card
	err = c.db.Joins("JOIN accounts ON accounts.id = cards.account_id").
		Where("cards.id = ? AND accounts.client_id = ?", uint(cardID), clientID).
		First(&card).Error
	if err != nil {
		http.Error(w, "Card not found", http.StatusNotFound)
		return
	}

	updated, err := c.cardService.SetCardActive(uint(cardID), req.Active)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, services.DashboardCard{
		Number:     services.MaskCardNumber(updated.Number),
		Expiration: updated.Expiration,
		Active:     updated.Active,
	})
}

// RegisterRoutes регистрирует маршруты контроллера; router должен быть
// сабрутером с префиксом /api
func (c *ClientController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/dashboard", c.Dashboard).Methods("GET")
	router.HandleFunc("/cards/{id}/active", c.SetCardActive).Methods("PUT")
}
