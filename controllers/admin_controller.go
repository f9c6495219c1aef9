package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Hramos93/wholabank/services"
	"github.com/Hramos93/wholabank/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// AdminController обслуживает административный контур: справочник
// банков, реестр коммерций, сверку и метрики
type AdminController struct {
	directory  *services.DirectoryService
	merchants  *services.MerchantService
	settlement *services.SettlementService
	validate   *validator.Validate
}

// RegisterBankRequest — запрос на добавление банка в справочник
type RegisterBankRequest struct {
	Code     string `json:"code" validate:"required,len=4"`
	Name     string `json:"name" validate:"required,max=100"`
	TaxID    string `json:"tax_id" validate:"omitempty,max=20"`
	Endpoint string `json:"endpoint" validate:"required,max=255"`
}

// CreateMerchantRequest — запрос на регистрацию коммерции
type CreateMerchantRequest struct {
	Code          string `json:"code" validate:"required,max=50"`
	Name          string `json:"name" validate:"required,max=100"`
	AccountNumber string `json:"account_number" validate:"required,len=20"`
}

// SetMerchantActiveRequest — запрос на смену активности коммерции
type SetMerchantActiveRequest struct {
	Active bool `json:"active"`
}

// NewAdminController создает новый экземпляр AdminController
func NewAdminController(directory *services.DirectoryService, merchants *services.MerchantService, settlement *services.SettlementService) *AdminController {
	return &AdminController{
		directory:  directory,
		merchants:  merchants,
		settlement: settlement,
		validate:   validator.New(),
	}
}

// Panel возвращает сводку по сущностям банка
func (c *AdminController) Panel(w http.ResponseWriter, r *http.Request) {
	stats, err := c.directory.PanelStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// RegisterBank добавляет банк-участник в справочник сети
func (c *AdminController) RegisterBank(w http.ResponseWriter, r *http.Request) {
	var req RegisterBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		http.Error(w, err.(validator.ValidationErrors).Error(), http.StatusBadRequest)
		return
	}

	entry, err := c.directory.RegisterBank(req.Code, req.Name, req.TaxID, req.Endpoint)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListBanks возвращает справочник участников сети
func (c *AdminController) ListBanks(w http.ResponseWriter, r *http.Request) {
	entries, err := c.directory.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// CreateMerchant регистрирует коммерцию
func (c *AdminController) CreateMerchant(w http.ResponseWriter, r *http.Request) {
	var req CreateMerchantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		http.Error(w, err.(validator.ValidationErrors).Error(), http.StatusBadRequest)
		return
	}

	merchant, err := c.merchants.CreateMerchant(req.Code, req.Name, req.AccountNumber)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, merchant)
}

// ListMerchants возвращает реестр коммерций
func (c *AdminController) ListMerchants(w http.ResponseWriter, r *http.Request) {
	merchants, err := c.merchants.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, merchants)
}

// SetMerchantActive включает или отключает эквайринг коммерции
func (c *AdminController) SetMerchantActive(w http.ResponseWriter, r *http.Request) {
	var req SetMerchantActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	merchant, err := c.merchants.SetActive(mux.Vars(r)["code"], req.Active)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, merchant)
}

// SettlementReport строит XML-отчет по журналу за период. Параметры
// from и to — RFC3339, по умолчанию последние сутки.
func (c *AdminController) SettlementReport(w http.ResponseWriter, r *http.Request) {
	to := time.Now()
	from := to.Add(-24 * time.Hour)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "Invalid from parameter", http.StatusBadRequest)
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "Invalid to parameter", http.StatusBadRequest)
			return
		}
		to = parsed
	}

	report, err := c.settlement.SettlementReport(from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report))
}

// Metrics возвращает счетчики авторизаций
func (c *AdminController) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.GetMetrics().Snapshot())
}

// RegisterRoutes регистрирует маршруты контроллера; router должен быть
// сабрутером с префиксом /api/admin
func (c *AdminController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/panel", c.Panel).Methods("GET")
	router.HandleFunc("/banks", c.RegisterBank).Methods("POST")
	router.HandleFunc("/banks", c.ListBanks).Methods("GET")
	router.HandleFunc("/merchants", c.CreateMerchant).Methods("POST")
	router.HandleFunc("/merchants", c.ListMerchants).Methods("GET")
	router.HandleFunc("/merchants/{code}/active", c.SetMerchantActive).Methods("PUT")
	router.HandleFunc("/settlement/report", c.SettlementReport).Methods("GET")
	router.HandleFunc("/metrics", c.Metrics).Methods("GET")
}
