package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Hramos93/wholabank/config"
	"github.com/Hramos93/wholabank/controllers"
	"github.com/Hramos93/wholabank/database"
	"github.com/Hramos93/wholabank/middleware"
	"github.com/Hramos93/wholabank/services"
	"github.com/Hramos93/wholabank/utils"
	"github.com/gorilla/mux"
)

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем подключение к базе данных
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Инициализируем сервисы
	emailService := services.NewEmailService(cfg)
	accountService := services.NewAccountService(db.GetDB(), cfg)
	cardService := services.NewCardService(db.GetDB(), cfg)
	clientService := services.NewClientService(db.GetDB(), cfg, accountService, cardService, emailService)
	merchantService := services.NewMerchantService(db.GetDB())
	directoryService := services.NewDirectoryService(db.GetDB())
	routingService := services.NewRoutingService(db.GetDB(), cfg)
	authorizationService := services.NewAuthorizationService(db.GetDB(), cfg, merchantService, routingService, emailService)
	settlementService := services.NewSettlementService(db.GetDB(), cfg)

	// Запускаем фоновую выверку зависших авторизаций
	settlementService.Start()
	utils.LogInfo("Фоновая выверка запущена, интервал %v", cfg.Interbank.SweepInterval)

	// Создаем роутер
	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware)

	// Инициализируем контроллеры
	authController := controllers.NewAuthController(clientService, cfg)
	paymentController := controllers.NewPaymentController(authorizationService, cfg)
	clientController := controllers.NewClientController(clientService, cardService, db.GetDB())
	adminController := controllers.NewAdminController(directoryService, merchantService, settlementService)

	// Платежный контур: терминалы коммерций и банки сети, без JWT
	payments := router.PathPrefix("/api/payments").Subrouter()
	payments.Use(middleware.RateLimit)
	paymentController.RegisterRoutes(payments)

	// Публичные маршруты для аутентификации
	authController.RegisterRoutes(router)

	// Административный контур
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware([]byte(cfg.JWT.SecretKey)))
	admin.Use(middleware.AdminOnly)
	adminController.RegisterRoutes(admin)

	// Личный кабинет клиента
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware([]byte(cfg.JWT.SecretKey)))
	clientController.RegisterRoutes(protected)

	// Запускаем сервер
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	utils.LogInfo("Сервер запущен на порту %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
