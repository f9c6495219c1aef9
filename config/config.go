package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config представляет конфигурацию приложения. Структура неизменяема после
// загрузки и передается в сервисы явно — никакого чтения окружения из
// бизнес-логики.
type Config struct {
	Server struct {
		Port int
	}
	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
	}
	JWT struct {
		SecretKey string
		ExpiresIn int // в часах
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	// Bank описывает идентичность нашего банка в межбанковской сети.
	Bank struct {
		Code       string // код банка в сети, например "0001"
		BranchCode string // код агентства, например "0001"
		CardBIN    string // BIN наших карт (5 цифр), например "00001"
		Name       string
	}
	// Interbank описывает параметры исходящих вызовов к банкам-эмитентам.
	Interbank struct {
		RequestTimeout time.Duration // жесткий таймаут на запрос к эмитенту
		PendingMaxAge  time.Duration // возраст, после которого PENDING-запись считается зависшей
		SweepInterval  time.Duration // период фоновой выверки журнала
	}
}

// NewConfig создает новый экземпляр конфигурации из переменных окружения
func NewConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	// Настройки сервера
	v.SetDefault("SERVER_PORT", 8080)

	// Настройки базы данных
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "bank_db")

	// Настройки JWT
	v.SetDefault("JWT_SECRET_KEY", "your-secret-key-here")
	v.SetDefault("JWT_EXPIRES_IN", 24)

	// Настройки SMTP
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "your-email@gmail.com")
	v.SetDefault("SMTP_PASSWORD", "your-app-password")
	v.SetDefault("SMTP_FROM", "your-email@gmail.com")

	// Идентичность банка
	v.SetDefault("BANK_CODE", "0001")
	v.SetDefault("BANK_BRANCH_CODE", "0001")
	v.SetDefault("BANK_CARD_BIN", "00001")
	v.SetDefault("BANK_NAME", "WHOLABANK")

	// Межбанковские вызовы
	v.SetDefault("INTERBANK_REQUEST_TIMEOUT", "15s")
	v.SetDefault("INTERBANK_PENDING_MAX_AGE", "10m")
	v.SetDefault("INTERBANK_SWEEP_INTERVAL", "1m")

	cfg := &Config{}
	cfg.Server.Port = v.GetInt("SERVER_PORT")

	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetInt("DB_PORT")
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.DBName = v.GetString("DB_NAME")

	cfg.JWT.SecretKey = v.GetString("JWT_SECRET_KEY")
	cfg.JWT.ExpiresIn = v.GetInt("JWT_EXPIRES_IN")

	cfg.SMTP.Host = v.GetString("SMTP_HOST")
	cfg.SMTP.Port = v.GetInt("SMTP_PORT")
	cfg.SMTP.Username = v.GetString("SMTP_USERNAME")
	cfg.SMTP.Password = v.GetString("SMTP_PASSWORD")
	cfg.SMTP.From = v.GetString("SMTP_FROM")

	cfg.Bank.Code = v.GetString("BANK_CODE")
	cfg.Bank.BranchCode = v.GetString("BANK_BRANCH_CODE")
	cfg.Bank.CardBIN = v.GetString("BANK_CARD_BIN")
	cfg.Bank.Name = v.GetString("BANK_NAME")

	cfg.Interbank.RequestTimeout = v.GetDuration("INTERBANK_REQUEST_TIMEOUT")
	cfg.Interbank.PendingMaxAge = v.GetDuration("INTERBANK_PENDING_MAX_AGE")
	cfg.Interbank.SweepInterval = v.GetDuration("INTERBANK_SWEEP_INTERVAL")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate проверяет обязательные поля конфигурации
func (c *Config) validate() error {
	if len(c.Bank.Code) != 4 {
		return fmt.Errorf("неверный код банка %q: ожидается 4 цифры", c.Bank.Code)
	}
	if len(c.Bank.BranchCode) != 4 {
		return fmt.Errorf("неверный код агентства %q: ожидается 4 цифры", c.Bank.BranchCode)
	}
	if len(c.Bank.CardBIN) != 5 {
		return fmt.Errorf("неверный BIN %q: ожидается 5 цифр", c.Bank.CardBIN)
	}
	if c.Interbank.RequestTimeout <= 0 {
		return fmt.Errorf("неверный таймаут межбанковского запроса: %v", c.Interbank.RequestTimeout)
	}
	return nil
}
