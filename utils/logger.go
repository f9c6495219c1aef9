package utils

import (
	"log"
	"os"
	"time"

	"go.uber.org/zap"
)

var (
	logger  *zap.Logger
	sugared *zap.SugaredLogger
)

func init() {
	// Создаем директорию для логов, если она не существует
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatal("Failed to create log directory:", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout", "logs/app.log"}
	cfg.ErrorOutputPaths = []string{"stderr", "logs/error.log"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.DisableStacktrace = true

	var err error
	logger, err = cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	sugared = logger.Sugar()
}

// Logger возвращает базовый zap-логгер для компонентов, которым нужны
// структурированные поля
func Logger() *zap.Logger {
	return logger
}

// LogInfo логирует информационное сообщение
func LogInfo(format string, v ...interface{}) {
	sugared.Infof(format, v...)
}

// LogError логирует сообщение об ошибке
func LogError(format string, v ...interface{}) {
	sugared.Errorf(format, v...)
}

// LogDebug логирует отладочное сообщение
func LogDebug(format string, v ...interface{}) {
	sugared.Debugf(format, v...)
}

// LogOperation логирует операцию с метриками
func LogOperation(operation string, startTime time.Time, err error) {
	duration := time.Since(startTime)
	if err != nil {
		LogError("Операция %s завершилась ошибкой за %v: %v", operation, duration, err)
	} else {
		LogInfo("Операция %s выполнена за %v", operation, duration)
	}
}
