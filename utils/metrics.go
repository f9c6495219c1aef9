package utils

import (
	"sync"
	"time"
)

// Metrics содержит счетчики платежного контура
type Metrics struct {
	mu sync.RWMutex

	// Метрики авторизаций
	TotalAuthorizations    int64
	ApprovedAuthorizations int64
	RejectedAuthorizations int64
	RoutedAuthorizations   int64 // ушедшие в другой банк
	AuthorizationLatency   time.Duration
	AverageLatency         time.Duration
	LastAuthorizationTime  time.Time

	// Отказы по кодам ответа
	RejectionsByCode map[string]int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			RejectionsByCode: make(map[string]int64),
		}
	})
	return metrics
}

// RecordAuthorization записывает метрики попытки авторизации
func (m *Metrics) RecordAuthorization(duration time.Duration, routed bool, responseCode string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalAuthorizations++
	m.AuthorizationLatency += duration
	m.AverageLatency = m.AuthorizationLatency / time.Duration(m.TotalAuthorizations)
	m.LastAuthorizationTime = time.Now()

	if routed {
		m.RoutedAuthorizations++
	}

	if responseCode == "201" {
		m.ApprovedAuthorizations++
	} else {
		m.RejectedAuthorizations++
		m.RejectionsByCode[responseCode]++
	}
}

// Snapshot возвращает снимок текущих метрик
func (m *Metrics) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byCode := make(map[string]int64, len(m.RejectionsByCode))
	for code, n := range m.RejectionsByCode {
		byCode[code] = n
	}

	return map[string]interface{}{
		"total_authorizations":    m.TotalAuthorizations,
		"approved_authorizations": m.ApprovedAuthorizations,
		"rejected_authorizations": m.RejectedAuthorizations,
		"routed_authorizations":   m.RoutedAuthorizations,
		"average_latency":         m.AverageLatency.String(),
		"last_authorization":      m.LastAuthorizationTime,
		"rejections_by_code":      byCode,
	}
}

// Reset сбрасывает все метрики
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalAuthorizations = 0
	m.ApprovedAuthorizations = 0
	m.RejectedAuthorizations = 0
	m.RoutedAuthorizations = 0
	m.AuthorizationLatency = 0
	m.AverageLatency = 0
	m.RejectionsByCode = make(map[string]int64)
}
