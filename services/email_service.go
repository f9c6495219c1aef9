package services

import (
	"fmt"
	"time"

	"github.com/Hramos93/wholabank/config"
	"github.com/Hramos93/wholabank/utils"
	"gopkg.in/gomail.v2"
)

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer *gomail.Dialer
	from   string
	config *config.Config
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
		config: cfg,
	}
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %v", err)
	}

	return nil
}

// SendPaymentNotification отправляет уведомление о списании по карте.
// Сбой отправки не влияет на исход авторизации: ошибка только логируется.
func (s *EmailService) SendPaymentNotification(to, maskedCard, merchantName string, amount int64) {
	subject := "Уведомление об оплате картой"
	body := fmt.Sprintf(`
		<h2>Оплата картой</h2>
		<p>Карта: %s</p>
		<p>Получатель: %s</p>
		<p>Сумма: %s</p>
		<p>Дата: %s</p>
	`, maskedCard, merchantName, utils.FormatCents(amount), time.Now().Format("02.01.2006 15:04:05"))

	if err := s.SendEmail(to, subject, body); err != nil {
		utils.LogError("Не удалось отправить уведомление об оплате: %v", err)
	}
}

// SendCardIssuedNotification отправляет уведомление о выпуске карты
func (s *EmailService) SendCardIssuedNotification(to, maskedCard, accountNumber string) {
	subject := "Ваша карта выпущена"
	body := fmt.Sprintf(`
		<h2>Карта выпущена</h2>
		<p>Карта: %s</p>
		<p>Счет: %s</p>
		<p>Спасибо, что выбрали наш банк!</p>
	`, maskedCard, accountNumber)

	if err := s.SendEmail(to, subject, body); err != nil {
		utils.LogError("Не удалось отправить уведомление о выпуске карты: %v", err)
	}
}
