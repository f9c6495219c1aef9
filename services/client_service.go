package services

import (
	"errors"

	"github.com/Hramos93/wholabank/config"
	"github.com/Hramos93/wholabank/models"
	"github.com/Hramos93/wholabank/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ClientService отвечает за регистрацию клиентов и сборку дашборда
type ClientService struct {
	db       *gorm.DB
	cfg      *config.Config
	accounts *AccountService
	cards    *CardService
	email    *EmailService
}

// RegisterClientRequest — данные регистрации. Для физического лица
// обязательна cedula, для юридического — RIF.
type RegisterClientRequest struct {
	Kind       models.PersonKind
	FullName   string
	NationalID string
	TaxID      string
	Email      string
	Password   string
	Phone      string
}

// DashboardAccount — счет клиента с его картами для личного кабинета
type DashboardAccount struct {
	Number  string          `json:"number"`
	Kind    string          `json:"kind"`
	Balance string          `json:"balance"`
	Cards   []DashboardCard `json:"cards"`
}

// DashboardCard — карта в личном кабинете, номер замаскирован
type DashboardCard struct {
	Number     string `json:"number"`
	Expiration string `json:"expiration"`
	Active     bool   `json:"active"`
}

// NewClientService создает новый экземпляр ClientService
func NewClientService(db *gorm.DB, cfg *config.Config, accounts *AccountService, cards *CardService, email *EmailService) *ClientService {
	return &ClientService{db: db, cfg: cfg, accounts: accounts, cards: cards, email: email}
}

// Register регистрирует клиента и атомарно открывает ему расчетный счет
// с выпущенной к нему картой. Либо создается все, либо ничего.
func (s *ClientService) Register(req RegisterClientRequest) (*models.Client, error) {
	// Проверяем занятость email
	var existing models.Client
	if err := s.db.Where("LOWER(email) = LOWER(?)", req.Email).First(&existing).Error; err == nil {
		return nil, RegistrationError(CodeRegEmailTaken, "email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var nationalID *string
	taxID := req.TaxID

	switch req.Kind {
	case models.PersonKindNatural:
		if req.NationalID == "" {
			return nil, RegistrationError(CodeRegMissingCedula, "cedula is required for natural clients")
		}
		if err := s.db.Where("national_id = ?", req.NationalID).First(&existing).Error; err == nil {
			return nil, RegistrationError(CodeRegCedulaTaken, "cedula is already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		nationalID = &req.NationalID
		// Фискальный номер физического лица выводится из cedula
		taxID = "V-" + req.NationalID
	case models.PersonKindJuridical:
		if req.TaxID == "" {
			return nil, RegistrationError(CodeRegMissingTaxID, "RIF is required for juridical clients")
		}
	default:
		return nil, RegistrationError(CodeRegMissingTaxID, "unknown client kind")
	}

	if err := s.db.Where("tax_id = ?", taxID).First(&existing).Error; err == nil {
		return nil, RegistrationError(CodeRegTaxIDTaken, "tax id is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		Kind:       req.Kind,
		FullName:   req.FullName,
		NationalID: nationalID,
		TaxID:      taxID,
		Email:      req.Email,
		Password:   string(hashedPassword),
		Phone:      req.Phone,
	}

	var card *models.Card
	var account *models.Account
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(client).Error; err != nil {
			return err
		}
		account, err = s.accounts.CreateAccount(tx, client.ID, models.AccountKindChecking)
		if err != nil {
			return err
		}
		card, err = s.cards.IssueCard(tx, account.ID)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Зарегистрирован клиент %s, счет %s", client.Email, account.Number)
	if s.email != nil {
		s.email.SendCardIssuedNotification(client.Email, MaskCardNumber(card.Number), account.Number)
	}
	return client, nil
}

// Authenticate проверяет учетные данные и возвращает клиента
func (s *ClientService) Authenticate(email, password string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("LOWER(TRIM(email)) = LOWER(TRIM(?))", email).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.Password), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return &client, nil
}

// FindByID ищет клиента по ID
func (s *ClientService) FindByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("client not found")
		}
		return nil, err
	}
	return &client, nil
}

// Dashboard собирает счета клиента с картами для личного кабинета
func (s *ClientService) Dashboard(clientID uint) ([]DashboardAccount, error) {
	var accounts []models.Account
	if err := s.db.Preload("Cards").Where("client_id = ?", clientID).Find(&accounts).Error; err != nil {
		return nil, err
	}

	result := make([]DashboardAccount, 0, len(accounts))
	for _, account := range accounts {
		entry := DashboardAccount{
			Number:  account.Number,
			Kind:    string(account.Kind),
			Balance: utils.FormatCents(account.Balance),
			Cards:   make([]DashboardCard, 0, len(account.Cards)),
		}
		for _, card := range account.Cards {
			entry.Cards = append(entry.Cards, DashboardCard{
				Number:     MaskCardNumber(card.Number),
				Expiration: card.Expiration,
				Active:     card.Active,
			})
		}
		result = append(result, entry)
	}
	return result, nil
}
