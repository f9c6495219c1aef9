package controllers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/Hramos93/wholabank/config"
	"github.com/Hramos93/wholabank/models"
	"github.com/Hramos93/wholabank/services"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

// AuthController обрабатывает регистрацию и вход клиентов
type AuthController struct {
	clientService *services.ClientService
	validate      *validator.Validate
	config        *config.Config
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInResponse struct {
	Token string `json:"token"`
}

type SignUpRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=NATURAL JURIDICAL"`
	FullName   string `json:"full_name" validate:"required,min=2,max=100"`
	NationalID string `json:"national_id" validate:"omitempty,min=6,max=20"`
	TaxID      string `json:"tax_id" validate:"omitempty,min=6,max=20"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,password"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
}

type SignUpResponse struct {
	Token  string `json:"token"`
	Client struct {
		ID       uint   `json:"id"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	} `json:"client"`
}

// NewAuthController создает новый экземпляр AuthController
func NewAuthController(clientService *services.ClientService, cfg *config.Config) *AuthController {
	validate := validator.New()

	// Регистрация кастомной валидации для пароля
	validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		// Проверка на наличие хотя бы одной цифры
		hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
		// Проверка на наличие хотя бы одной заглавной буквы
		hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
		// Проверка на наличие хотя бы одной строчной буквы
		hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)

		return hasNumber && hasUpper && hasLower
	})

	return &AuthController{
		clientService: clientService,
		validate:      validate,
		config:        cfg,
	}
}

// SignUp регистрирует клиента: вместе с клиентом открывается счет и
// выпускается карта
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация запроса
	if err := c.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		http.Error(w, validationErrors.Error(), http.StatusBadRequest)
		return
	}

	client, err := c.clientService.Register(services.RegisterClientRequest{
		Kind:       models.PersonKind(req.Kind),
		FullName:   req.FullName,
		NationalID: req.NationalID,
		TaxID:      req.TaxID,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := c.generateToken(client)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	response := SignUpResponse{Token: token}
	response.Client.ID = client.ID
	response.Client.FullName = client.FullName
	response.Client.Email = client.Email

	writeJSON(w, http.StatusCreated, response)
}

// SignIn обрабатывает вход клиента
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация запроса
	if err := c.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		http.Error(w, validationErrors.Error(), http.StatusBadRequest)
		return
	}

	client, err := c.clientService.Authenticate(req.Email, req.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := c.generateToken(client)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, SignInResponse{Token: token})
}

// generateToken создает JWT токен
func (c *AuthController) generateToken(client *models.Client) (string, error) {
	expirationTime := time.Now().Add(time.Duration(c.config.JWT.ExpiresIn) * time.Hour)
	claims := jwt.MapClaims{
		"client_id": client.ID,
		"email":     client.Email,
		"is_admin":  client.IsAdmin,
		"exp":       expirationTime.Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.config.JWT.SecretKey))
}

// RegisterRoutes регистрирует маршруты контроллера
func (c *AuthController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/register", c.SignUp).Methods("POST")
	router.HandleFunc("/api/auth/login", c.SignIn).Methods("POST")
}
