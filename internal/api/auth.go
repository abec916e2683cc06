package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"asha-backend/internal/auth"
	"asha-backend/internal/database"
	"asha-backend/pkg/api"
)

type AuthService struct {
	db       *gorm.DB
	issuer   *auth.TokenIssuer
	validate *validator.Validate
}

func NewAuthService(db *gorm.DB, issuer *auth.TokenIssuer) *AuthService {
	return &AuthService{
		db:       db,
		issuer:   issuer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *AuthService) AddRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", RestHandler(s.Signup))
		r.Post("/login", RestHandler(s.Login))
	})
}

func (s *AuthService) Signup(r *http.Request) (any, error) {
	req, err := ParseRequest[api.SignupRequest](r)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, CodedErrorf(http.StatusBadRequest, "invalid signup request: %v", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing database.User
	err = s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, CodedErrorf(http.StatusBadRequest, "an account with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := database.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return nil, nil
}

func (s *AuthService) Login(r *http.Request) (any, error) {
	req, err := ParseRequest[api.LoginRequest](r)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, CodedErrorf(http.StatusBadRequest, "invalid login request: %v", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user database.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusUnauthorized, "invalid email or password")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, CodedErrorf(http.StatusUnauthorized, "invalid email or password")
	}

	token, err := s.issuer.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return api.LoginResponse{Token: token}, nil
}
