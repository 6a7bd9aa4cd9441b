package service

import (
	"context"
	"errors"
	"fmt"

	"go-inventory-ledger/internal/apperr"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/jwt"
	"go-inventory-ledger/pkg/validator"

	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned on login with a wrong email or password.
var ErrInvalidCredentials = errors.New("invalid email or password")

type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Role        string `json:"role" validate:"omitempty,oneof=ADMIN MANAGER"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService is the thin collaborator backing user identity: register,
// login, and current-user resolution via the auth middleware.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
}

type authService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, log *zap.Logger) AuthService {
	return &authService{userRepo: userRepo, log: log}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("field %s failed on %s", errs[0].FailedField, errs[0].Tag)
	}

	if existing, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperr.Validationf("email %s is already registered", req.Email)
	} else if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	user := model.NewUser(req.Name, req.Email, req.PhoneNumber, model.UserRole(req.Role))
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validationf("field %s failed on %s", errs[0].FailedField, errs[0].Tag)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}
