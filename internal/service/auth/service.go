package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zeecare/hospital-api/internal/config"
	"github.com/zeecare/hospital-api/internal/model"
	"github.com/zeecare/hospital-api/internal/repository"
	apperrors "github.com/zeecare/hospital-api/pkg/errors"
	"github.com/zeecare/hospital-api/pkg/security"
)

// Service implements the session-authentication contract the booking core
// depends on: registration, credential checks and JWT issue/verify.
type Service struct {
	users  repository.UserRepository
	hasher security.PasswordHasher
	cfg    config.JWTConfig
}

func NewService(users repository.UserRepository, hasher security.PasswordHasher, cfg config.JWTConfig) *Service {
	return &Service{users: users, hasher: hasher, cfg: cfg}
}

func (s *Service) RegisterPatient(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if !model.Gender(req.Gender).IsValid() {
		return nil, apperrors.Validation("gender must be Male or Female", nil)
	}
	dob, err := time.Parse(model.DateOnly, req.DOB)
	if err != nil {
		return nil, apperrors.Validation("invalid dob, expected YYYY-MM-DD", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid password", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		DOB:          &dob,
		Gender:       model.Gender(req.Gender),
		PasswordHash: hash,
		Role:         model.RolePatient,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("email already registered", err)
		}
		return nil, apperrors.Persistence("failed to register patient", err)
	}
	return user, nil
}

func (s *Service) AddAdmin(ctx context.Context, req *model.AddAdminRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid password", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("email already registered", err)
		}
		return nil, apperrors.Persistence("failed to create admin", err)
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.User, string, error) {
	role := model.Role(req.Role)
	if role != model.RolePatient && role != model.RoleAdmin {
		return nil, "", apperrors.Validation("role must be Patient or Admin", nil)
	}

	user, err := s.users.GetByEmail(ctx, req.Email, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("invalid email or password", err)
		}
		return nil, "", apperrors.Persistence("failed to look up user", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, "", apperrors.Unauthorized("invalid email or password", err)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return user, token, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Persistence("failed to get user", err)
	}
	return user, nil
}

func (s *Service) GenerateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(time.Duration(s.cfg.ExpiryHours) * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*model.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.Unauthorized("invalid token claims", nil)
	}

	userID, err := uuid.Parse(fmt.Sprint(claims["user_id"]))
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token subject", err)
	}

	return &model.TokenClaims{
		UserID: userID,
		Email:  fmt.Sprint(claims["email"]),
		Role:   model.Role(fmt.Sprint(claims["role"])),
	}, nil
}
