package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/zeecare/hospital-api/internal/model"
	"github.com/zeecare/hospital-api/internal/repository"
	apperrors "github.com/zeecare/hospital-api/pkg/errors"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Service is the read-only doctor directory. Lookups by id are cached;
// directory data changes rarely and the booking flow reads it on every
// checkout and confirmation.
type Service struct {
	repo  repository.UserRepository
	cache *cache.Cache
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, cacheCleanup),
	}
}

// GetDoctor returns the active doctor with the given id
func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	key := "doctor:" + id.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Doctor), nil
	}

	doctor, err := s.repo.GetDoctor(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	s.cache.Set(key, doctor, cache.DefaultExpiration)
	return doctor, nil
}

// ResolveByName resolves a doctor addressed by name and department. Exactly
// one active match is required: zero matches is a not-found, more than one
// is an ambiguity the caller cannot disambiguate.
func (s *Service) ResolveByName(ctx context.Context, firstName, lastName string, department model.Department) (*model.Doctor, error) {
	doctors, err := s.repo.FindDoctorsByName(ctx, firstName, lastName, department)
	if err != nil {
		return nil, fmt.Errorf("failed to find doctors: %w", err)
	}

	switch len(doctors) {
	case 0:
		return nil, apperrors.NotFound("doctor", nil)
	case 1:
		return doctors[0], nil
	default:
		return nil, apperrors.Conflict("doctors conflict, please contact through email or phone", nil)
	}
}

// ListDoctors returns all active doctors
func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
