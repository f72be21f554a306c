package service

import (
	"context"
	"errors"
	"strings"

	"github.com/netpointcafe/portal-backend/internal/model"
	"github.com/netpointcafe/portal-backend/internal/repository"
	"gorm.io/gorm"
)

type ProfileService interface {
	Get(ctx context.Context, uid string) (*model.Profile, error)
	Upsert(ctx context.Context, uid string, fullName, username, phone *string) (*model.Profile, error)
	IsStaff(ctx context.Context, uid string) (bool, error)
}

type profileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) Get(ctx context.Context, uid string) (*model.Profile, error) {
	p, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *profileService) Upsert(ctx context.Context, uid string, fullName, username, phone *string) (*model.Profile, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	if fullName != nil {
		trimmed := strings.TrimSpace(*fullName)
		if len(trimmed) > 255 {
			return nil, errors.New("full name too long")
		}
		fullName = &trimmed
	}
	p := &model.Profile{
		UID:      uid,
		FullName: fullName,
		Username: username,
		Phone:    phone,
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.FindByUID(ctx, uid)
}

func (s *profileService) IsStaff(ctx context.Context, uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	return s.repo.HasStaffRole(ctx, uid)
}
