package service

import (
	"context"
	"errors"

	"github.com/netpointcafe/portal-backend/internal/model"
	"github.com/netpointcafe/portal-backend/internal/repository"
	"gorm.io/gorm"
)

type CatalogReadService interface {
	List(ctx context.Context, category string) ([]model.CatalogService, error)
	Get(ctx context.Context, id uint64) (*model.CatalogService, error)
}

type catalogReadService struct {
	repo repository.CatalogRepository
}

func NewCatalogReadService(repo repository.CatalogRepository) CatalogReadService {
	return &catalogReadService{repo: repo}
}

func (s *catalogReadService) List(ctx context.Context, category string) ([]model.CatalogService, error) {
	return s.repo.ListActive(ctx, category)
}

func (s *catalogReadService) Get(ctx context.Context, id uint64) (*model.CatalogService, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return svc, nil
}
