package repository

import (
	"context"

	"github.com/netpointcafe/portal-backend/internal/model"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	ListActive(ctx context.Context, category string) ([]model.CatalogService, error)
	FindByID(ctx context.Context, id uint64) (*model.CatalogService, error)
	Create(ctx context.Context, svc *model.CatalogService) error
	SetDB(db *gorm.DB)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *catalogRepository) ListActive(ctx context.Context, category string) ([]model.CatalogService, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var list []model.CatalogService
	if err := q.Order("category ASC, name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *catalogRepository) FindByID(ctx context.Context, id uint64) (*model.CatalogService, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var svc model.CatalogService
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *catalogRepository) Create(ctx context.Context, svc *model.CatalogService) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(svc).Error
}
