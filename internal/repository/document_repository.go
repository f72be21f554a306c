package repository

import (
	"context"

	"github.com/netpointcafe/portal-backend/internal/model"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(ctx context.Context, d *model.SavedDocument) error
	ListByUser(ctx context.Context, uid string) ([]model.SavedDocument, error)
	SetDB(db *gorm.DB)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *documentRepository) Create(ctx context.Context, d *model.SavedDocument) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *documentRepository) ListByUser(ctx context.Context, uid string) ([]model.SavedDocument, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.SavedDocument
	if err := r.db.WithContext(ctx).
		Where("user_uid = ?", uid).
		Order("folder_path ASC, file_name ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
