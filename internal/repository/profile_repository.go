package repository

import (
	"context"

	"github.com/netpointcafe/portal-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	Upsert(ctx context.Context, p *model.Profile) error
	FindByUID(ctx context.Context, uid string) (*model.Profile, error)
	FindByUIDs(ctx context.Context, uids []string) ([]model.Profile, error)
	HasStaffRole(ctx context.Context, uid string) (bool, error)
	SetDB(db *gorm.DB)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *profileRepository) Upsert(ctx context.Context, p *model.Profile) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "username", "phone", "updated_at"}),
		}).
		Create(p).Error
}

func (r *profileRepository) FindByUID(ctx context.Context, uid string) (*model.Profile, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var p model.Profile
	if err := r.db.WithContext(ctx).First(&p, "uid = ?", uid).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByUIDs resolves many profiles in one query; the staff console uses it
// instead of a per-conversation lookup.
func (r *profileRepository) FindByUIDs(ctx context.Context, uids []string) ([]model.Profile, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if len(uids) == 0 {
		return nil, nil
	}
	var list []model.Profile
	if err := r.db.WithContext(ctx).
		Where("uid IN ?", uids).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *profileRepository) HasStaffRole(ctx context.Context, uid string) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("user_uid = ? AND role IN ?", uid, []string{model.RoleAdmin, model.RoleStaff}).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
