package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/costline/costline/pkg/model"
)

type RoleLevelRepository struct {
	db *gorm.DB
}

func NewRoleLevelRepository(db *gorm.DB) *RoleLevelRepository {
	return &RoleLevelRepository{db: db}
}

func (r *RoleLevelRepository) Create(ctx context.Context, roleLevel *model.RoleLevel) error {
	return translateErr(r.db.WithContext(ctx).Create(roleLevel).Error)
}

func (r *RoleLevelRepository) List(ctx context.Context) ([]model.RoleLevel, error) {
	var roleLevels []model.RoleLevel
	err := r.db.WithContext(ctx).Order("name, level").Find(&roleLevels).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return roleLevels, nil
}

func (r *RoleLevelRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RoleLevel{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, translateErr(err)
	}
	return count > 0, nil
}

type ComplexityMatrixRepository struct {
	db *gorm.DB
}

func NewComplexityMatrixRepository(db *gorm.DB) *ComplexityMatrixRepository {
	return &ComplexityMatrixRepository{db: db}
}

func (r *ComplexityMatrixRepository) Create(ctx context.Context, entry *model.ComplexityMatrixEntry) error {
	return translateErr(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *ComplexityMatrixRepository) List(ctx context.Context) ([]model.ComplexityMatrixEntry, error) {
	var entries []model.ComplexityMatrixEntry
	err := r.db.WithContext(ctx).Preload("RoleLevel").Find(&entries).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return entries, nil
}
