package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/costline/costline/pkg/model"
)

type EstimateRepository struct {
	db *gorm.DB
}

func NewEstimateRepository(db *gorm.DB) *EstimateRepository {
	return &EstimateRepository{db: db}
}

// CreateTree persists an estimate and its whole phase/activity/task tree in
// one transaction. Either the complete tree commits or nothing does.
func (r *EstimateRepository) CreateTree(ctx context.Context, estimate *model.ProjectEstimate) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(estimate).Error
	})
	return translateErr(err)
}

func (r *EstimateRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProjectEstimate, error) {
	var estimate model.ProjectEstimate
	err := preloadTree(r.db.WithContext(ctx)).First(&estimate, "id = ?", id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &estimate, nil
}

// List returns full trees; templates and working estimates are listed
// through separate calls, matching the two collection endpoints.
func (r *EstimateRepository) List(ctx context.Context, templates bool) ([]model.ProjectEstimate, error) {
	query := preloadTree(r.db.WithContext(ctx)).Order("created_at DESC")
	if templates {
		query = query.Where("status = ?", model.StatusTemplate)
	} else {
		query = query.Where("status <> ?", model.StatusTemplate)
	}

	var estimates []model.ProjectEstimate
	if err := query.Find(&estimates).Error; err != nil {
		return nil, translateErr(err)
	}
	return estimates, nil
}

func (r *EstimateRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&model.ProjectEstimate{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateErr(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *EstimateRepository) CreateRateOverride(ctx context.Context, override *model.RateOverride) error {
	return translateErr(r.db.WithContext(ctx).Create(override).Error)
}

func (r *EstimateRepository) ListRateOverrides(ctx context.Context, estimateID uuid.UUID) ([]model.RateOverride, error) {
	var overrides []model.RateOverride
	err := r.db.WithContext(ctx).
		Preload("RoleLevel").
		Where("project_estimate_id = ?", estimateID).
		Find(&overrides).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return overrides, nil
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Assignments").
		Preload("Assignments.RoleLevel").
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateErr(gorm.ErrRecordNotFound)
	}
	return nil
}
