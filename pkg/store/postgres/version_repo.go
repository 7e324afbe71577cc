package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/costline/costline/pkg/model"
	"github.com/costline/costline/pkg/snapshot"
)

type VersionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

// Create snapshots the estimate's current tree and appends it as the next
// version. The estimate row is locked for the duration of the transaction
// so concurrent snapshots of the same estimate serialize; the unique index
// on (project_estimate_id, version_number) backstops the numbering — a
// racer that slips past the lock fails with a duplicate-key error instead
// of reusing a number.
func (r *VersionRepository) Create(ctx context.Context, estimateID uuid.UUID, createdBy, notes string) (*model.EstimateVersion, error) {
	var version *model.EstimateVersion

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked model.ProjectEstimate
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&locked, "id = ?", estimateID).Error; err != nil {
			return err
		}

		var estimate model.ProjectEstimate
		if err := preloadTree(tx).First(&estimate, "id = ?", estimateID).Error; err != nil {
			return err
		}

		data, err := snapshot.Take(&estimate, time.Now())
		if err != nil {
			return err
		}

		var maxVersion int
		if err := tx.Model(&model.EstimateVersion{}).
			Where("project_estimate_id = ?", estimateID).
			Select("COALESCE(MAX(version_number), 0)").
			Scan(&maxVersion).Error; err != nil {
			return err
		}

		version = &model.EstimateVersion{
			ID:                uuid.New(),
			ProjectEstimateID: estimateID,
			VersionNumber:     maxVersion + 1,
			SnapshotData:      data,
			CreatedBy:         createdBy,
			Notes:             notes,
		}
		return tx.Create(version).Error
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return version, nil
}

func (r *VersionRepository) List(ctx context.Context, estimateID uuid.UUID) ([]model.EstimateVersion, error) {
	var versions []model.EstimateVersion
	err := r.db.WithContext(ctx).
		Where("project_estimate_id = ?", estimateID).
		Order("version_number").
		Find(&versions).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return versions, nil
}
