package postgres

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/costline/costline/pkg/config"
	"github.com/costline/costline/pkg/model"
	"github.com/costline/costline/pkg/store"
)

type Store struct {
	db *gorm.DB
}

func NewStore(cfg *config.DatabaseConfig) (*Store, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	return &Store{db: db}, nil
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&model.RoleLevel{},
		&model.ProjectEstimate{},
		&model.Phase{},
		&model.Activity{},
		&model.Task{},
		&model.Assignment{},
		&model.ComplexityMatrixEntry{},
		&model.RateOverride{},
		&model.EstimateVersion{},
	)
}

// translateErr maps gorm errors onto the store sentinel errors handlers
// switch on.
func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrDuplicateKey
	default:
		return err
	}
}

func orderByIndex(db *gorm.DB) *gorm.DB {
	return db.Order("order_index")
}

// preloadTree attaches the estimate's full hierarchy, siblings ordered by
// order_index, assignment role levels included.
func preloadTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Phases", orderByIndex).
		Preload("Phases.Activities", orderByIndex).
		Preload("Phases.Activities.Tasks", orderByIndex).
		Preload("Phases.Activities.Tasks.Assignments").
		Preload("Phases.Activities.Tasks.Assignments.RoleLevel").
		Preload("RateOverrides").
		Preload("RateOverrides.RoleLevel")
}
