package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/costline/costline/pkg/model"
	"github.com/costline/costline/pkg/snapshot"
	"github.com/costline/costline/pkg/store"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// setupTestDB connects to a local postgres and migrates the schema into a
// disposable search_path so each test runs isolated and leaves nothing
// behind. Skipped when no server is reachable; the locking and unique-index
// behavior under test only exists in a real database.
func setupTestDB(t *testing.T) *Store {
	t.Helper()

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getenv("COSTLINE_TEST_DB_HOST", "127.0.0.1"),
		getenv("COSTLINE_TEST_DB_PORT", "5432"),
		getenv("COSTLINE_TEST_DB_USER", "postgres"),
		getenv("COSTLINE_TEST_DB_PASSWORD", "postgres"),
		getenv("COSTLINE_TEST_DB_NAME", "costline_test"),
	)

	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}

	schema := fmt.Sprintf("test_costline_%d", time.Now().UnixNano()%1000000)
	if err := setupDB.Exec("CREATE SCHEMA " + schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if sqlDB, err := setupDB.DB(); err == nil {
		sqlDB.Close()
	}

	db, err := gorm.Open(postgres.Open(baseDSN+" search_path="+schema), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("connect with test schema: %v", err)
	}

	s := &Store{db: db}
	if err := s.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
		cleanDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return
		}
		cleanDB.Exec("DROP SCHEMA IF EXISTS " + schema + " CASCADE")
		if sqlDB, err := cleanDB.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return s
}

func seedEstimateTree(t *testing.T, s *Store) *model.ProjectEstimate {
	t.Helper()

	role := &model.RoleLevel{
		ID:              uuid.New(),
		Name:            "Technical Consultant",
		Level:           "Senior",
		DefaultBillRate: 300,
		DefaultCostRate: 150,
	}
	if err := s.DB().Create(role).Error; err != nil {
		t.Fatalf("seed role level: %v", err)
	}

	estimate := &model.ProjectEstimate{
		ID:                    uuid.New(),
		Name:                  "Rollout",
		Currency:              "USD",
		ContingencyPercentage: 10,
		Status:                model.StatusDraft,
		Phases: []model.Phase{
			{
				ID:         uuid.New(),
				Name:       "Analyze",
				OrderIndex: 0,
				Activities: []model.Activity{
					{
						ID:         uuid.New(),
						Name:       "Workshops",
						OrderIndex: 0,
						Tasks: []model.Task{
							{
								ID:             uuid.New(),
								Name:           "GL workshops",
								OrderIndex:     0,
								EstimatedHours: 16,
								Assignments: []model.Assignment{
									{ID: uuid.New(), RoleLevelID: role.ID, Hours: 12},
								},
							},
						},
					},
				},
			},
		},
	}

	repo := NewEstimateRepository(s.DB())
	if err := repo.CreateTree(context.Background(), estimate); err != nil {
		t.Fatalf("seed estimate tree: %v", err)
	}
	return estimate
}

// Version numbers start at 1 and increment without gaps or repeats.
func TestVersionNumbersSequential(t *testing.T) {
	s := setupTestDB(t)
	estimate := seedEstimateTree(t, s)
	repo := NewVersionRepository(s.DB())
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		version, err := repo.Create(ctx, estimate.ID, "tester", "")
		if err != nil {
			t.Fatalf("Create version %d: %v", want, err)
		}
		if version.VersionNumber != want {
			t.Fatalf("expected version number %d, got %d", want, version.VersionNumber)
		}
	}

	versions, err := repo.List(ctx, estimate.ID)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(versions) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(versions))
	}
	for i, version := range versions {
		if version.VersionNumber != i+1 {
			t.Fatalf("expected version %d at index %d, got %d", i+1, i, version.VersionNumber)
		}
	}

	snap, err := snapshot.Restore(versions[0].SnapshotData)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if snap.Estimate.Name != "Rollout" {
		t.Fatalf("expected snapshot of seeded estimate, got %q", snap.Estimate.Name)
	}
	if len(snap.Estimate.Phases) != 1 || len(snap.Estimate.Phases[0].Activities[0].Tasks[0].Assignments) != 1 {
		t.Fatal("expected snapshot to carry the full tree")
	}
}

func TestVersionCreateUnknownEstimate(t *testing.T) {
	s := setupTestDB(t)
	repo := NewVersionRepository(s.DB())

	_, err := repo.Create(context.Background(), uuid.New(), "tester", "")
	if !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

// The unique index on (project_estimate_id, version_number) backstops the
// numbering: a writer that reuses a number fails as a duplicate key, it
// never silently overwrites or forks the history.
func TestVersionNumberUniqueIndex(t *testing.T) {
	s := setupTestDB(t)
	estimate := seedEstimateTree(t, s)
	repo := NewVersionRepository(s.DB())

	if _, err := repo.Create(context.Background(), estimate.ID, "tester", ""); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	dup := &model.EstimateVersion{
		ID:                uuid.New(),
		ProjectEstimateID: estimate.ID,
		VersionNumber:     1,
		SnapshotData:      model.SnapshotData(`{}`),
	}
	err := translateErr(s.DB().Create(dup).Error)
	if !errors.Is(err, store.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

// Concurrent snapshots of one estimate serialize on the row lock; both
// succeed with distinct consecutive numbers.
func TestVersionCreateConcurrent(t *testing.T) {
	s := setupTestDB(t)
	estimate := seedEstimateTree(t, s)
	repo := NewVersionRepository(s.DB())

	const writers = 2
	numbers := make(chan int, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			version, err := repo.Create(context.Background(), estimate.ID, "racer", "")
			if err != nil {
				t.Errorf("Create error: %v", err)
				return
			}
			numbers <- version.VersionNumber
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int]bool, writers)
	for n := range numbers {
		if seen[n] {
			t.Fatalf("version number %d assigned twice", n)
		}
		seen[n] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("expected version numbers 1 and 2, got %v", seen)
	}
}
