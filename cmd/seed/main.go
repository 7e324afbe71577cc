// Command seed loads the default role levels, the complexity matrix, and
// the D365 implementation template into the database. Safe to re-run; rows
// that already exist are left alone.
package main

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/costline/costline/pkg/builder"
	"github.com/costline/costline/pkg/config"
	"github.com/costline/costline/pkg/model"
	"github.com/costline/costline/pkg/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	db, err := postgres.NewStore(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()

	if err := seedRoleLevels(ctx, db.DB()); err != nil {
		logger.Fatal("Failed to seed role levels", zap.Error(err))
	}
	logger.Info("Role levels seeded")

	if err := seedComplexityMatrix(ctx, db.DB()); err != nil {
		logger.Fatal("Failed to seed complexity matrix", zap.Error(err))
	}
	logger.Info("Complexity matrix seeded")

	created, err := seedD365Template(ctx, db.DB())
	if err != nil {
		logger.Fatal("Failed to seed D365 template", zap.Error(err))
	}
	if created {
		logger.Info("D365 template seeded")
	} else {
		logger.Info("D365 template already exists")
	}
}

type roleSeed struct {
	name     string
	level    string
	billRate float64
	costRate float64
}

var defaultRoleLevels = []roleSeed{
	{"Functional Consultant", "Junior", 150, 75},
	{"Functional Consultant", "Mid", 200, 100},
	{"Functional Consultant", "Senior", 275, 137.5},
	{"Technical Consultant", "Junior", 175, 87.5},
	{"Technical Consultant", "Mid", 225, 112.5},
	{"Technical Consultant", "Senior", 300, 150},
	{"Project Manager", "Mid", 250, 125},
	{"Project Manager", "Senior", 325, 162.5},
	{"Solution Architect", "Senior", 350, 175},
	{"Solution Architect", "Principal", 400, 200},
}

// defaultMatrixHours maps role family to hours-per-story-point by tier.
// Roles missing from the table fall back to 8 across the board.
var defaultMatrixHours = map[string]map[model.Complexity]float64{
	"Functional Consultant": {model.ComplexityLow: 4, model.ComplexityMedium: 8, model.ComplexityHigh: 16},
	"Technical Consultant":  {model.ComplexityLow: 6, model.ComplexityMedium: 12, model.ComplexityHigh: 24},
	"Project Manager":       {model.ComplexityLow: 2, model.ComplexityMedium: 4, model.ComplexityHigh: 8},
	"Solution Architect":    {model.ComplexityLow: 3, model.ComplexityMedium: 6, model.ComplexityHigh: 12},
}

func seedRoleLevels(ctx context.Context, db *gorm.DB) error {
	repo := postgres.NewRoleLevelRepository(db)
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}

	present := make(map[string]bool, len(existing))
	for _, roleLevel := range existing {
		present[roleLevel.Name+"/"+roleLevel.Level] = true
	}

	for _, seed := range defaultRoleLevels {
		if present[seed.name+"/"+seed.level] {
			continue
		}
		roleLevel := &model.RoleLevel{
			Name:            seed.name,
			Level:           seed.level,
			DefaultBillRate: seed.billRate,
			DefaultCostRate: seed.costRate,
		}
		if err := repo.Create(ctx, roleLevel); err != nil {
			return err
		}
	}
	return nil
}

func seedComplexityMatrix(ctx context.Context, db *gorm.DB) error {
	roleRepo := postgres.NewRoleLevelRepository(db)
	matrixRepo := postgres.NewComplexityMatrixRepository(db)

	roleLevels, err := roleRepo.List(ctx)
	if err != nil {
		return err
	}
	entries, err := matrixRepo.List(ctx)
	if err != nil {
		return err
	}

	present := make(map[string]bool, len(entries))
	for _, entry := range entries {
		present[entry.RoleLevelID.String()+"/"+string(entry.Complexity)] = true
	}

	tiers := []model.Complexity{model.ComplexityLow, model.ComplexityMedium, model.ComplexityHigh}
	for _, roleLevel := range roleLevels {
		for _, tier := range tiers {
			if present[roleLevel.ID.String()+"/"+string(tier)] {
				continue
			}
			hours := 8.0
			if byTier, ok := defaultMatrixHours[roleLevel.Name]; ok {
				hours = byTier[tier]
			}
			entry := &model.ComplexityMatrixEntry{
				RoleLevelID:        roleLevel.ID,
				Complexity:         tier,
				HoursPerStoryPoint: hours,
			}
			if err := matrixRepo.Create(ctx, entry); err != nil {
				return err
			}
		}
	}
	return nil
}

const d365TemplateName = "D365 Finance & Supply Chain – 18-Month Big-Bang"

type phaseSeed struct {
	name        string
	description string
	activities  []activitySeed
}

type activitySeed struct {
	name  string
	tasks []string
}

var d365Phases = []phaseSeed{
	{"Initiate", "4 weeks", []activitySeed{
		{"Project Mobilization", []string{"Kick-off meetings", "Stakeholder RACI", "Charter sign-off"}},
		{"Governance & PMO Setup", []string{"Steering-committee cadence", "RAID & change control", "Status templates"}},
		{"Environment Provisioning", []string{"Create LCS project", "Deploy Tier-2 & Dev environments", "Set up Azure DevOps"}},
		{"Planning & Onboarding", []string{"Detailed project plan", "Licenses & VPN", "Project-tool training"}},
	}},
	{"Analyze", "12 weeks", []activitySeed{
		{"Business-Process Discovery", []string{"GL/Tax workshops", "Procure-to-Pay workshops", "Order-to-Cash workshops", "WMS workshops", "Production & MRP workshops"}},
		{"Fit–Gap Assessment", []string{"Log gaps", "Classify gaps (config/extension/ISV/process)", "Rough sizing"}},
		{"Data Assessment", []string{"Legacy system inventory", "Data-owner matrix", "Field-mapping draft"}},
		{"Integration Scoping", []string{"Integration landscape diagram", "CRUD matrix", "Middleware strategy"}},
		{"Solution Blueprint", []string{"Draft Solution Architecture document", "Approve Solution Architecture document"}},
	}},
	{"Design", "14 weeks", []activitySeed{
		{"Functional Design Docs", []string{"FDD for Finance", "FDD for SCM", "FDD for WHS", "FDD for Manufacturing", "FDD for Asset Management", "FDD for Project Ops"}},
		{"Technical Design Docs", []string{"Extension specifications", "API contracts", "Batch-job strategy"}},
		{"Data-Migration Design", []string{"ETL tool POC", "Staging design", "Reconciliation rules"}},
		{"Reporting & Analytics Design", []string{"Custom KPI list", "Synapse schema", "Power BI wireframes"}},
		{"Cut-over Strategy Draft", []string{"Dry-run calendar", "Go/no-go criteria"}},
	}},
	{"Build & Configure", "20 weeks", []activitySeed{
		{"Core Configuration", []string{"GL configuration", "Multi-currency setup", "Tax configuration", "AP/AR setup", "Item models", "Advanced WMS", "Production parameters"}},
		{"Extensions / Customizations", []string{"Statutory reports", "External tax plug-in", "Customer-portal APIs"}},
		{"Data-Migration Scripts", []string{"Opening balances", "Item master & BOM", "Open POs/SOs", "Assets"}},
		{"Integration Development", []string{"Shopify orders", "ShipBob ASN/receipt", "ADP payroll journal", "EDI 850/856/810"}},
		{"ISV / Add-On Deployment", []string{"Warehouse handheld app", "Quality Management ISV", "License activation"}},
		{"Environment Management", []string{"Sandbox refreshes", "Cumulative updates"}},
	}},
	{"Test", "14 weeks", []activitySeed{
		{"System & Integration Test", []string{"Execute end-to-end scenarios", "Defect triage & retest"}},
		{"Data Trial Loads", []string{"Trial Load #1", "Trial Load #2", "Reconciliation & cleansing feedback"}},
		{"Security & Performance", []string{"Segregation-of-duties validation", "Load test for 250 WHS users"}},
		{"User-Acceptance Test", []string{"Script preparation", "UAT execution", "Daily defect triage"}},
	}},
	{"Deploy", "6 weeks", []activitySeed{
		{"Cut-over Prep", []string{"Legacy freeze", "Migration checklist", "Contingency plan"}},
		{"Final Data Migration & Go-Live", []string{"Execute final loads", "Reconcile", "Switch interfaces"}},
		{"Hyper-Care Setup", []string{"War-room schedule", "SLA dashboard"}},
	}},
	{"Stabilize & Transition", "8 weeks", []activitySeed{
		{"Hyper-Care Support", []string{"Daily triage", "Production defect resolution", "Integration monitoring"}},
		{"Knowledge Transfer", []string{"Run-books", "Admin training", "Super-user training"}},
		{"Project Close-out", []string{"Lessons-learned", "Benefits snapshot", "Archive project assets"}},
	}},
}

func seedD365Template(ctx context.Context, db *gorm.DB) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.ProjectEstimate{}).
		Where("name = ? AND status = ?", d365TemplateName, model.StatusTemplate).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	spec := builder.EstimateSpec{
		Name:                  d365TemplateName,
		Description:           "Template for D365 Finance & Supply Chain implementation projects",
		Currency:              "USD",
		ContingencyPercentage: 15,
	}

	for phaseIdx, phase := range d365Phases {
		phaseSpec := builder.PhaseSpec{
			Name:        phase.name,
			Description: phase.description,
			OrderIndex:  phaseIdx,
		}
		for activityIdx, activity := range phase.activities {
			activitySpec := builder.ActivitySpec{
				Name:       activity.name,
				OrderIndex: activityIdx,
			}
			for taskIdx, taskName := range activity.tasks {
				activitySpec.Tasks = append(activitySpec.Tasks, builder.TaskSpec{
					Name:           taskName,
					OrderIndex:     taskIdx,
					Complexity:     model.ComplexityMedium,
					StoryPoints:    1,
					EstimatedHours: 8,
				})
			}
			phaseSpec.Activities = append(phaseSpec.Activities, activitySpec)
		}
		spec.Phases = append(spec.Phases, phaseSpec)
	}

	template, err := builder.NewTemplate(spec)
	if err != nil {
		return false, err
	}

	repo := postgres.NewEstimateRepository(db)
	if err := repo.CreateTree(ctx, template); err != nil {
		return false, err
	}
	return true, nil
}
