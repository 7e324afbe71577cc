package builder

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/costline/costline/pkg/model"
)

func templateSpec() EstimateSpec {
	return EstimateSpec{
		Name:                  "D365 Rollout",
		Currency:              "EUR",
		ContingencyPercentage: 15,
		Phases: []PhaseSpec{
			{
				Name:       "Analyze",
				OrderIndex: 0,
				Activities: []ActivitySpec{
					{
						Name:       "Workshops",
						OrderIndex: 0,
						Tasks: []TaskSpec{
							{Name: "GL workshops", OrderIndex: 0, Complexity: model.ComplexityMedium, StoryPoints: 2, EstimatedHours: 16},
							{Name: "AP workshops", OrderIndex: 1, EstimatedHours: 8},
						},
					},
				},
			},
			{
				Name:       "Design",
				OrderIndex: 1,
				Activities: []ActivitySpec{
					{
						Name:       "Design docs",
						OrderIndex: 0,
						Tasks: []TaskSpec{
							{Name: "FDD for Finance", OrderIndex: 0, Complexity: model.ComplexityHigh, StoryPoints: 3, EstimatedHours: 40},
						},
					},
				},
			},
		},
	}
}

func TestNewBlankDefaults(t *testing.T) {
	estimate, err := NewBlank(EstimateSpec{Name: "Empty"})
	if err != nil {
		t.Fatalf("NewBlank error: %v", err)
	}
	if estimate.Status != model.StatusDraft {
		t.Fatalf("expected draft status, got %q", estimate.Status)
	}
	if estimate.Currency != "USD" {
		t.Fatalf("expected default currency USD, got %q", estimate.Currency)
	}
	if estimate.ContingencyPercentage != 0 {
		t.Fatalf("expected zero contingency, got %v", estimate.ContingencyPercentage)
	}
	if len(estimate.Phases) != 0 {
		t.Fatalf("expected no phases, got %d", len(estimate.Phases))
	}
	if estimate.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
}

func TestNewBlankRequiresName(t *testing.T) {
	if _, err := NewBlank(EstimateSpec{}); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
}

// Currency lands in a varchar(3) column; anything that is not three
// uppercase letters has to fail validation, not the insert.
func TestNewBlankCurrencyValidation(t *testing.T) {
	for _, currency := range []string{"EURO", "usd", "E", "12A"} {
		if _, err := NewBlank(EstimateSpec{Name: "Bad", Currency: currency}); !errors.Is(err, ErrInvalidSpec) {
			t.Fatalf("currency %q: expected ErrInvalidSpec, got %v", currency, err)
		}
	}

	estimate, err := NewBlank(EstimateSpec{Name: "Good", Currency: "EUR"})
	if err != nil {
		t.Fatalf("NewBlank error: %v", err)
	}
	if estimate.Currency != "EUR" {
		t.Fatalf("expected EUR, got %q", estimate.Currency)
	}
}

func TestCloneCurrencyOverrideValidation(t *testing.T) {
	tmpl, err := NewTemplate(templateSpec())
	if err != nil {
		t.Fatalf("NewTemplate error: %v", err)
	}
	currency := "EURO"
	if _, err := Clone(tmpl, CloneOverrides{Currency: &currency}); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
}

func TestNewBlankNegativeContingency(t *testing.T) {
	_, err := NewBlank(EstimateSpec{Name: "Bad", ContingencyPercentage: -5})
	if !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
}

func TestNewTemplateBuildsTree(t *testing.T) {
	tmpl, err := NewTemplate(templateSpec())
	if err != nil {
		t.Fatalf("NewTemplate error: %v", err)
	}
	if tmpl.Status != model.StatusTemplate {
		t.Fatalf("expected template status, got %q", tmpl.Status)
	}
	if len(tmpl.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(tmpl.Phases))
	}

	task := tmpl.Phases[0].Activities[0].Tasks[0]
	if task.ActivityID != tmpl.Phases[0].Activities[0].ID {
		t.Fatal("task not linked to its activity")
	}
	if task.Complexity != model.ComplexityMedium || task.StoryPoints != 2 || task.EstimatedHours != 16 {
		t.Fatalf("task fields not carried: %+v", task)
	}
	if tmpl.Phases[0].ProjectEstimateID != tmpl.ID {
		t.Fatal("phase not linked to estimate")
	}
}

func TestNewTemplateDuplicateOrderIndex(t *testing.T) {
	spec := templateSpec()
	spec.Phases[1].OrderIndex = spec.Phases[0].OrderIndex
	if _, err := NewTemplate(spec); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec for duplicate phase order, got %v", err)
	}

	spec = templateSpec()
	spec.Phases[0].Activities[0].Tasks[1].OrderIndex = 0
	if _, err := NewTemplate(spec); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec for duplicate task order, got %v", err)
	}
}

func TestNewTemplateInvalidComplexity(t *testing.T) {
	spec := templateSpec()
	spec.Phases[0].Activities[0].Tasks[0].Complexity = "extreme"
	if _, err := NewTemplate(spec); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
}

func TestCloneCopiesTree(t *testing.T) {
	tmpl, err := NewTemplate(templateSpec())
	if err != nil {
		t.Fatalf("NewTemplate error: %v", err)
	}
	// staffing on a template must never leak into clones
	tmpl.Phases[0].Activities[0].Tasks[0].Assignments = []model.Assignment{
		{ID: uuid.New(), Hours: 40},
	}

	clone, err := Clone(tmpl, CloneOverrides{})
	if err != nil {
		t.Fatalf("Clone error: %v", err)
	}

	if clone.Status != model.StatusDraft {
		t.Fatalf("expected draft status, got %q", clone.Status)
	}
	if clone.ID == tmpl.ID {
		t.Fatal("clone must get a fresh id")
	}
	if clone.Name != tmpl.Name || clone.Currency != tmpl.Currency || clone.ContingencyPercentage != tmpl.ContingencyPercentage {
		t.Fatal("clone header fields must match template")
	}
	if len(clone.Phases) != len(tmpl.Phases) {
		t.Fatalf("expected %d phases, got %d", len(tmpl.Phases), len(clone.Phases))
	}

	for p := range clone.Phases {
		if clone.Phases[p].ID == tmpl.Phases[p].ID {
			t.Fatal("cloned phase must get a fresh id")
		}
		if clone.Phases[p].Name != tmpl.Phases[p].Name {
			t.Fatal("cloned phase name mismatch")
		}
		for a := range clone.Phases[p].Activities {
			cloneActivity := clone.Phases[p].Activities[a]
			if cloneActivity.ID == tmpl.Phases[p].Activities[a].ID {
				t.Fatal("cloned activity must get a fresh id")
			}
			for _, task := range cloneActivity.Tasks {
				if len(task.Assignments) != 0 {
					t.Fatal("clone must start unstaffed")
				}
				if task.ActivityID != cloneActivity.ID {
					t.Fatal("cloned task must point at cloned activity")
				}
			}
		}
	}
}

func TestCloneOverrides(t *testing.T) {
	tmpl, err := NewTemplate(templateSpec())
	if err != nil {
		t.Fatalf("NewTemplate error: %v", err)
	}

	name := "Contoso Rollout"
	currency := "USD"
	contingency := 20.0
	clone, err := Clone(tmpl, CloneOverrides{Name: &name, Currency: &currency, ContingencyPercentage: &contingency})
	if err != nil {
		t.Fatalf("Clone error: %v", err)
	}

	if clone.Name != name || clone.Currency != currency || clone.ContingencyPercentage != contingency {
		t.Fatalf("overrides not applied: %+v", clone)
	}
	// description was not overridden
	if clone.Description != tmpl.Description {
		t.Fatal("non-overridden field must inherit from template")
	}
}

func TestCloneNegativeContingencyOverride(t *testing.T) {
	tmpl, err := NewTemplate(templateSpec())
	if err != nil {
		t.Fatalf("NewTemplate error: %v", err)
	}
	contingency := -1.0
	if _, err := Clone(tmpl, CloneOverrides{ContingencyPercentage: &contingency}); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
}

func TestCloneRejectsNonTemplate(t *testing.T) {
	draft, err := NewBlank(EstimateSpec{Name: "Draft"})
	if err != nil {
		t.Fatalf("NewBlank error: %v", err)
	}
	if _, err := Clone(draft, CloneOverrides{}); !errors.Is(err, ErrNotTemplate) {
		t.Fatalf("expected ErrNotTemplate, got %v", err)
	}
	if _, err := Clone(nil, CloneOverrides{}); !errors.Is(err, ErrNotTemplate) {
		t.Fatalf("expected ErrNotTemplate for nil, got %v", err)
	}
}
