// Package builder constructs project estimates: blank drafts, templates
// from nested request payloads, and deep clones of existing templates. It
// builds complete in-memory trees with fresh identities; callers persist
// the result in a single transaction.
package builder

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/costline/costline/pkg/model"
)

var (
	// ErrInvalidSpec wraps all semantic validation failures.
	ErrInvalidSpec = errors.New("invalid estimate spec")
	// ErrNotTemplate is returned when a clone source does not resolve to a
	// template-status estimate.
	ErrNotTemplate = errors.New("template not found")
)

const defaultCurrency = "USD"

// ValidCurrency reports whether code has the ISO 4217 shape, three
// uppercase letters. The column is varchar(3); anything else must be
// rejected before it reaches the database.
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

type TaskSpec struct {
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	OrderIndex     int              `json:"order_index"`
	Complexity     model.Complexity `json:"complexity"`
	StoryPoints    int              `json:"story_points"`
	EstimatedHours float64          `json:"estimated_hours"`
}

type ActivitySpec struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OrderIndex  int        `json:"order_index"`
	Tasks       []TaskSpec `json:"tasks"`
}

type PhaseSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	OrderIndex  int            `json:"order_index"`
	Activities  []ActivitySpec `json:"activities"`
}

type EstimateSpec struct {
	Name                  string      `json:"name"`
	Description           string      `json:"description"`
	Currency              string      `json:"currency"`
	ContingencyPercentage float64     `json:"contingency_percentage"`
	Phases                []PhaseSpec `json:"phases"`
}

// CloneOverrides replace template values field-by-field; nil fields inherit
// from the template.
type CloneOverrides struct {
	Name                  *string  `json:"name"`
	Description           *string  `json:"description"`
	Currency              *string  `json:"currency"`
	ContingencyPercentage *float64 `json:"contingency_percentage"`
}

// NewBlank builds an empty draft estimate from caller-supplied fields.
func NewBlank(spec EstimateSpec) (*model.ProjectEstimate, error) {
	estimate, err := build(spec, model.StatusDraft)
	if err != nil {
		return nil, err
	}
	return estimate, nil
}

// NewTemplate builds a template estimate, including its full
// phase/activity/task tree from the nested spec.
func NewTemplate(spec EstimateSpec) (*model.ProjectEstimate, error) {
	return build(spec, model.StatusTemplate)
}

func build(spec EstimateSpec, status model.EstimateStatus) (*model.ProjectEstimate, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrInvalidSpec)
	}
	if spec.ContingencyPercentage < 0 {
		return nil, fmt.Errorf("contingency_percentage must not be negative: %w", ErrInvalidSpec)
	}
	currency := spec.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	if !ValidCurrency(currency) {
		return nil, fmt.Errorf("currency must be a three-letter ISO 4217 code: %w", ErrInvalidSpec)
	}

	estimate := &model.ProjectEstimate{
		ID:                    uuid.New(),
		Name:                  spec.Name,
		Description:           spec.Description,
		Currency:              currency,
		ContingencyPercentage: spec.ContingencyPercentage,
		Status:                status,
		Phases:                make([]model.Phase, 0, len(spec.Phases)),
	}

	seenPhase := make(map[int]bool, len(spec.Phases))
	for _, phaseSpec := range spec.Phases {
		if seenPhase[phaseSpec.OrderIndex] {
			return nil, fmt.Errorf("duplicate phase order_index %d: %w", phaseSpec.OrderIndex, ErrInvalidSpec)
		}
		seenPhase[phaseSpec.OrderIndex] = true

		phase := model.Phase{
			ID:                uuid.New(),
			ProjectEstimateID: estimate.ID,
			Name:              phaseSpec.Name,
			Description:       phaseSpec.Description,
			OrderIndex:        phaseSpec.OrderIndex,
			Activities:        make([]model.Activity, 0, len(phaseSpec.Activities)),
		}

		seenActivity := make(map[int]bool, len(phaseSpec.Activities))
		for _, activitySpec := range phaseSpec.Activities {
			if seenActivity[activitySpec.OrderIndex] {
				return nil, fmt.Errorf("duplicate activity order_index %d in phase %q: %w", activitySpec.OrderIndex, phaseSpec.Name, ErrInvalidSpec)
			}
			seenActivity[activitySpec.OrderIndex] = true

			activity := model.Activity{
				ID:          uuid.New(),
				PhaseID:     phase.ID,
				Name:        activitySpec.Name,
				Description: activitySpec.Description,
				OrderIndex:  activitySpec.OrderIndex,
				Tasks:       make([]model.Task, 0, len(activitySpec.Tasks)),
			}

			seenTask := make(map[int]bool, len(activitySpec.Tasks))
			for _, taskSpec := range activitySpec.Tasks {
				if seenTask[taskSpec.OrderIndex] {
					return nil, fmt.Errorf("duplicate task order_index %d in activity %q: %w", taskSpec.OrderIndex, activitySpec.Name, ErrInvalidSpec)
				}
				seenTask[taskSpec.OrderIndex] = true

				if taskSpec.Complexity != "" && !taskSpec.Complexity.Valid() {
					return nil, fmt.Errorf("invalid complexity %q: %w", taskSpec.Complexity, ErrInvalidSpec)
				}
				if taskSpec.StoryPoints < 0 {
					return nil, fmt.Errorf("story_points must not be negative: %w", ErrInvalidSpec)
				}
				if taskSpec.EstimatedHours < 0 {
					return nil, fmt.Errorf("estimated_hours must not be negative: %w", ErrInvalidSpec)
				}

				activity.Tasks = append(activity.Tasks, model.Task{
					ID:             uuid.New(),
					ActivityID:     activity.ID,
					Name:           taskSpec.Name,
					Description:    taskSpec.Description,
					OrderIndex:     taskSpec.OrderIndex,
					Complexity:     taskSpec.Complexity,
					StoryPoints:    taskSpec.StoryPoints,
					EstimatedHours: taskSpec.EstimatedHours,
				})
			}

			phase.Activities = append(phase.Activities, activity)
		}

		estimate.Phases = append(estimate.Phases, phase)
	}

	return estimate, nil
}

// Clone deep-copies a template's phase/activity/task tree into a fresh
// draft estimate. Every node gets a new identity; assignments are never
// copied, a fresh estimate starts unstaffed. Overrides replace template
// header fields one by one.
func Clone(template *model.ProjectEstimate, overrides CloneOverrides) (*model.ProjectEstimate, error) {
	if template == nil || template.Status != model.StatusTemplate {
		return nil, ErrNotTemplate
	}

	estimate := &model.ProjectEstimate{
		ID:                    uuid.New(),
		Name:                  template.Name,
		Description:           template.Description,
		Currency:              template.Currency,
		ContingencyPercentage: template.ContingencyPercentage,
		Status:                model.StatusDraft,
		Phases:                make([]model.Phase, 0, len(template.Phases)),
	}

	if overrides.Name != nil {
		estimate.Name = *overrides.Name
	}
	if overrides.Description != nil {
		estimate.Description = *overrides.Description
	}
	if overrides.Currency != nil {
		if !ValidCurrency(*overrides.Currency) {
			return nil, fmt.Errorf("currency must be a three-letter ISO 4217 code: %w", ErrInvalidSpec)
		}
		estimate.Currency = *overrides.Currency
	}
	if overrides.ContingencyPercentage != nil {
		if *overrides.ContingencyPercentage < 0 {
			return nil, fmt.Errorf("contingency_percentage must not be negative: %w", ErrInvalidSpec)
		}
		estimate.ContingencyPercentage = *overrides.ContingencyPercentage
	}

	for p := range template.Phases {
		templatePhase := &template.Phases[p]
		phase := model.Phase{
			ID:                uuid.New(),
			ProjectEstimateID: estimate.ID,
			Name:              templatePhase.Name,
			Description:       templatePhase.Description,
			OrderIndex:        templatePhase.OrderIndex,
			Activities:        make([]model.Activity, 0, len(templatePhase.Activities)),
		}

		for a := range templatePhase.Activities {
			templateActivity := &templatePhase.Activities[a]
			activity := model.Activity{
				ID:          uuid.New(),
				PhaseID:     phase.ID,
				Name:        templateActivity.Name,
				Description: templateActivity.Description,
				OrderIndex:  templateActivity.OrderIndex,
				Tasks:       make([]model.Task, 0, len(templateActivity.Tasks)),
			}

			for t := range templateActivity.Tasks {
				templateTask := &templateActivity.Tasks[t]
				activity.Tasks = append(activity.Tasks, model.Task{
					ID:             uuid.New(),
					ActivityID:     activity.ID,
					Name:           templateTask.Name,
					Description:    templateTask.Description,
					OrderIndex:     templateTask.OrderIndex,
					Complexity:     templateTask.Complexity,
					StoryPoints:    templateTask.StoryPoints,
					EstimatedHours: templateTask.EstimatedHours,
				})
			}

			phase.Activities = append(phase.Activities, activity)
		}

		estimate.Phases = append(estimate.Phases, phase)
	}

	return estimate, nil
}
