package estimator

import (
	"github.com/google/uuid"

	"github.com/costline/costline/pkg/model"
)

// Totals carries the rolled-up numbers for one node of the hierarchy.
// ManualHours and AssignedHours are reported side by side: manual hours are
// the sum of task estimated_hours fields, assigned hours the sum of
// assignment hours. Hours is the canonical figure, where each task counts
// its assignment sum when staffed and its manual hours when not.
type Totals struct {
	ManualHours   float64 `json:"manual_hours"`
	AssignedHours float64 `json:"assigned_hours"`
	Hours         float64 `json:"hours"`
	Cost          float64 `json:"cost"`
	Revenue       float64 `json:"revenue"`
}

func (t *Totals) add(other Totals) {
	t.ManualHours += other.ManualHours
	t.AssignedHours += other.AssignedHours
	t.Hours += other.Hours
	t.Cost += other.Cost
	t.Revenue += other.Revenue
}

type TaskTotals struct {
	TaskID uuid.UUID `json:"task_id"`
	Name   string    `json:"name"`
	Totals
}

type ActivityTotals struct {
	ActivityID uuid.UUID `json:"activity_id"`
	Name       string    `json:"name"`
	Totals
	Tasks []TaskTotals `json:"tasks"`
}

type PhaseTotals struct {
	PhaseID uuid.UUID `json:"phase_id"`
	Name    string    `json:"name"`
	Totals
	Activities []ActivityTotals `json:"activities"`
}

type ProjectTotals struct {
	ProjectEstimateID uuid.UUID `json:"project_estimate_id"`
	Currency          string    `json:"currency"`
	Totals
	ContingencyPercentage float64       `json:"contingency_percentage"`
	AdjustedRevenue       float64       `json:"adjusted_revenue"`
	Phases                []PhaseTotals `json:"phases"`
}

// Rollup walks the Phase → Activity → Task → Assignment tree bottom-up and
// sums hours, cost, and revenue at every level. A task with no assignments
// contributes its manual hours and zero cost/revenue. Contingency is
// applied exactly once, to project-level revenue. The estimate must be
// loaded with its full tree, assignment role levels included.
func Rollup(estimate *model.ProjectEstimate) (*ProjectTotals, error) {
	rates := NewRateTable(estimate.RateOverrides)

	project := &ProjectTotals{
		ProjectEstimateID:     estimate.ID,
		Currency:              estimate.Currency,
		ContingencyPercentage: estimate.ContingencyPercentage,
		Phases:                make([]PhaseTotals, 0, len(estimate.Phases)),
	}

	for p := range estimate.Phases {
		phase := &estimate.Phases[p]
		phaseTotals := PhaseTotals{
			PhaseID:    phase.ID,
			Name:       phase.Name,
			Activities: make([]ActivityTotals, 0, len(phase.Activities)),
		}

		for a := range phase.Activities {
			activity := &phase.Activities[a]
			activityTotals := ActivityTotals{
				ActivityID: activity.ID,
				Name:       activity.Name,
				Tasks:      make([]TaskTotals, 0, len(activity.Tasks)),
			}

			for t := range activity.Tasks {
				taskTotals, err := rollupTask(&activity.Tasks[t], rates)
				if err != nil {
					return nil, err
				}
				activityTotals.add(taskTotals.Totals)
				activityTotals.Tasks = append(activityTotals.Tasks, taskTotals)
			}

			phaseTotals.add(activityTotals.Totals)
			phaseTotals.Activities = append(phaseTotals.Activities, activityTotals)
		}

		project.add(phaseTotals.Totals)
		project.Phases = append(project.Phases, phaseTotals)
	}

	project.AdjustedRevenue = project.Revenue * (1 + project.ContingencyPercentage/100)
	return project, nil
}

func rollupTask(task *model.Task, rates RateTable) (TaskTotals, error) {
	totals := TaskTotals{TaskID: task.ID, Name: task.Name}
	totals.ManualHours = task.EstimatedHours

	for i := range task.Assignments {
		assignment := &task.Assignments[i]
		bill, cost, err := ResolveRate(assignment, rates)
		if err != nil {
			return TaskTotals{}, err
		}
		totals.AssignedHours += assignment.Hours
		totals.Cost += assignment.Hours * cost
		totals.Revenue += assignment.Hours * bill
	}

	if len(task.Assignments) > 0 {
		totals.Hours = totals.AssignedHours
	} else {
		totals.Hours = totals.ManualHours
	}

	return totals, nil
}
