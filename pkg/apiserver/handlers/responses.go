package handlers

import (
	"github.com/costline/costline/pkg/model"
)

// Response DTOs mirror the ownership tree: an estimate nests its phases,
// each phase its activities, and so on down to assignments.

type estimateResponse struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	Description           string          `json:"description"`
	Currency              string          `json:"currency"`
	ContingencyPercentage float64         `json:"contingency_percentage"`
	Status                string          `json:"status"`
	CreatedAt             string          `json:"created_at"`
	UpdatedAt             string          `json:"updated_at"`
	Phases                []phaseResponse `json:"phases"`
}

type phaseResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	OrderIndex  int                `json:"order_index"`
	Activities  []activityResponse `json:"activities"`
}

type activityResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	OrderIndex  int            `json:"order_index"`
	Tasks       []taskResponse `json:"tasks"`
}

type taskResponse struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	OrderIndex     int                  `json:"order_index"`
	Complexity     string               `json:"complexity,omitempty"`
	StoryPoints    int                  `json:"story_points"`
	EstimatedHours float64              `json:"estimated_hours"`
	Assignments    []assignmentResponse `json:"assignments"`
}

type assignmentResponse struct {
	ID               string             `json:"id"`
	TaskID           string             `json:"task_id"`
	RoleLevelID      string             `json:"role_level_id"`
	Hours            float64            `json:"hours"`
	BillRateOverride *float64           `json:"bill_rate_override,omitempty"`
	CostRateOverride *float64           `json:"cost_rate_override,omitempty"`
	RoleLevel        *roleLevelResponse `json:"role_level,omitempty"`
}

type roleLevelResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Level           string  `json:"level"`
	DefaultBillRate float64 `json:"default_bill_rate"`
	DefaultCostRate float64 `json:"default_cost_rate"`
	CreatedAt       string  `json:"created_at"`
}

type matrixEntryResponse struct {
	ID                 string             `json:"id"`
	RoleLevelID        string             `json:"role_level_id"`
	Complexity         string             `json:"complexity"`
	HoursPerStoryPoint float64            `json:"hours_per_story_point"`
	RoleLevel          *roleLevelResponse `json:"role_level,omitempty"`
}

type rateOverrideResponse struct {
	ID                string             `json:"id"`
	ProjectEstimateID string             `json:"project_estimate_id"`
	RoleLevelID       string             `json:"role_level_id"`
	BillRate          float64            `json:"bill_rate"`
	CostRate          float64            `json:"cost_rate"`
	RoleLevel         *roleLevelResponse `json:"role_level,omitempty"`
}

type versionResponse struct {
	ID                string             `json:"id"`
	ProjectEstimateID string             `json:"project_estimate_id"`
	VersionNumber     int                `json:"version_number"`
	SnapshotData      model.SnapshotData `json:"snapshot_data"`
	CreatedAt         string             `json:"created_at"`
	CreatedBy         string             `json:"created_by,omitempty"`
	Notes             string             `json:"notes,omitempty"`
}

func mapEstimate(estimate *model.ProjectEstimate) estimateResponse {
	phases := make([]phaseResponse, 0, len(estimate.Phases))
	for p := range estimate.Phases {
		phases = append(phases, mapPhase(&estimate.Phases[p]))
	}
	return estimateResponse{
		ID:                    estimate.ID.String(),
		Name:                  estimate.Name,
		Description:           estimate.Description,
		Currency:              estimate.Currency,
		ContingencyPercentage: estimate.ContingencyPercentage,
		Status:                string(estimate.Status),
		CreatedAt:             formatTime(estimate.CreatedAt),
		UpdatedAt:             formatTime(estimate.UpdatedAt),
		Phases:                phases,
	}
}

func mapPhase(phase *model.Phase) phaseResponse {
	activities := make([]activityResponse, 0, len(phase.Activities))
	for a := range phase.Activities {
		activities = append(activities, mapActivity(&phase.Activities[a]))
	}
	return phaseResponse{
		ID:          phase.ID.String(),
		Name:        phase.Name,
		Description: phase.Description,
		OrderIndex:  phase.OrderIndex,
		Activities:  activities,
	}
}

func mapActivity(activity *model.Activity) activityResponse {
	tasks := make([]taskResponse, 0, len(activity.Tasks))
	for t := range activity.Tasks {
		tasks = append(tasks, mapTask(&activity.Tasks[t]))
	}
	return activityResponse{
		ID:          activity.ID.String(),
		Name:        activity.Name,
		Description: activity.Description,
		OrderIndex:  activity.OrderIndex,
		Tasks:       tasks,
	}
}

func mapTask(task *model.Task) taskResponse {
	assignments := make([]assignmentResponse, 0, len(task.Assignments))
	for i := range task.Assignments {
		assignments = append(assignments, mapAssignment(&task.Assignments[i]))
	}
	return taskResponse{
		ID:             task.ID.String(),
		Name:           task.Name,
		Description:    task.Description,
		OrderIndex:     task.OrderIndex,
		Complexity:     string(task.Complexity),
		StoryPoints:    task.StoryPoints,
		EstimatedHours: task.EstimatedHours,
		Assignments:    assignments,
	}
}

func mapAssignment(assignment *model.Assignment) assignmentResponse {
	response := assignmentResponse{
		ID:               assignment.ID.String(),
		TaskID:           assignment.TaskID.String(),
		RoleLevelID:      assignment.RoleLevelID.String(),
		Hours:            assignment.Hours,
		BillRateOverride: assignment.BillRateOverride,
		CostRateOverride: assignment.CostRateOverride,
	}
	if assignment.RoleLevel != nil {
		mapped := mapRoleLevel(assignment.RoleLevel)
		response.RoleLevel = &mapped
	}
	return response
}

func mapRoleLevel(roleLevel *model.RoleLevel) roleLevelResponse {
	return roleLevelResponse{
		ID:              roleLevel.ID.String(),
		Name:            roleLevel.Name,
		Level:           roleLevel.Level,
		DefaultBillRate: roleLevel.DefaultBillRate,
		DefaultCostRate: roleLevel.DefaultCostRate,
		CreatedAt:       formatTime(roleLevel.CreatedAt),
	}
}

func mapMatrixEntry(entry *model.ComplexityMatrixEntry) matrixEntryResponse {
	response := matrixEntryResponse{
		ID:                 entry.ID.String(),
		RoleLevelID:        entry.RoleLevelID.String(),
		Complexity:         string(entry.Complexity),
		HoursPerStoryPoint: entry.HoursPerStoryPoint,
	}
	if entry.RoleLevel != nil {
		mapped := mapRoleLevel(entry.RoleLevel)
		response.RoleLevel = &mapped
	}
	return response
}

func mapRateOverride(override *model.RateOverride) rateOverrideResponse {
	response := rateOverrideResponse{
		ID:                override.ID.String(),
		ProjectEstimateID: override.ProjectEstimateID.String(),
		RoleLevelID:       override.RoleLevelID.String(),
		BillRate:          override.BillRate,
		CostRate:          override.CostRate,
	}
	if override.RoleLevel != nil {
		mapped := mapRoleLevel(override.RoleLevel)
		response.RoleLevel = &mapped
	}
	return response
}

func mapVersion(version *model.EstimateVersion) versionResponse {
	return versionResponse{
		ID:                version.ID.String(),
		ProjectEstimateID: version.ProjectEstimateID.String(),
		VersionNumber:     version.VersionNumber,
		SnapshotData:      version.SnapshotData,
		CreatedAt:         formatTime(version.CreatedAt),
		CreatedBy:         version.CreatedBy,
		Notes:             version.Notes,
	}
}
