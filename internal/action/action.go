// Package action defines the names and payload of UI events.
package action

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Workout view.
const (
	CompleteSet     = "complete-set"
	AddExercise     = "add-exercise"
	RemoveExercise  = "remove-exercise"
	UpdateReps      = "update-reps"
	UpdateWeight    = "update-weight"
	UpdateNotes     = "update-notes"
	AssignWorkout   = "assign-workout"
	SaveProgress    = "save-progress"
	PrevDay         = "prev-day"
	NextDay         = "next-day"
	ToggleTheme     = "toggle-theme"
	UpdateSetting   = "update-setting"
	UpdateDayPlan   = "update-weekly-plan"
	ExportData      = "export-data"
	ImportData      = "import-data"
	ClearData       = "clear-data"
	StartOnboarding = "start-onboarding"
)

// Builder.
const (
	CreateNewWorkout      = "create-new-workout"
	EditWorkout           = "edit-workout"
	SaveWorkout           = "save-workout"
	CancelBuilder         = "cancel-builder"
	BuilderAddExercise    = "builder-add-exercise"
	BuilderRemoveExercise = "builder-remove-exercise"
	BuilderUpdateExercise = "builder-update-exercise"
	BuilderMoveExercise   = "builder-move-exercise"
	BuilderRename         = "builder-rename"
	FilterCategory        = "filter-category"
)

// History.
const (
	PrevMonth         = "prev-month"
	NextMonth         = "next-month"
	SelectDate        = "select-date"
	ToggleHistoryView = "toggle-history-view"
	ViewWorkoutDetail = "view-workout-detail"
	RepeatWorkout     = "repeat-workout"
)

// Onboarding.
const (
	NextOnboardingStep = "next-onboarding-step"
	PrevOnboardingStep = "prev-onboarding-step"
	ToggleEquipment    = "toggle-equipment"
	ToggleGoal         = "toggle-goal"
	SelectFitnessLevel = "select-fitness-level"
	SelectWorkoutSplit = "select-workout-split"
	CompleteOnboarding = "complete-onboarding"
	CustomizeWorkouts  = "customize-workouts"
)

var (
	// ErrUnknown is returned for an action name nothing handles.
	ErrUnknown = errors.New("unknown action")
	// ErrBadPayload wraps missing or malformed payload fields.
	ErrBadPayload = errors.New("bad action payload")
)

// Payload carries the data attributes of the control that raised the action.
type Payload map[string]string

// String returns the trimmed value of key, or "" if absent.
func (p Payload) String(key string) string {
	return strings.TrimSpace(p[key])
}

// Require returns the value of key or ErrBadPayload if it is empty.
func (p Payload) Require(key string) (string, error) {
	v := p.String(key)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", ErrBadPayload, key)
	}
	return v, nil
}

// Int parses key as a non-negative integer.
func (p Payload) Int(key string) (int, error) {
	v, err := p.Require(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrBadPayload, key)
	}
	return n, nil
}
