// Package builder holds the custom-workout draft and the actions that edit it.
package builder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/meltforce/caltracker/internal/action"
	"github.com/meltforce/caltracker/internal/models"
)

// Host is what the builder needs from the application.
type Host interface {
	State() *models.State
	Persist(ctx context.Context) error
	Navigate(path string)
	Now() time.Time
}

// Messages shown when a draft cannot be saved.
const (
	MsgNoExercises = "Please add at least one exercise to the workout."
	MsgNoName      = "Please enter a workout name."
	MsgSaved       = "Workout saved successfully!"
)

// ErrNoDraft is returned by draft edits when no workout is being built.
var ErrNoDraft = errors.New("no workout is being built")

// ValidationError carries a message for the user; the draft is left intact.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Draft is the workout under construction.
type Draft struct {
	ID        string            `validate:"required"`
	Name      string            `validate:"required"`
	Exercises []models.Exercise `validate:"min=1,dive"`
	// Existing is true when the draft was loaded from a saved template.
	Existing bool
}

// Builder owns at most one draft plus the library filter.
type Builder struct {
	host   Host
	draft  *Draft
	filter string
}

func New(h Host) *Builder {
	return &Builder{host: h, filter: FilterAll}
}

// Actions lists the action names Handle accepts.
func (b *Builder) Actions() []string {
	return []string{
		action.CreateNewWorkout, action.EditWorkout, action.SaveWorkout, action.CancelBuilder,
		action.BuilderAddExercise, action.BuilderRemoveExercise, action.BuilderUpdateExercise,
		action.BuilderMoveExercise, action.BuilderRename, action.FilterCategory,
	}
}

// Handle applies one builder action. Validation failures become a flash message.
func (b *Builder) Handle(ctx context.Context, name string, p action.Payload) (bool, error) {
	var err error
	switch name {
	case action.CreateNewWorkout:
		b.CreateNew()
	case action.EditWorkout:
		var id string
		if id, err = p.Require("workoutId"); err == nil {
			err = b.Edit(id)
		}
	case action.SaveWorkout:
		err = b.Save(ctx)
	case action.CancelBuilder:
		b.draft = nil
	case action.BuilderAddExercise:
		var ex string
		if ex, err = p.Require("exercise"); err == nil {
			err = b.AddExercise(ex)
		}
	case action.BuilderRemoveExercise:
		var i int
		if i, err = p.Int("exerciseIndex"); err == nil {
			err = b.RemoveExercise(i)
		}
	case action.BuilderUpdateExercise:
		var i int
		if i, err = p.Int("exerciseIndex"); err == nil {
			err = b.UpdateExercise(i, p.String("field"), p.String("value"))
		}
	case action.BuilderMoveExercise:
		var i int
		if i, err = p.Int("exerciseIndex"); err == nil {
			delta := 1
			if p.String("direction") == "up" {
				delta = -1
			}
			err = b.MoveExercise(i, delta)
		}
	case action.BuilderRename:
		err = b.Rename(p["value"])
	case action.FilterCategory:
		b.SetFilter(p.String("category"))
	default:
		return false, nil
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		b.host.State().Flash = ve.Message
		return true, nil
	}
	return true, err
}

// CreateNew starts an empty draft and shows the builder.
func (b *Builder) CreateNew() {
	b.draft = &Draft{ID: "custom_" + uuid.NewString(), Name: "New Workout"}
	b.host.Navigate("/builder")
}

// Edit loads a deep copy of the template id into the draft.
func (b *Builder) Edit(id string) error {
	tpl, ok := b.host.State().Templates[id]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrUnknownWorkout, id)
	}
	b.draft = &Draft{
		ID:        id,
		Name:      tpl.Name,
		Exercises: models.CloneExercises(tpl.Exercises),
		Existing:  true,
	}
	b.host.Navigate("/builder")
	return nil
}

// AddExercise appends the named library exercise with no completion state,
// starting a new draft if none exists.
func (b *Builder) AddExercise(name string) error {
	ex, ok := lookup(name)
	if !ok {
		return fmt.Errorf("%w: exercise %q not in library", models.ErrInvalidValue, name)
	}
	if b.draft == nil {
		b.CreateNew()
	}
	ex.CompletedSets = nil
	b.draft.Exercises = append(b.draft.Exercises, ex)
	return nil
}

func (b *Builder) exercise(i int) (*models.Exercise, error) {
	if b.draft == nil {
		return nil, ErrNoDraft
	}
	if i < 0 || i >= len(b.draft.Exercises) {
		return nil, fmt.Errorf("%w: exercise %d", models.ErrIndexOutOfRange, i)
	}
	return &b.draft.Exercises[i], nil
}

// RemoveExercise deletes exercise i from the draft.
func (b *Builder) RemoveExercise(i int) error {
	if _, err := b.exercise(i); err != nil {
		return err
	}
	b.draft.Exercises = slices.Delete(b.draft.Exercises, i, i+1)
	return nil
}

// UpdateExercise sets one editable field (sets, weight, type) of exercise i.
func (b *Builder) UpdateExercise(i int, field, value string) error {
	ex, err := b.exercise(i)
	if err != nil {
		return err
	}
	switch field {
	case "sets":
		ex.Sets = value
		if _, target := ex.SetScheme(); target > 0 && strings.Contains(value, "x") {
			ex.TargetReps = target
		}
	case "weight":
		ex.Weight = value
	case "type":
		t := models.ExerciseType(value)
		if t != models.Bodyweight && t != models.Weighted {
			return fmt.Errorf("%w: type %q", models.ErrInvalidValue, value)
		}
		ex.Type = t
		if t == models.Bodyweight {
			ex.Weight = ""
		}
	case "targetReps":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: targetReps %q", models.ErrInvalidValue, value)
		}
		ex.TargetReps = n
	default:
		return fmt.Errorf("%w: field %q", models.ErrInvalidValue, field)
	}
	return nil
}

// MoveExercise shifts exercise i by delta positions, clamped to the list bounds.
func (b *Builder) MoveExercise(i, delta int) error {
	if _, err := b.exercise(i); err != nil {
		return err
	}
	j := max(0, min(len(b.draft.Exercises)-1, i+delta))
	ex := b.draft.Exercises
	ex[i], ex[j] = ex[j], ex[i]
	return nil
}

// Rename sets the draft's name as typed.
func (b *Builder) Rename(name string) error {
	if b.draft == nil {
		return ErrNoDraft
	}
	b.draft.Name = name
	return nil
}

// SetFilter selects a library category; unknown values show everything.
func (b *Builder) SetFilter(category string) {
	if !slices.Contains(Categories, category) {
		category = FilterAll
	}
	b.filter = category
}

// Save validates the draft, stores it as a custom template, persists and
// clears the draft.
func (b *Builder) Save(ctx context.Context) error {
	if b.draft == nil {
		return &ValidationError{Message: MsgNoExercises}
	}
	d := *b.draft
	d.Name = strings.TrimSpace(d.Name)
	if err := validateDraft(d); err != nil {
		return err
	}

	state := b.host.State()
	now := b.host.Now()
	tpl := &models.WorkoutTemplate{
		Name:      d.Name,
		Exercises: make([]models.Exercise, len(d.Exercises)),
		IsCustom:  true,
		CreatedAt: &now,
	}
	for i, e := range d.Exercises {
		tpl.Exercises[i] = e.Fresh()
	}
	if prev, ok := state.Templates[d.ID]; ok {
		tpl.Category = prev.Category
	}
	state.Templates[d.ID] = tpl

	if err := b.host.Persist(ctx); err != nil {
		return err
	}
	b.draft = nil
	state.Flash = MsgSaved
	return nil
}

func validateDraft(d Draft) error {
	err := models.Validate(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msg := ""
	for _, fe := range verrs {
		switch {
		case fe.Field() == "Exercises":
			return &ValidationError{Message: MsgNoExercises}
		case fe.Field() == "Name":
			msg = MsgNoName
		case msg == "":
			msg = fmt.Sprintf("Check %s: %s is not valid.", fe.Namespace(), fe.Field())
		}
	}
	return &ValidationError{Message: msg}
}

// Draft returns a copy of the current draft, or nil.
func (b *Builder) Draft() *Draft {
	if b.draft == nil {
		return nil
	}
	d := *b.draft
	d.Exercises = models.CloneExercises(b.draft.Exercises)
	return &d
}

// Filter returns the selected library category.
func (b *Builder) Filter() string {
	return b.filter
}
