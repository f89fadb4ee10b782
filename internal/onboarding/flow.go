// Package onboarding runs the first-time setup wizard that turns a user's
// equipment, level, goals and split into generated workouts.
package onboarding

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/meltforce/caltracker/internal/action"
	"github.com/meltforce/caltracker/internal/generator"
	"github.com/meltforce/caltracker/internal/models"
)

// Host is what the wizard needs from the application.
type Host interface {
	State() *models.State
	Persist(ctx context.Context) error
	Navigate(path string)
	Now() time.Time
}

// Wizard steps.
const (
	StepWelcome = iota + models.FirstOnboardingStep
	StepEquipment
	StepLevel
	StepGoals
	StepSplit
	StepSummary
)

// Setup is the in-progress wizard selection.
type Setup struct {
	Equipment    []string
	FitnessLevel string
	Goals        []string
	WorkoutSplit string
}

func defaultSetup() Setup {
	return Setup{FitnessLevel: string(generator.Beginner), WorkoutSplit: string(generator.FullBody)}
}

// Flow holds the wizard's transient selection; the step lives in the state.
type Flow struct {
	host  Host
	setup Setup
}

func New(h Host) *Flow {
	return &Flow{host: h, setup: defaultSetup()}
}

// Actions lists the action names Handle accepts.
func (f *Flow) Actions() []string {
	return []string{
		action.StartOnboarding,
		action.NextOnboardingStep, action.PrevOnboardingStep,
		action.ToggleEquipment, action.ToggleGoal,
		action.SelectFitnessLevel, action.SelectWorkoutSplit,
		action.CompleteOnboarding, action.CustomizeWorkouts,
	}
}

// Handle applies one wizard action.
func (f *Flow) Handle(ctx context.Context, name string, p action.Payload) (bool, error) {
	switch name {
	case action.StartOnboarding:
		f.Start()
	case action.NextOnboardingStep:
		f.Next()
	case action.PrevOnboardingStep:
		f.Prev()
	case action.ToggleEquipment:
		return true, f.ToggleEquipment(p.String("equipment"))
	case action.ToggleGoal:
		return true, f.ToggleGoal(p.String("goal"))
	case action.SelectFitnessLevel:
		return true, f.SelectLevel(p.String("level"))
	case action.SelectWorkoutSplit:
		return true, f.SelectSplit(p.String("split"))
	case action.CompleteOnboarding:
		return true, f.Complete(ctx, false)
	case action.CustomizeWorkouts:
		return true, f.Complete(ctx, true)
	default:
		return false, nil
	}
	return true, nil
}

// IsFirstTime reports whether the user has never trained, never finished the
// wizard and still has only the default Day1/Day2 templates.
func (f *Flow) IsFirstTime() bool {
	s := f.host.State()
	if len(s.History) > 0 || s.Settings.CompletedOnboarding {
		return false
	}
	if len(s.Templates) > 2 {
		return false
	}
	for key := range s.Templates {
		if key != "Day1" && key != "Day2" {
			return false
		}
	}
	return true
}

// Start resets the wizard and shows its first step.
func (f *Flow) Start() {
	f.setup = defaultSetup()
	s := f.host.State()
	s.OnboardingStep = StepWelcome
	f.host.Navigate("/onboarding")
	s.CurrentView = models.ViewOnboarding
}

// Step returns the current step, clamped to the wizard bounds.
func (f *Flow) Step() int {
	return clampStep(f.host.State().OnboardingStep)
}

func clampStep(n int) int {
	return max(models.FirstOnboardingStep, min(models.LastOnboardingStep, n))
}

// CanAdvance reports whether the current step has what it needs to move on.
func (f *Flow) CanAdvance() bool {
	switch f.Step() {
	case StepEquipment:
		return len(f.setup.Equipment) > 0
	case StepGoals:
		return len(f.setup.Goals) > 0
	case StepSummary:
		return false
	}
	return true
}

// Next advances one step unless the current step is incomplete.
func (f *Flow) Next() {
	if !f.CanAdvance() {
		return
	}
	s := f.host.State()
	s.OnboardingStep = clampStep(f.Step() + 1)
}

// Prev goes back one step, never below the first.
func (f *Flow) Prev() {
	s := f.host.State()
	s.OnboardingStep = clampStep(f.Step() - 1)
}

func toggle(list []string, id string) []string {
	if i := slices.Index(list, id); i >= 0 {
		return slices.Delete(slices.Clone(list), i, i+1)
	}
	return append(list, id)
}

// ToggleEquipment adds or removes an equipment id.
func (f *Flow) ToggleEquipment(id string) error {
	if !known(Equipment, id) {
		return fmt.Errorf("%w: equipment %q", models.ErrInvalidValue, id)
	}
	f.setup.Equipment = toggle(f.setup.Equipment, id)
	return nil
}

// ToggleGoal adds or removes a goal id.
func (f *Flow) ToggleGoal(id string) error {
	if !known(Goals, id) {
		return fmt.Errorf("%w: goal %q", models.ErrInvalidValue, id)
	}
	f.setup.Goals = toggle(f.setup.Goals, id)
	return nil
}

// SelectLevel sets the fitness level.
func (f *Flow) SelectLevel(id string) error {
	if !known(Levels, id) {
		return fmt.Errorf("%w: level %q", models.ErrInvalidValue, id)
	}
	f.setup.FitnessLevel = id
	return nil
}

// SelectSplit sets the workout split.
func (f *Flow) SelectSplit(id string) error {
	if !known(Splits, id) {
		return fmt.Errorf("%w: split %q", models.ErrInvalidValue, id)
	}
	f.setup.WorkoutSplit = id
	return nil
}

// Setup returns a copy of the current selection.
func (f *Flow) Setup() Setup {
	s := f.setup
	s.Equipment = slices.Clone(f.setup.Equipment)
	s.Goals = slices.Clone(f.setup.Goals)
	return s
}

// Complete stores the selection in settings, merges generated templates into
// the existing ones, persists, and shows the workout (or builder) view.
func (f *Flow) Complete(ctx context.Context, toBuilder bool) error {
	setup := f.Setup()
	state := f.host.State()

	state.Settings.CompletedOnboarding = true
	state.Settings.Equipment = setup.Equipment
	state.Settings.FitnessLevel = setup.FitnessLevel
	state.Settings.Goals = setup.Goals
	state.Settings.WorkoutSplit = setup.WorkoutSplit

	state.Templates.Merge(generator.Generate(generator.Setup{
		Equipment:    setup.Equipment,
		FitnessLevel: generator.Level(setup.FitnessLevel),
		Goals:        setup.Goals,
		WorkoutSplit: generator.Split(setup.WorkoutSplit),
	}))

	if err := f.host.Persist(ctx); err != nil {
		return err
	}

	f.setup = defaultSetup()
	state.OnboardingStep = 0
	if toBuilder {
		f.host.Navigate("/builder")
	} else {
		f.host.Navigate("/workout")
	}
	return nil
}
