package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/meltforce/caltracker/internal/action"
	"github.com/meltforce/caltracker/internal/generator"
	"github.com/meltforce/caltracker/internal/models"
	"github.com/meltforce/caltracker/internal/storage"
)

// Flash messages.
const (
	MsgProgressSaved = "Workout progress saved!"
	MsgCleared       = "All data cleared."
	MsgImported      = "Data imported successfully!"
	MsgThemeChanged  = "Theme updated."
)

func indices(p action.Payload, withSet bool) (ex, set int, err error) {
	if ex, err = p.Int("exerciseIndex"); err != nil {
		return 0, 0, err
	}
	if withSet {
		if set, err = p.Int("setIndex"); err != nil {
			return 0, 0, err
		}
	}
	return ex, set, nil
}

func (a *App) completeSetAction(ctx context.Context, p action.Payload) error {
	ex, set, err := indices(p, true)
	if err != nil {
		return err
	}
	_, err = a.completeSet(ctx, a.state.CurrentDate, ex, set)
	return err
}

// completeSet toggles set setIdx of exercise exIdx on date. The day's history
// entry is created from a deep copy of its template on first use. A completed
// set reverts to an incomplete marker rather than being removed.
func (a *App) completeSet(ctx context.Context, date time.Time, exIdx, setIdx int) (*models.SetRecord, error) {
	day := models.FormatDate(date)
	entry := a.state.History[day]
	if entry == nil {
		key := a.workoutKeyFor(date)
		tpl := a.state.Templates[key]
		if tpl == nil {
			return nil, fmt.Errorf("%w: %s", models.ErrUnknownWorkout, key)
		}
		if err := checkSet(tpl.Exercises, exIdx, setIdx); err != nil {
			return nil, err
		}
		started := a.now()
		entry = &models.HistoryEntry{
			WorkoutID: key,
			Exercises: models.CloneExercises(tpl.Exercises),
			StartedAt: &started,
		}
		a.state.History[day] = entry
	} else if err := checkSet(entry.Exercises, exIdx, setIdx); err != nil {
		return nil, err
	}

	ex := &entry.Exercises[exIdx]
	rec := ex.EnsureSet(setIdx)
	rec.Timestamp = a.now()
	if rec.Completed {
		*rec = models.SetRecord{Timestamp: rec.Timestamp}
	} else {
		rec.Completed = true
		rec.Reps = ex.TargetReps
		if rec.Reps == 0 {
			_, rec.Reps = ex.SetScheme()
		}
		rec.Weight = ""
		if ex.Type == models.Weighted {
			rec.Weight = ex.Weight
		}
	}
	out := *rec
	return &out, a.Persist(ctx)
}

func checkExercise(exercises []models.Exercise, exIdx int) error {
	if exIdx < 0 || exIdx >= len(exercises) {
		return fmt.Errorf("%w: exercise %d of %d", models.ErrIndexOutOfRange, exIdx, len(exercises))
	}
	return nil
}

func checkSet(exercises []models.Exercise, exIdx, setIdx int) error {
	if err := checkExercise(exercises, exIdx); err != nil {
		return err
	}
	if n, _ := exercises[exIdx].SetScheme(); setIdx < 0 || setIdx >= n {
		return fmt.Errorf("%w: set %d of %d", models.ErrIndexOutOfRange, setIdx, n)
	}
	return nil
}

// editable returns the exercises shown for the current date: the history
// snapshot once the day has started, the template otherwise.
func (a *App) editable() (*[]models.Exercise, error) {
	if entry := a.state.Entry(); entry != nil {
		return &entry.Exercises, nil
	}
	key := a.CurrentWorkoutKey()
	tpl := a.state.Templates[key]
	if tpl == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownWorkout, key)
	}
	return &tpl.Exercises, nil
}

func (a *App) removeExerciseAction(ctx context.Context, p action.Payload) error {
	i, _, err := indices(p, false)
	if err != nil {
		return err
	}
	return a.RemoveExercise(ctx, i)
}

// RemoveExercise deletes exercise i from today's snapshot if started, else
// from the template.
func (a *App) RemoveExercise(ctx context.Context, i int) error {
	list, err := a.editable()
	if err != nil {
		return err
	}
	if err := checkExercise(*list, i); err != nil {
		return err
	}
	*list = slices.Delete(*list, i, i+1)
	return a.Persist(ctx)
}

func (a *App) updateRepsAction(ctx context.Context, p action.Payload) error {
	return a.updateSetAction(ctx, p, "reps")
}

func (a *App) updateWeightAction(ctx context.Context, p action.Payload) error {
	return a.updateSetAction(ctx, p, "weight")
}

func (a *App) updateSetAction(ctx context.Context, p action.Payload, field string) error {
	ex, set, err := indices(p, true)
	if err != nil {
		return err
	}
	return a.UpdateSetData(ctx, ex, set, field, p.String("value"))
}

// UpdateSetData records the reps or weight typed for one set, on today's
// snapshot if started, else on the template.
func (a *App) UpdateSetData(ctx context.Context, exIdx, setIdx int, field, value string) error {
	list, err := a.editable()
	if err != nil {
		return err
	}
	if err := checkSet(*list, exIdx, setIdx); err != nil {
		return err
	}
	rec := (*list)[exIdx].EnsureSet(setIdx)
	switch field {
	case "reps":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: reps %q", models.ErrInvalidValue, value)
		}
		rec.Reps = n
	case "weight":
		rec.Weight = value
	default:
		return fmt.Errorf("%w: field %q", models.ErrInvalidValue, field)
	}
	return a.Persist(ctx)
}

func (a *App) updateNotesAction(ctx context.Context, p action.Payload) error {
	i, _, err := indices(p, false)
	if err != nil {
		return err
	}
	return a.UpdateExerciseNotes(ctx, i, p["value"])
}

// UpdateExerciseNotes replaces the notes of exercise i.
func (a *App) UpdateExerciseNotes(ctx context.Context, i int, notes string) error {
	list, err := a.editable()
	if err != nil {
		return err
	}
	if err := checkExercise(*list, i); err != nil {
		return err
	}
	(*list)[i].Notes = notes
	return a.Persist(ctx)
}

func (a *App) addExerciseAction(ctx context.Context, p action.Payload) error {
	name, err := p.Require("exercise")
	if err != nil {
		return err
	}
	return a.AddExercise(ctx, name)
}

// AddExercise appends a catalog exercise, preferring the user's equipment,
// formatted for the user's fitness level.
func (a *App) AddExercise(ctx context.Context, name string) error {
	entry, ok := generator.Find(a.state.Settings.Equipment, name)
	if !ok {
		entry, ok = generator.Find(nil, name)
	}
	if !ok {
		return fmt.Errorf("%w: exercise %q not in catalog", models.ErrInvalidValue, name)
	}
	list, err := a.editable()
	if err != nil {
		return err
	}
	level := generator.Level(a.state.Settings.FitnessLevel)
	*list = append(*list, generator.Format(entry, level))
	return a.Persist(ctx)
}

func (a *App) assignWorkoutAction(ctx context.Context, p action.Payload) error {
	id, err := p.Require("workoutId")
	if err != nil {
		return err
	}
	return a.AssignWorkout(ctx, id)
}

// AssignWorkout makes workout id today's workout. Before the day has started
// the current day's template is replaced by a copy; afterwards the snapshot is.
func (a *App) AssignWorkout(ctx context.Context, id string) error {
	src := a.state.Templates[id]
	if src == nil {
		return fmt.Errorf("%w: %s", models.ErrUnknownWorkout, id)
	}
	fresh := make([]models.Exercise, len(src.Exercises))
	for i, e := range src.Exercises {
		fresh[i] = e.Fresh()
	}

	if entry := a.state.Entry(); entry != nil {
		entry.WorkoutID = id
		entry.Exercises = fresh
	} else {
		key := a.CurrentWorkoutKey()
		if key != id {
			tpl := src.Clone()
			tpl.Exercises = fresh
			a.state.Templates[key] = tpl
		}
	}
	if err := a.Persist(ctx); err != nil {
		return err
	}
	a.Navigate("/workout")
	return nil
}

// SaveProgress stamps today's entry as completed, creating it from the
// template when no set has been marked yet. Completion state is kept.
func (a *App) SaveProgress(ctx context.Context, _ action.Payload) error {
	now := a.now()
	entry := a.state.Entry()
	if entry == nil {
		key := a.CurrentWorkoutKey()
		tpl := a.state.Templates[key]
		if tpl == nil {
			return fmt.Errorf("%w: %s", models.ErrUnknownWorkout, key)
		}
		entry = &models.HistoryEntry{
			WorkoutID: key,
			Exercises: models.CloneExercises(tpl.Exercises),
			StartedAt: &now,
		}
		a.state.History[models.FormatDate(a.state.CurrentDate)] = entry
	}
	entry.CompletedAt = &now
	if entry.StartedAt != nil {
		entry.Duration = now.Sub(*entry.StartedAt).Milliseconds()
	}
	if err := a.Persist(ctx); err != nil {
		return err
	}
	a.state.Flash = MsgProgressSaved
	return nil
}

// ChangeDay moves the current date by delta days. Nothing is persisted.
func (a *App) ChangeDay(delta int) {
	a.state.CurrentDate = a.state.CurrentDate.AddDate(0, 0, delta)
}

func (a *App) toggleThemeAction(ctx context.Context, _ action.Payload) error {
	return a.ToggleTheme(ctx)
}

// ToggleTheme flips between the light and dark themes.
func (a *App) ToggleTheme(ctx context.Context) error {
	if a.state.Settings.Theme == models.ThemeDark {
		a.state.Settings.Theme = models.ThemeLight
	} else {
		a.state.Settings.Theme = models.ThemeDark
	}
	return a.Persist(ctx)
}

func (a *App) updateSettingAction(ctx context.Context, p action.Payload) error {
	name, err := p.Require("setting")
	if err != nil {
		return err
	}
	return a.UpdateSetting(ctx, name, p.String("value"))
}

// UpdateSetting changes one preference. A value that fails validation is
// reported as a flash message and nothing is saved.
func (a *App) UpdateSetting(ctx context.Context, name, value string) error {
	next := a.state.Settings.Clone()
	switch name {
	case "theme":
		next.Theme = value
	case "units":
		next.Units = value
	case "defaultRestTime":
		n, err := strconv.Atoi(value)
		if err != nil {
			a.state.Flash = "Rest time must be a whole number of seconds."
			return nil
		}
		next.DefaultRestTime = n
	case "fitnessLevel":
		next.FitnessLevel = value
	case "workoutSplit":
		next.WorkoutSplit = value
	default:
		return fmt.Errorf("%w: unknown setting %q", action.ErrBadPayload, name)
	}
	if msg := settingsProblem(next); msg != "" {
		a.state.Flash = msg
		return nil
	}
	a.state.Settings = next
	return a.Persist(ctx)
}

// settingsProblem returns a user-facing message for the first invalid field,
// or "" when s is valid.
func settingsProblem(s models.Settings) string {
	err := models.Validate(s)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid settings."
	}
	fe := verrs[0]
	switch fe.Field() {
	case "DefaultRestTime":
		return "Rest time must be between 15 and 600 seconds."
	case "Theme":
		return "Theme must be light or dark."
	case "Units":
		return "Units must be metric or imperial."
	}
	return fmt.Sprintf("Invalid value for %s.", fe.Field())
}

func (a *App) updateDayPlanAction(ctx context.Context, p action.Payload) error {
	day, err := p.Require("day")
	if err != nil {
		return err
	}
	return a.UpdateWeeklyPlan(ctx, strings.ToLower(day), p.String("workoutId"))
}

// UpdateWeeklyPlan assigns workout id to a weekday; an empty id clears the
// day so it falls back to alternating Day1 and Day2.
func (a *App) UpdateWeeklyPlan(ctx context.Context, day, id string) error {
	if !slices.Contains(models.Weekdays, day) {
		return fmt.Errorf("%w: day %q", models.ErrInvalidValue, day)
	}
	if id != "" && a.state.Templates[id] == nil {
		return fmt.Errorf("%w: %s", models.ErrUnknownWorkout, id)
	}
	next := a.state.Settings.Clone()
	if id == "" {
		delete(next.WeeklyPlan, day)
	} else {
		if next.WeeklyPlan == nil {
			next.WeeklyPlan = map[string]string{}
		}
		next.WeeklyPlan[day] = id
	}
	if msg := settingsProblem(next); msg != "" {
		a.state.Flash = msg
		return nil
	}
	a.state.Settings = next
	return a.Persist(ctx)
}

func (a *App) clearDataAction(ctx context.Context, _ action.Payload) error {
	return a.clear(ctx)
}

// clear removes every stored document and resets to a first-run state.
func (a *App) clear(ctx context.Context) error {
	if err := a.store.ClearAll(ctx); err != nil {
		return err
	}
	if err := a.load(ctx); err != nil {
		return err
	}
	a.Navigate("/")
	a.showOnboarding()
	a.state.Flash = MsgCleared
	return nil
}

func (a *App) importDataAction(ctx context.Context, p action.Payload) error {
	raw, err := p.Require("document")
	if err != nil {
		return err
	}
	var doc storage.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := a.importDocument(ctx, &doc); err != nil {
		return err
	}
	a.state.Flash = MsgImported
	return nil
}

func (a *App) importDocument(ctx context.Context, doc *storage.Document) error {
	if err := decodeDocument(doc); err != nil {
		return err
	}
	if err := a.store.Import(ctx, doc); err != nil {
		return err
	}
	return a.load(ctx)
}
