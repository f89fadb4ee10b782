package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/meltforce/caltracker/internal/action"
	"github.com/meltforce/caltracker/internal/metrics"
	"github.com/meltforce/caltracker/internal/models"
	"github.com/meltforce/caltracker/internal/storage"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Friday, so the parity fallback picks Day2.
var friday = time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newStore(t *testing.T) *storage.Adapter {
	t.Helper()
	return storage.NewAdapter(storage.FileOpener(t.TempDir()), nil, discard())
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newApp(t *testing.T, store Store, c *clock) *App {
	t.Helper()
	a, err := New(context.Background(), store, Options{Now: c.now, Log: discard()})
	require.NoError(t, err)
	return a
}

func dispatch(t *testing.T, a *App, name string, p action.Payload) {
	t.Helper()
	_, err := a.Dispatch(context.Background(), name, p)
	require.NoError(t, err)
}

func TestCompleteSetCreatesSnapshot(t *testing.T) {
	c := &clock{t: friday}
	store := newStore(t)
	a := newApp(t, store, c)

	dispatch(t, a, action.CompleteSet, action.Payload{"exerciseIndex": "0", "setIndex": "1"})

	entry := a.state.History["2024-01-05"]
	require.NotNil(t, entry)
	assert.Equal(t, "Day2", entry.WorkoutID)
	require.NotNil(t, entry.StartedAt)
	rec := entry.Exercises[0].Set(1)
	require.NotNil(t, rec)
	assert.True(t, rec.Completed)
	assert.Equal(t, 5, rec.Reps)
	assert.Nil(t, entry.Exercises[0].Set(0))
	assert.Empty(t, a.state.Templates["Day2"].Exercises[0].CompletedSets, "template stays pristine")

	c.t = friday.Add(time.Minute)
	dispatch(t, a, action.CompleteSet, action.Payload{"exerciseIndex": "0", "setIndex": "1"})
	rec = a.state.History["2024-01-05"].Exercises[0].Set(1)
	require.NotNil(t, rec)
	assert.False(t, rec.Completed)
	assert.Equal(t, c.t, rec.Timestamp)

	// the snapshot survives a restart
	b := newApp(t, store, c)
	require.Contains(t, b.state.History, "2024-01-05")
	assert.Len(t, b.state.History["2024-01-05"].Exercises, 4)
}

// TestCompleteSetRecordsTargetReps verifies that completing a set records the
// target reps even after a different value was typed, and again after a toggle.
func TestCompleteSetRecordsTargetReps(t *testing.T) {
	a := newApp(t, newStore(t), &clock{t: friday})
	ctx := context.Background()

	require.NoError(t, a.UpdateSetData(ctx, 0, 1, "reps", "2"))
	rec, err := a.completeSet(ctx, friday, 0, 1)
	require.NoError(t, err)
	assert.True(t, rec.Completed)
	assert.Equal(t, 5, rec.Reps)

	_, err = a.completeSet(ctx, friday, 0, 1)
	require.NoError(t, err)
	rec, err = a.completeSet(ctx, friday, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, rec.Reps)
}

func TestCompleteSetOutOfRange(t *testing.T) {
	a := newApp(t, newStore(t), &clock{t: friday})

	_, err := a.Dispatch(context.Background(), action.CompleteSet, action.Payload{"exerciseIndex": "9", "setIndex": "0"})
	require.ErrorIs(t, err, models.ErrIndexOutOfRange)
	_, err = a.Dispatch(context.Background(), action.CompleteSet, action.Payload{"exerciseIndex": "0", "setIndex": "4"})
	require.ErrorIs(t, err, models.ErrIndexOutOfRange, "Ring Pull-ups has four sets")
	_, err = a.Dispatch(context.Background(), action.CompleteSet, action.Payload{"exerciseIndex": "x"})
	require.ErrorIs(t, err, action.ErrBadPayload)
	assert.Empty(t, a.state.History)
}

func TestEditsTargetSnapshotOnceStarted(t *testing.T) {
	a := newApp(t, newStore(t), &clock{t: friday})

	dispatch(t, a, action.RemoveExercise, action.Payload{"exerciseIndex": "3"})
	assert.Len(t, a.state.Templates["Day2"].Exercises, 3, "before starting, the template is edited")

	dispatch(t, a, action.CompleteSet, action.Payload{"exerciseIndex": "0", "setIndex": "0"})
	dispatch(t, a, action.RemoveExercise, action.Payload{"exerciseIndex": "0"})
	dispatch(t, a, action.UpdateNotes, action.Payload{"exerciseIndex": "0", "value": "slow eccentrics"})
	dispatch(t, a, action.UpdateReps, action.Payload{"exerciseIndex": "0", "setIndex": "2", "value": "7"})

	entry := a.state.Entry()
	require.Len(t, entry.Exercises, 2)
	assert.Equal(t, "slow eccentrics", entry.Exercises[0].Notes)
	assert.Equal(t, 7, entry.Exercises[0].Set(2).Reps)
	assert.Len(t, a.state.Templates["Day2"].Exercises, 3)
	assert.Empty(t, a.state.Templates["Day2"].Exercises[0].Notes)

	_, err := a.Dispatch(context.Background(), action.UpdateReps, action.Payload{"exerciseIndex": "0", "setIndex": "0", "value": "-2"})
	require.ErrorIs(t, err, models.ErrInvalidValue)
}

func TestAddExerciseUsesCatalog(t *testing.T) {
	a := newApp(t, newStore(t), &clock{t: friday})

	dispatch(t, a, action.AddExercise, action.Payload{"exercise": "Push-ups"})
	ex := a.state.Templates["Day2"].Exercises
	require.Len(t, ex, 5)
	assert.Equal(t, "Push-ups", ex[4].Name)
	assert.NotEmpty(t, ex[4].Sets)

	_, err := a.Dispatch(context.Background(), action.AddExercise, action.Payload{"exercise": "Levitation"})
	require.ErrorIs(t, err, models.ErrInvalidValue)
}

func TestAssignWorkout(t *testing.T) {
	a := newApp(t, newStore(t), &clock{t: friday})

	dispatch(t, a, action.AssignWorkout, action.Payload{"workoutId": "Day1"})
	assert.Equal(t, "Push/Pull Focus A", a.state.Templates["Day2"].Name)
	assert.Equal(t, "/workout", a.CurrentPath())

	dispatch(t, a, action.CompleteSet, action.Payload{"exerciseIndex": "0", "setIndex": "0"})
	a.state.Templates["Day1"].Name = "Renamed"
	dispatch(t, a, action.AssignWorkout, action.Payload{"workoutId": "Day1"})
	entry := a.state.Entry()
	assert.Equal(t, "Day1", entry.WorkoutID)
	assert.Zero(t, entry.Exercises[0].CompletedCount(), "assigned exercises start fresh")

	_, err := a.Dispatch(context.Background(), action.AssignWorkout, action.Payload{"workoutId": "nope"})
	require.ErrorIs(t, err, models.ErrUnknownWorkout)
}

func TestSaveProgressStampsDuration(t *testing.T) {
	c := &clock{t: friday}
	a := newApp(t, newStore(t), c)

	dispatch(t, a, action.CompleteSet, action.Payload{"exerciseIndex": "0", "setIndex": "0"})
	c.t = friday.Add(40 * time.Minute)
	dispatch(t, a, action.SaveProgress, nil)

	entry := a.state.Entry()
	require.NotNil(t, entry.CompletedAt)
	assert.Equal(t, (40 * time.Minute).Milliseconds(), entry.Duration)
	assert.Equal(t, 1, entry.Exercises[0].CompletedCount(), "completion is kept")
	assert.Contains(t, a.Markup(), MsgProgressSaved)
}

func TestWorkoutKeyFollowsPlanAndParity(t *testing.T) {
	a := newApp(t, newStore(t), &clock{t: friday})
	assert.Equal(t, "Day2", a.CurrentWorkoutKey())

	dispatch(t, a, action.NextDay, nil)
	assert.Equal(t, "2024-01-06", models.FormatDate(a.state.CurrentDate))
	assert.Equal(t, "Day1", a.CurrentWorkoutKey(), "Saturday is even")

	dispatch(t, a, action.UpdateDayPlan, action.Payload{"day": "Saturday", "workoutId": "Day2"})
	assert.Equal(t, "Day2", a.CurrentWorkoutKey())
	dispatch(t, a, action.UpdateDayPlan, action.Payload{"day": "saturday", "workoutId": ""})
	assert.Equal(t, "Day1", a.CurrentWorkoutKey())

	_, err := a.Dispatch(context.Background(), action.UpdateDayPlan, action.Payload{"day": "saturday", "workoutId": "ghost"})
	require.ErrorIs(t, err, models.ErrUnknownWorkout)

	dispatch(t, a, action.PrevDay, nil)
	dispatch(t, a, action.PrevDay, nil)
	assert.Equal(t, "2024-01-04", models.FormatDate(a.state.CurrentDate))
	assert.Empty(t, a.state.History, "moving between days records nothing")
}

func TestFirstVisitShowsOnboarding(t *testing.T) {
	a := newApp(t, newStore(t), &clock{t: friday})

	out, err := a.Visit(context.Background(), "/")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to CalTracker")

	dispatch(t, a, action.CompleteOnboarding, nil)
	assert.True(t, a.state.Settings.CompletedOnboarding)
	assert.Equal(t, "/workout", a.CurrentPath())
	assert.Equal(t, "Workout A", a.state.Templates["Day1"].Name)

	out, err = a.Visit(context.Background(), "/")
	require.NoError(t, err)
	assert.NotContains(t, out, "Welcome to CalTracker")
	assert.Contains(t, out, "Workout B", "Friday resolves to Day2")
}

func TestVisitUnknownPathFallsBack(t *testing.T) {
	a := newApp(t, newStore(t), &clock{t: friday})
	_, err := a.Visit(context.Background(), "/history")
	require.NoError(t, err)
	assert.Equal(t, models.ViewHistory, a.state.CurrentView)

	_, err = a.Visit(context.Background(), "/nowhere")
	require.NoError(t, err)
	assert.Equal(t, "/", a.CurrentPath())
}

func TestSettingsValidation(t *testing.T) {
	a := newApp(t, newStore(t), &clock{t: friday})
	_, err := a.Visit(context.Background(), "/settings")
	require.NoError(t, err)

	dispatch(t, a, action.UpdateSetting, action.Payload{"setting": "defaultRestTime", "value": "5"})
	assert.Equal(t, 90, a.Settings().DefaultRestTime)
	assert.Contains(t, a.Markup(), "Rest time must be between 15 and 600 seconds.")

	dispatch(t, a, action.UpdateSetting, action.Payload{"setting": "units", "value": "imperial"})
	assert.Equal(t, models.UnitsImperial, a.Settings().Units)

	dispatch(t, a, action.ToggleTheme, nil)
	assert.Equal(t, models.ThemeDark, a.Settings().Theme)
	assert.Contains(t, a.Markup(), `data-theme="dark"`)

	_, err = a.Dispatch(context.Background(), action.UpdateSetting, action.Payload{"setting": "color", "value": "red"})
	require.ErrorIs(t, err, action.ErrBadPayload)
}

func TestUnknownAction(t *testing.T) {
	m, _ := metrics.NewTestManagerAndRegistry()
	a, err := New(context.Background(), newStore(t), Options{Now: (&clock{t: friday}).now, Log: discard(), Metrics: m})
	require.NoError(t, err)

	_, err = a.Dispatch(context.Background(), "launch-rocket", nil)
	require.ErrorIs(t, err, action.ErrUnknown)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterActions.WithLabelValues("launch-rocket", "error")))
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newApp(t, newStore(t), &clock{t: friday})
	dispatch(t, src, action.CompleteSet, action.Payload{"exerciseIndex": "1", "setIndex": "0"})
	dispatch(t, src, action.ToggleTheme, nil)

	doc, err := src.Export(ctx)
	require.NoError(t, err)
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	dst := newApp(t, newStore(t), &clock{t: friday})
	var in storage.Document
	require.NoError(t, json.Unmarshal(raw, &in))
	require.NoError(t, dst.Import(ctx, &in))
	assert.Contains(t, dst.state.History, "2024-01-05")
	assert.Equal(t, models.ThemeDark, dst.Settings().Theme)
	assert.Equal(t, "/workout", dst.CurrentPath())

	bad := &storage.Document{WorkoutHistory: json.RawMessage(`["not","a","map"]`)}
	require.ErrorIs(t, dst.Import(ctx, bad), ErrInvalidImport)
	assert.Contains(t, dst.state.History, "2024-01-05", "failed import changes nothing")

	dispatch(t, dst, action.ImportData, action.Payload{"document": `{"userSettings":{"theme":"light","units":"metric","defaultRestTime":60}}`})
	assert.Equal(t, 60, dst.Settings().DefaultRestTime)
	assert.Contains(t, dst.state.History, "2024-01-05", "absent documents are kept")
}

func TestClearData(t *testing.T) {
	store := newStore(t)
	a := newApp(t, store, &clock{t: friday})
	dispatch(t, a, action.CompleteSet, action.Payload{"exerciseIndex": "0", "setIndex": "0"})
	_, err := a.Visit(context.Background(), "/settings")
	require.NoError(t, err)

	dispatch(t, a, action.ClearData, nil)
	assert.Empty(t, a.state.History)
	assert.Len(t, a.state.Templates, 2)
	assert.Equal(t, models.ViewOnboarding, a.state.CurrentView)
	assert.Contains(t, a.Markup(), MsgCleared)

	doc, err := store.Export(context.Background())
	require.NoError(t, err)
	assert.Nil(t, doc.WorkoutHistory)
}

func TestTodayAndHistoryQueries(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, newStore(t), &clock{t: friday})

	today := a.Today()
	assert.Equal(t, "2024-01-05", today.Date)
	assert.Equal(t, "Day2", today.WorkoutID)
	assert.False(t, today.Started)
	assert.Equal(t, 13, today.TotalSets)

	// browsing another day does not change what "today" means
	dispatch(t, a, action.PrevDay, nil)
	rec, err := a.CompleteTodaySet(ctx, 2, 0)
	require.NoError(t, err)
	assert.True(t, rec.Completed)

	today = a.Today()
	assert.True(t, today.Started)
	assert.Equal(t, 1, today.CompletedSets)

	h, err := a.HistoryBetween("2024-01-01", "2024-01-05")
	require.NoError(t, err)
	assert.Len(t, h, 1)
	h["2024-01-05"].Exercises[0].Name = "mutated"
	assert.NotEqual(t, "mutated", a.Today().Exercises[0].Name)

	h, err = a.HistoryBetween("2024-01-06", "")
	require.NoError(t, err)
	assert.Empty(t, h)

	_, err = a.HistoryBetween("yesterday", "")
	require.ErrorIs(t, err, models.ErrInvalidValue)
	assert.Equal(t, 1, a.Stats().TotalWorkouts)
}
