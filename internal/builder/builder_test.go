package builder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meltforce/caltracker/internal/action"
	"github.com/meltforce/caltracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	state    *models.State
	persists int
	paths    []string
	failSave error
}

func newFakeHost() *fakeHost {
	return &fakeHost{state: models.NewState(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))}
}

func (h *fakeHost) State() *models.State { return h.state }
func (h *fakeHost) Now() time.Time       { return time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC) }
func (h *fakeHost) Navigate(p string)    { h.paths = append(h.paths, p) }
func (h *fakeHost) Persist(context.Context) error {
	h.persists++
	return h.failSave
}

func TestSaveRequiresExercisesThenName(t *testing.T) {
	h := newFakeHost()
	b := New(h)
	ctx := context.Background()

	handled, err := b.Handle(ctx, action.SaveWorkout, nil)
	require.True(t, handled)
	require.NoError(t, err)
	assert.Equal(t, MsgNoExercises, h.state.Flash)

	b.CreateNew()
	require.NoError(t, b.Rename("   "))
	_, err = b.Handle(ctx, action.SaveWorkout, nil)
	require.NoError(t, err)
	assert.Equal(t, MsgNoExercises, h.state.Flash)

	require.NoError(t, b.AddExercise("Ring Dips"))
	_, err = b.Handle(ctx, action.SaveWorkout, nil)
	require.NoError(t, err)
	assert.Equal(t, MsgNoName, h.state.Flash)
	assert.NotNil(t, b.Draft(), "draft kept after a failed save")
	assert.Zero(t, h.persists)
}

func TestSaveStoresCustomTemplate(t *testing.T) {
	h := newFakeHost()
	b := New(h)
	ctx := context.Background()

	_, err := b.Handle(ctx, action.BuilderAddExercise, action.Payload{"exercise": "Dumbbell Curls"})
	require.NoError(t, err)
	require.NoError(t, b.AddExercise("TRX Rows"))
	require.NoError(t, b.Rename("  Arms  "))
	id := b.Draft().ID
	assert.Contains(t, id, "custom_")

	require.NoError(t, b.Save(ctx))

	tpl := h.state.Templates[id]
	require.NotNil(t, tpl)
	assert.Equal(t, "Arms", tpl.Name)
	assert.True(t, tpl.IsCustom)
	require.NotNil(t, tpl.CreatedAt)
	require.Len(t, tpl.Exercises, 2)
	assert.Equal(t, models.Weighted, tpl.Exercises[0].Type)
	assert.Equal(t, "30lbs", tpl.Exercises[0].Weight)
	assert.Nil(t, b.Draft())
	assert.Equal(t, 1, h.persists)
	assert.Equal(t, MsgSaved, h.state.Flash)
	assert.Equal(t, []string{"/builder"}, h.paths)
}

func TestSavePersistFailureKeepsDraft(t *testing.T) {
	h := newFakeHost()
	h.failSave = errors.New("disk full")
	b := New(h)
	require.NoError(t, b.AddExercise("Squats"))

	_, err := b.Handle(context.Background(), action.SaveWorkout, nil)
	assert.Error(t, err)
	assert.NotNil(t, b.Draft())
}

func TestEditIsDeepCopy(t *testing.T) {
	h := newFakeHost()
	b := New(h)

	require.NoError(t, b.Edit("Day1"))
	require.NoError(t, b.UpdateExercise(0, "sets", "5x3"))
	require.NoError(t, b.RemoveExercise(1))

	day1 := h.state.Templates["Day1"]
	assert.Equal(t, "3x6", day1.Exercises[0].Sets)
	assert.Len(t, day1.Exercises, 4)

	d := b.Draft()
	assert.True(t, d.Existing)
	assert.Equal(t, "5x3", d.Exercises[0].Sets)
	assert.Equal(t, 3, d.Exercises[0].TargetReps)

	assert.ErrorIs(t, b.Edit("nope"), models.ErrUnknownWorkout)
}

func TestUpdateExerciseFields(t *testing.T) {
	b := New(newFakeHost())
	require.NoError(t, b.AddExercise("Push-ups"))

	require.NoError(t, b.UpdateExercise(0, "type", "weighted"))
	require.NoError(t, b.UpdateExercise(0, "weight", "20lbs"))
	assert.Equal(t, "20lbs", b.Draft().Exercises[0].Weight)

	require.NoError(t, b.UpdateExercise(0, "type", "bodyweight"))
	assert.Empty(t, b.Draft().Exercises[0].Weight)

	assert.ErrorIs(t, b.UpdateExercise(0, "type", "cardio"), models.ErrInvalidValue)
	assert.ErrorIs(t, b.UpdateExercise(0, "color", "red"), models.ErrInvalidValue)
	assert.ErrorIs(t, b.UpdateExercise(4, "sets", "3x3"), models.ErrIndexOutOfRange)
}

func TestMoveExercise(t *testing.T) {
	b := New(newFakeHost())
	for _, n := range []string{"Push-ups", "Squats", "Plank"} {
		require.NoError(t, b.AddExercise(n))
	}
	require.NoError(t, b.MoveExercise(2, -1))
	require.NoError(t, b.MoveExercise(0, -1))

	var got []string
	for _, e := range b.Draft().Exercises {
		got = append(got, e.Name)
	}
	assert.Equal(t, []string{"Push-ups", "Plank", "Squats"}, got)
}

func TestDraftEditsWithoutDraft(t *testing.T) {
	b := New(newFakeHost())
	assert.ErrorIs(t, b.RemoveExercise(0), ErrNoDraft)
	assert.ErrorIs(t, b.Rename("x"), ErrNoDraft)
	assert.ErrorIs(t, b.AddExercise("Moonwalk"), models.ErrInvalidValue)
}

func TestFilter(t *testing.T) {
	b := New(newFakeHost())
	handled, err := b.Handle(context.Background(), action.FilterCategory, action.Payload{"category": "Ring"})
	require.True(t, handled)
	require.NoError(t, err)
	assert.Equal(t, "Ring", b.Filter())
	assert.Len(t, Library(b.Filter()), 7)

	b.SetFilter("Kettlebell")
	assert.Equal(t, FilterAll, b.Filter())
	assert.Len(t, Library(FilterAll), 35)

	assert.Equal(t, "Dumbbell", CategoryOf("Dumbbell Rows"))
	assert.Equal(t, "Bodyweight", CategoryOf("Unknown"))
}

func TestHandleUnknown(t *testing.T) {
	handled, err := New(newFakeHost()).Handle(context.Background(), "complete-set", nil)
	assert.False(t, handled)
	assert.NoError(t, err)
}
