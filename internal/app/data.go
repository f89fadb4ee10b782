package app

import (
	"context"
	"fmt"

	"github.com/meltforce/caltracker/internal/calendar"
	"github.com/meltforce/caltracker/internal/models"
	"github.com/meltforce/caltracker/internal/storage"
)

// Export returns every stored document in the download envelope.
func (a *App) Export(ctx context.Context) (*storage.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Export(ctx)
}

// Import replaces the documents present in doc, reloads the state and shows
// the workout view. Documents absent from doc are kept.
func (a *App) Import(ctx context.Context, doc *storage.Document) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.importDocument(ctx, doc); err != nil {
		return err
	}
	a.Navigate("/workout")
	a.state.Flash = MsgImported
	return a.render(ctx)
}

// DaySummary describes the workout for one date.
type DaySummary struct {
	Date          string            `json:"date"`
	WorkoutID     string            `json:"workoutId"`
	WorkoutName   string            `json:"workoutName"`
	Started       bool              `json:"started"`
	Completed     bool              `json:"completed"`
	CompletedSets int               `json:"completedSets"`
	TotalSets     int               `json:"totalSets"`
	Exercises     []models.Exercise `json:"exercises"`
}

// Today summarises the workout for the real current date, regardless of the
// date being browsed in the UI.
func (a *App) Today() DaySummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	today := a.now()
	ds := DaySummary{Date: models.FormatDate(today)}
	if entry := a.state.History[ds.Date]; entry != nil {
		ds.WorkoutID = entry.WorkoutID
		ds.Started = true
		ds.Completed = entry.CompletedAt != nil
		ds.Exercises = models.CloneExercises(entry.Exercises)
		ds.CompletedSets, ds.TotalSets = entry.SetTotals()
	} else {
		ds.WorkoutID = a.workoutKeyFor(today)
		if tpl := a.state.Templates[ds.WorkoutID]; tpl != nil {
			ds.Exercises = models.CloneExercises(tpl.Exercises)
			_, ds.TotalSets = (&models.HistoryEntry{Exercises: tpl.Exercises}).SetTotals()
		}
	}
	if tpl := a.state.Templates[ds.WorkoutID]; tpl != nil {
		ds.WorkoutName = tpl.Name
	}
	return ds
}

// HistoryBetween returns copies of the entries dated from start to end
// inclusive. Either bound may be empty to leave that side open.
func (a *App) HistoryBetween(start, end string) (models.History, error) {
	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}
		if _, err := models.ParseDate(d); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrInvalidValue, err)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	out := models.History{}
	for date, entry := range a.state.History {
		if (start != "" && date < start) || (end != "" && date > end) {
			continue
		}
		cp := *entry
		cp.Exercises = models.CloneExercises(entry.Exercises)
		out[date] = &cp
	}
	return out, nil
}

// Stats returns the history summary as of now.
func (a *App) Stats() calendar.Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return calendar.Stats(a.state.History, a.now())
}

// Records returns per-exercise bests.
func (a *App) Records() []calendar.Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return calendar.PersonalRecords(a.state.History)
}

// Settings returns a copy of the user's preferences.
func (a *App) Settings() models.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Settings.Clone()
}

// CompleteTodaySet toggles one set of today's workout and returns the
// resulting record.
func (a *App) CompleteTodaySet(ctx context.Context, exIdx, setIdx int) (*models.SetRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, err := a.completeSet(ctx, a.now(), exIdx, setIdx)
	if err != nil {
		return nil, err
	}
	return rec, a.render(ctx)
}
