// Package app owns the application state and turns UI actions into state
// changes, persistence and a fresh rendering of the current view.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/caltracker/internal/action"
	"github.com/meltforce/caltracker/internal/builder"
	"github.com/meltforce/caltracker/internal/calendar"
	"github.com/meltforce/caltracker/internal/metrics"
	"github.com/meltforce/caltracker/internal/models"
	"github.com/meltforce/caltracker/internal/onboarding"
	"github.com/meltforce/caltracker/internal/router"
	"github.com/meltforce/caltracker/internal/storage"
	"github.com/meltforce/caltracker/internal/views"
)

// Store persists the application documents. *storage.Adapter satisfies it.
type Store interface {
	Save(ctx context.Context, key string, value any) error
	Load(ctx context.Context, key string, dst any) (bool, error)
	Export(ctx context.Context) (*storage.Document, error)
	Import(ctx context.Context, doc *storage.Document) error
	ClearAll(ctx context.Context) error
	Backend(ctx context.Context) (string, error)
}

var _ Store = (*storage.Adapter)(nil)

// ErrInvalidImport is returned when an imported document does not decode.
var ErrInvalidImport = errors.New("invalid import document")

// Options configures New. Zero values select sensible defaults.
type Options struct {
	// Prefix is the deployment path prefix, e.g. "/gym".
	Prefix  string
	Now     func() time.Time
	Metrics *metrics.Manager
	Log     *slog.Logger
}

type controller interface {
	Actions() []string
	Handle(ctx context.Context, name string, p action.Payload) (bool, error)
}

type actionFunc func(ctx context.Context, p action.Payload) error

// App is the single owner of the state. Every exported method takes the lock,
// so each event runs to completion before the next one starts.
type App struct {
	mu      sync.Mutex
	store   Store
	log     *slog.Logger
	metrics *metrics.Manager
	now     func() time.Time

	state   *models.State
	router  *router.Router
	history *router.SessionHistory
	views   *views.Renderer

	builder    *builder.Builder
	calendar   *calendar.Calendar
	onboarding *onboarding.Flow

	actions map[string]actionFunc
	owners  map[string]controller
	markup  string
}

// New loads the persisted state from store and shows the initial view.
func New(ctx context.Context, store Store, opts Options) (*App, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	renderer, err := views.New(opts.Prefix)
	if err != nil {
		return nil, err
	}

	a := &App{
		store:   store,
		log:     opts.Log,
		metrics: opts.Metrics,
		now:     opts.Now,
		router:  router.New(opts.Prefix),
		views:   renderer,
	}
	if err := a.load(ctx); err != nil {
		return nil, err
	}

	a.builder = builder.New(a)
	a.calendar = calendar.New(a)
	a.onboarding = onboarding.New(a)
	a.registerActions()
	a.registerRoutes()

	a.history = router.NewSessionHistory(a.router.URL("/"))
	a.router.Init(a.history)
	if err := a.render(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) registerActions() {
	a.actions = map[string]actionFunc{
		action.CompleteSet:    a.completeSetAction,
		action.AddExercise:    a.addExerciseAction,
		action.RemoveExercise: a.removeExerciseAction,
		action.UpdateReps:     a.updateRepsAction,
		action.UpdateWeight:   a.updateWeightAction,
		action.UpdateNotes:    a.updateNotesAction,
		action.AssignWorkout:  a.assignWorkoutAction,
		action.SaveProgress:   a.SaveProgress,
		action.PrevDay:        func(context.Context, action.Payload) error { a.ChangeDay(-1); return nil },
		action.NextDay:        func(context.Context, action.Payload) error { a.ChangeDay(1); return nil },
		action.ToggleTheme:    a.toggleThemeAction,
		action.UpdateSetting:  a.updateSettingAction,
		action.UpdateDayPlan:  a.updateDayPlanAction,
		action.ClearData:      a.clearDataAction,
		action.ImportData:     a.importDataAction,
	}
	a.owners = map[string]controller{}
	for _, c := range []controller{a.builder, a.calendar, a.onboarding} {
		for _, name := range c.Actions() {
			a.owners[name] = c
		}
	}
}

func (a *App) registerRoutes() {
	show := func(v models.View) router.Handler {
		return func() { a.state.CurrentView = v }
	}
	a.router.AddRoute("/", func() {
		if a.onboarding.IsFirstTime() {
			a.showOnboarding()
			return
		}
		a.state.CurrentView = models.ViewWorkout
	})
	a.router.AddRoute("/workout", show(models.ViewWorkout))
	a.router.AddRoute("/builder", show(models.ViewBuilder))
	a.router.AddRoute("/history", show(models.ViewHistory))
	a.router.AddRoute("/progress", show(models.ViewProgress))
	a.router.AddRoute("/settings", show(models.ViewSettings))
	a.router.AddRoute("/onboarding", a.showOnboarding)
}

func (a *App) showOnboarding() {
	if a.state.OnboardingStep < models.FirstOnboardingStep {
		a.state.OnboardingStep = models.FirstOnboardingStep
	}
	a.state.CurrentView = models.ViewOnboarding
}

// Visit handles the browser arriving at location (a typed URL, a redirect,
// back or forward) and returns the markup for the resolved view.
func (a *App) Visit(ctx context.Context, location string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history.Arrive(location)
	if err := a.render(ctx); err != nil {
		return "", err
	}
	// The flash set by the last action is shown on this page only.
	a.state.Flash = ""
	return a.markup, nil
}

// Dispatch applies the named action and re-renders. It returns the location
// the client should show next.
func (a *App) Dispatch(ctx context.Context, name string, p action.Payload) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.apply(ctx, name, p)
	a.metrics.ActionDispatched(name, err)
	if err != nil {
		a.log.Warn("action failed", "action", name, "error", err)
	}
	if rerr := a.render(ctx); rerr != nil && err == nil {
		err = rerr
	}
	return a.router.URL(a.router.CurrentPath()), err
}

func (a *App) apply(ctx context.Context, name string, p action.Payload) error {
	if fn, ok := a.actions[name]; ok {
		return fn(ctx, p)
	}
	if c, ok := a.owners[name]; ok {
		if _, err := c.Handle(ctx, name, p); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("%w: %s", action.ErrUnknown, name)
}

// Markup returns the most recent rendering.
func (a *App) Markup() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.markup
}

// CurrentPath returns the route being shown, without the deployment prefix.
func (a *App) CurrentPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.router.CurrentPath()
}

// The methods below implement the controllers' Host interfaces. They run
// with the lock already held by Visit or Dispatch.

func (a *App) State() *models.State { return a.state }

func (a *App) Now() time.Time { return a.now() }

func (a *App) Navigate(path string) { a.router.Navigate(path) }

// CurrentWorkoutKey resolves the template shown for the current date.
func (a *App) CurrentWorkoutKey() string {
	return a.workoutKeyFor(a.state.CurrentDate)
}

// workoutKeyFor returns the weekly plan entry for the day, or Day1 on even
// weekdays (Sunday is 0) and Day2 on odd ones.
func (a *App) workoutKeyFor(date time.Time) string {
	if key := a.state.Settings.WeeklyPlan[models.DayName(date)]; key != "" {
		return key
	}
	if date.Weekday()%2 == 0 {
		return "Day1"
	}
	return "Day2"
}

// Persist writes every document. Writes are synchronous; the first failure is
// returned and later documents are not attempted.
func (a *App) Persist(ctx context.Context) error {
	docs := []struct {
		key   string
		value any
	}{
		{storage.KeyWorkoutData, a.state.Templates},
		{storage.KeyWorkoutHistory, a.state.History},
		{storage.KeyWorkoutProgress, a.state.Progress},
		{storage.KeyUserSettings, a.state.Settings},
	}
	for _, d := range docs {
		if err := a.store.Save(ctx, d.key, d.value); err != nil {
			return err
		}
	}
	return nil
}

// load replaces the state with the stored documents, keeping defaults for
// documents that were never written.
func (a *App) load(ctx context.Context) error {
	s := models.NewState(a.now())
	if a.state != nil {
		s.CurrentView = a.state.CurrentView
		s.CurrentDate = a.state.CurrentDate
	}

	var templates models.Templates
	if found, err := a.store.Load(ctx, storage.KeyWorkoutData, &templates); err != nil {
		return err
	} else if found && templates != nil {
		s.Templates = templates
	}
	var history models.History
	if found, err := a.store.Load(ctx, storage.KeyWorkoutHistory, &history); err != nil {
		return err
	} else if found && history != nil {
		s.History = history
	}
	var progress map[string]any
	if found, err := a.store.Load(ctx, storage.KeyWorkoutProgress, &progress); err != nil {
		return err
	} else if found && progress != nil {
		s.Progress = progress
	}
	settings := models.DefaultSettings()
	if _, err := a.store.Load(ctx, storage.KeyUserSettings, &settings); err != nil {
		return err
	}
	s.Settings = settings

	a.state = s
	return nil
}

// decodeDocument checks that every present field of doc decodes into the
// type it will be loaded as.
func decodeDocument(doc *storage.Document) error {
	targets := []struct {
		key string
		raw json.RawMessage
		dst any
	}{
		{storage.KeyWorkoutData, doc.WorkoutData, &models.Templates{}},
		{storage.KeyWorkoutHistory, doc.WorkoutHistory, &models.History{}},
		{storage.KeyWorkoutProgress, doc.WorkoutProgress, &map[string]any{}},
		{storage.KeyUserSettings, doc.UserSettings, &models.Settings{}},
	}
	for _, t := range targets {
		if len(t.raw) == 0 || string(t.raw) == "null" {
			continue
		}
		if err := json.Unmarshal(t.raw, t.dst); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidImport, t.key, err)
		}
	}
	return nil
}
