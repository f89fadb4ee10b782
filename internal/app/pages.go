package app

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/caltracker/internal/builder"
	"github.com/meltforce/caltracker/internal/calendar"
	"github.com/meltforce/caltracker/internal/generator"
	"github.com/meltforce/caltracker/internal/models"
	"github.com/meltforce/caltracker/internal/onboarding"
	"github.com/meltforce/caltracker/internal/views"
)

var filterLabels = map[string]string{
	builder.FilterAll: "All",
	"TRX":             "TRX",
	"Ring":            "Rings",
	"Parallette":      "Parallettes",
	"Pull-up":         "Pull-up Bar",
	"Dumbbell":        "Dumbbells",
	"Bodyweight":      "Bodyweight",
}

// render rebuilds the markup for the current view and consumes the flash.
func (a *App) render(ctx context.Context) error {
	start := time.Now()
	page := views.Page{
		Theme: a.state.Settings.Theme,
		Path:  a.router.CurrentPath(),
		Flash: a.state.Flash,
	}

	var (
		out string
		err error
	)
	switch a.state.CurrentView {
	case models.ViewBuilder:
		page.Title = "Workout Builder"
		out, err = a.views.Builder(a.builderPage(page))
	case models.ViewHistory:
		page.Title = "History"
		out, err = a.views.History(a.historyPage(page))
	case models.ViewProgress:
		page.Title = "Progress"
		out, err = a.views.Progress(views.ProgressPage{
			Page:    page,
			Stats:   calendar.Stats(a.state.History, a.now()),
			Records: calendar.PersonalRecords(a.state.History),
		})
	case models.ViewSettings:
		page.Title = "Settings"
		out, err = a.views.Settings(a.settingsPage(ctx, page))
	case models.ViewOnboarding:
		page.Title = "Welcome"
		page.HideNav = true
		out, err = a.views.Onboarding(a.onboardingPage(page))
	default:
		page.Title = "Workout"
		out, err = a.views.Workout(a.workoutPage(page))
	}
	if err != nil {
		return err
	}
	a.markup = out
	a.metrics.Rendered(time.Since(start))
	return nil
}

func (a *App) workoutPage(page views.Page) views.WorkoutPage {
	key := a.CurrentWorkoutKey()
	wp := views.WorkoutPage{
		Page:        page,
		DateDisplay: a.state.CurrentDate.Format("Monday, January 2, 2006"),
		WorkoutKey:  key,
		WorkoutName: "No Workout",
		Unit:        a.state.Settings.WeightUnit(),
	}

	var exercises []models.Exercise
	if entry := a.state.Entry(); entry != nil {
		wp.Started = true
		wp.Saved = entry.CompletedAt != nil
		exercises = entry.Exercises
		wp.WorkoutKey = entry.WorkoutID
		if tpl := a.state.Templates[entry.WorkoutID]; tpl != nil {
			wp.WorkoutName = tpl.Name
		} else {
			wp.WorkoutName = "Custom Workout"
		}
		wp.HasWorkout = true
	} else if tpl := a.state.Templates[key]; tpl != nil {
		exercises = tpl.Exercises
		wp.WorkoutName = tpl.Name
		wp.HasWorkout = true
	}

	for i := range exercises {
		e := &exercises[i]
		count, target := e.SetScheme()
		row := views.ExerciseRow{
			Index:    i,
			Name:     e.Name,
			Notes:    e.Notes,
			Weighted: e.Type == models.Weighted,
			Timed:    e.Timed(),
		}
		for s := range count {
			sr := views.SetRow{Index: s, Reps: strconv.Itoa(target), Weight: e.Weight}
			if rec := e.Set(s); rec != nil {
				sr.Completed = rec.Completed
				if rec.Reps > 0 {
					sr.Reps = strconv.Itoa(rec.Reps)
				}
				if rec.Weight != "" {
					sr.Weight = rec.Weight
				}
			}
			row.Sets = append(row.Sets, sr)
		}
		wp.Exercises = append(wp.Exercises, row)
	}

	if wp.HasWorkout {
		seen := map[string]bool{}
		for _, o := range generator.Options(a.state.Settings.Equipment) {
			if !seen[o.Entry.Name] {
				seen[o.Entry.Name] = true
				wp.AddOptions = append(wp.AddOptions, o.Entry.Name)
			}
		}
	}
	for _, id := range sortedKeys(a.state.Templates) {
		wp.Workouts = append(wp.Workouts, views.Choice{
			Value:    id,
			Label:    a.state.Templates[id].Name,
			Selected: id == wp.WorkoutKey,
		})
	}
	return wp
}

func sortedKeys(t models.Templates) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (a *App) builderPage(page views.Page) views.BuilderPage {
	bp := views.BuilderPage{Page: page, Library: builder.Library(a.builder.Filter())}

	if d := a.builder.Draft(); d != nil {
		dv := &views.DraftView{ID: d.ID, Name: d.Name, Existing: d.Existing}
		for i, e := range d.Exercises {
			dv.Rows = append(dv.Rows, views.DraftRow{
				Index:    i,
				Name:     e.Name,
				Sets:     e.Sets,
				Weight:   e.Weight,
				Weighted: e.Type == models.Weighted,
				First:    i == 0,
				Last:     i == len(d.Exercises)-1,
			})
		}
		bp.Draft = dv
	}

	for _, id := range sortedKeys(a.state.Templates) {
		tpl := a.state.Templates[id]
		card := views.WorkoutCard{
			ID:       id,
			Name:     tpl.Name,
			Custom:   tpl.IsCustom,
			Count:    len(tpl.Exercises),
			Category: tpl.Category,
		}
		if card.Category == "" {
			card.Category = "Mixed"
		}
		names := make([]string, 0, 3)
		for i, e := range tpl.Exercises {
			if i == 3 {
				names = append(names, "...")
				break
			}
			names = append(names, e.Name)
		}
		card.Preview = strings.Join(names, ", ")
		bp.Workouts = append(bp.Workouts, card)
	}

	for _, cat := range append([]string{builder.FilterAll}, builder.Categories...) {
		bp.Filters = append(bp.Filters, views.Choice{
			Value:    cat,
			Label:    filterLabels[cat],
			Selected: cat == a.builder.Filter(),
		})
	}
	return bp
}

func (a *App) historyPage(page views.Page) views.HistoryPage {
	hp := views.HistoryPage{
		Page:     page,
		ListMode: a.calendar.Mode() == calendar.ModeList,
		Stats:    calendar.Stats(a.state.History, a.now()),
	}
	if hp.ListMode {
		hp.List = a.calendar.List()
	} else {
		hp.Month = a.calendar.Month()
		hp.Selected = a.calendar.Selected()
	}
	return hp
}

func (a *App) settingsPage(ctx context.Context, page views.Page) views.SettingsPage {
	sp := views.SettingsPage{Page: page, Settings: a.state.Settings.Clone()}
	if backend, err := a.store.Backend(ctx); err == nil {
		sp.Backend = backend
	}
	keys := sortedKeys(a.state.Templates)
	for _, day := range models.Weekdays {
		current := a.state.Settings.WeeklyPlan[day]
		row := views.PlanRow{
			Day:     day,
			Label:   strings.ToUpper(day[:1]) + day[1:],
			Options: []views.Choice{{Value: "", Label: "Alternate Day 1 / Day 2", Selected: current == ""}},
		}
		for _, id := range keys {
			row.Options = append(row.Options, views.Choice{
				Value:    id,
				Label:    a.state.Templates[id].Name,
				Selected: id == current,
			})
		}
		sp.Plan = append(sp.Plan, row)
	}
	return sp
}

func (a *App) onboardingPage(page views.Page) views.OnboardingPage {
	setup := a.onboarding.Setup()
	op := views.OnboardingPage{
		Page:       page,
		Step:       a.onboarding.Step(),
		Steps:      models.LastOnboardingStep,
		CanAdvance: a.onboarding.CanAdvance(),
		Equipment:  views.Cards(onboarding.Equipment, setup.Equipment...),
		Levels:     views.Cards(onboarding.Levels, setup.FitnessLevel),
		Goals:      views.Cards(onboarding.Goals, setup.Goals...),
		Splits:     views.Cards(onboarding.Splits, setup.WorkoutSplit),
	}
	if op.Step == onboarding.StepSummary {
		op.Summary = []views.SummaryRow{
			{Label: "Equipment", Value: names(onboarding.Equipment, setup.Equipment)},
			{Label: "Level", Value: onboarding.NameOf(onboarding.Levels, setup.FitnessLevel)},
			{Label: "Goals", Value: names(onboarding.Goals, setup.Goals)},
			{Label: "Split", Value: onboarding.NameOf(onboarding.Splits, setup.WorkoutSplit)},
		}
	}
	return op
}

func names(opts []onboarding.Option, ids []string) string {
	if len(ids) == 0 {
		return "None selected"
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = onboarding.NameOf(opts, id)
	}
	return strings.Join(out, ", ")
}
