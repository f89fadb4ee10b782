// Package views renders the application's screens to HTML.
//
// Each screen is a layout plus one page template, parsed once from the
// embedded templates directory. Renderers are pure: they read a view model
// and return markup, never touching application state.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/meltforce/caltracker/internal/builder"
	"github.com/meltforce/caltracker/internal/calendar"
	"github.com/meltforce/caltracker/internal/models"
	"github.com/meltforce/caltracker/internal/onboarding"
)

//go:embed templates/*.html static/*
var files embed.FS

// Static returns the stylesheet and other assets served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var pages = []string{"workout", "builder", "history", "progress", "settings", "onboarding"}

// NavItem is one entry of the bottom navigation bar.
type NavItem struct {
	Path  string
	Icon  string
	Label string
}

var nav = []NavItem{
	{Path: "/workout", Icon: "💪", Label: "Workout"},
	{Path: "/builder", Icon: "🔧", Label: "Builder"},
	{Path: "/history", Icon: "📊", Label: "History"},
	{Path: "/progress", Icon: "📈", Label: "Progress"},
	{Path: "/settings", Icon: "⚙️", Label: "Settings"},
}

// Renderer holds the parsed templates for one deployment prefix.
type Renderer struct {
	prefix string
	tmpl   map[string]*template.Template
}

// New parses every page template. prefix is prepended to all links and form
// targets, e.g. "/gym" when the app is served below /gym.
func New(prefix string) (*Renderer, error) {
	r := &Renderer{prefix: strings.TrimRight(prefix, "/"), tmpl: map[string]*template.Template{}}
	funcs := template.FuncMap{
		"path":   func(p string) string { return r.prefix + p },
		"act":    func(name string) string { return r.prefix + "/action/" + name },
		"inc":    func(i int) int { return i + 1 },
		"nav":    func() []NavItem { return nav },
		"static": func(name string) string { return r.prefix + "/static/" + name },
	}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(files,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		r.tmpl[name] = t
	}
	return r, nil
}

func (r *Renderer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// Page is the part of every view model the layout reads.
type Page struct {
	Title string
	Theme string
	// Path is the current route, used to highlight the navigation entry.
	Path    string
	Flash   string
	HideNav bool
}

// Choice is one option of a select or filter bar.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// SetRow is one set of an exercise on the workout screen.
type SetRow struct {
	Index     int
	Reps      string
	Weight    string
	Completed bool
}

// ExerciseRow is one exercise card on the workout screen.
type ExerciseRow struct {
	Index    int
	Name     string
	Notes    string
	Weighted bool
	Timed    bool
	Sets     []SetRow
}

type WorkoutPage struct {
	Page
	DateDisplay string
	WorkoutKey  string
	WorkoutName string
	HasWorkout  bool
	Started     bool
	Saved       bool
	Unit        string
	Exercises   []ExerciseRow
	// AddOptions are catalog exercise names offered for add-exercise.
	AddOptions []string
	Workouts   []Choice
}

func (r *Renderer) Workout(p WorkoutPage) (string, error) { return r.render("workout", p) }

// WorkoutCard summarises one saved template in the builder library.
type WorkoutCard struct {
	ID       string
	Name     string
	Custom   bool
	Count    int
	Category string
	Preview  string
}

// DraftRow is one exercise of the draft being edited.
type DraftRow struct {
	Index    int
	Name     string
	Sets     string
	Weight   string
	Weighted bool
	First    bool
	Last     bool
}

type DraftView struct {
	ID       string
	Name     string
	Existing bool
	Rows     []DraftRow
}

type BuilderPage struct {
	Page
	Draft    *DraftView
	Workouts []WorkoutCard
	Filters  []Choice
	Library  []builder.LibraryItem
}

func (r *Renderer) Builder(p BuilderPage) (string, error) { return r.render("builder", p) }

type HistoryPage struct {
	Page
	ListMode bool
	Stats    calendar.Summary
	Month    calendar.MonthView
	Selected *calendar.Detail
	List     []calendar.ListEntry
}

func (r *Renderer) History(p HistoryPage) (string, error) { return r.render("history", p) }

type ProgressPage struct {
	Page
	Stats   calendar.Summary
	Records []calendar.Record
}

func (r *Renderer) Progress(p ProgressPage) (string, error) { return r.render("progress", p) }

// PlanRow is one weekday of the weekly plan editor.
type PlanRow struct {
	Day     string
	Label   string
	Options []Choice
}

type SettingsPage struct {
	Page
	Settings models.Settings
	Plan     []PlanRow
	Backend  string
}

func (r *Renderer) Settings(p SettingsPage) (string, error) { return r.render("settings", p) }

// OptionCard is a wizard option and whether it is currently chosen.
type OptionCard struct {
	onboarding.Option
	Selected bool
}

// SummaryRow is one line of the wizard's final review.
type SummaryRow struct {
	Label string
	Value string
}

type OnboardingPage struct {
	Page
	Step       int
	Steps      int
	CanAdvance bool
	Equipment  []OptionCard
	Levels     []OptionCard
	Goals      []OptionCard
	Splits     []OptionCard
	Summary    []SummaryRow
}

func (r *Renderer) Onboarding(p OnboardingPage) (string, error) {
	return r.render("onboarding", p)
}

// Cards marks the options whose ids appear in selected.
func Cards(opts []onboarding.Option, selected ...string) []OptionCard {
	out := make([]OptionCard, len(opts))
	for i, o := range opts {
		out[i] = OptionCard{Option: o}
		for _, s := range selected {
			if s == o.ID {
				out[i].Selected = true
			}
		}
	}
	return out
}
