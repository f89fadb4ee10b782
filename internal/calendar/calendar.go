// Package calendar presents workout history as a month grid or a list and
// computes streaks and records from it.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/meltforce/caltracker/internal/action"
	"github.com/meltforce/caltracker/internal/models"
)

// Host is what the calendar needs from the application.
type Host interface {
	State() *models.State
	Persist(ctx context.Context) error
	Navigate(path string)
	Now() time.Time
	CurrentWorkoutKey() string
}

// Mode selects how history is shown.
type Mode string

const (
	ModeCalendar Mode = "calendar"
	ModeList     Mode = "list"
)

// ListLimit is the maximum number of entries shown in list mode.
const ListLimit = 50

// MsgRepeated is flashed after a past workout is copied to today.
const MsgRepeated = "Workout copied to today!"

// ErrNoEntry is returned when a date has no recorded workout.
var ErrNoEntry = errors.New("no workout recorded for date")

// Calendar tracks the displayed month, selected date and display mode.
type Calendar struct {
	host     Host
	month    time.Time
	selected string
	mode     Mode
}

func New(h Host) *Calendar {
	now := h.Now()
	return &Calendar{
		host:  h,
		month: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		mode:  ModeCalendar,
	}
}

// Actions lists the action names Handle accepts.
func (c *Calendar) Actions() []string {
	return []string{
		action.PrevMonth, action.NextMonth, action.SelectDate,
		action.ToggleHistoryView, action.ViewWorkoutDetail, action.RepeatWorkout,
	}
}

// Handle applies one history action.
func (c *Calendar) Handle(ctx context.Context, name string, p action.Payload) (bool, error) {
	switch name {
	case action.PrevMonth:
		c.ChangeMonth(-1)
	case action.NextMonth:
		c.ChangeMonth(1)
	case action.SelectDate:
		return true, c.Select(p.String("date"))
	case action.ToggleHistoryView:
		if c.mode == ModeCalendar {
			c.mode = ModeList
		} else {
			c.mode = ModeCalendar
		}
	case action.ViewWorkoutDetail:
		if err := c.Select(p.String("date")); err != nil {
			return true, err
		}
		c.mode = ModeCalendar
	case action.RepeatWorkout:
		return true, c.Repeat(ctx, p.String("date"))
	default:
		return false, nil
	}
	return true, nil
}

// ChangeMonth moves the displayed month by delta.
func (c *Calendar) ChangeMonth(delta int) {
	c.month = c.month.AddDate(0, delta, 0)
}

// Select marks date as selected and shows its month.
func (c *Calendar) Select(date string) error {
	d, err := models.ParseDate(date)
	if err != nil {
		return fmt.Errorf("%w: %v", action.ErrBadPayload, err)
	}
	c.selected = models.FormatDate(d)
	c.month = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, c.month.Location())
	return nil
}

// Repeat copies the exercises recorded on date, with completion cleared, into
// the template for the current day and shows the workout view.
func (c *Calendar) Repeat(ctx context.Context, date string) error {
	state := c.host.State()
	entry, ok := state.History[date]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoEntry, date)
	}

	name := "Repeated Workout"
	if tpl := state.Templates[entry.WorkoutID]; tpl != nil && entry.WorkoutID != "" {
		name = tpl.Name
	}
	fresh := make([]models.Exercise, len(entry.Exercises))
	for i, e := range entry.Exercises {
		fresh[i] = e.Fresh()
	}
	state.Templates[c.host.CurrentWorkoutKey()] = &models.WorkoutTemplate{Name: name, Exercises: fresh}

	if err := c.host.Persist(ctx); err != nil {
		return err
	}
	c.host.Navigate("/workout")
	state.Flash = MsgRepeated
	return nil
}

// Mode returns the current display mode.
func (c *Calendar) Mode() Mode { return c.mode }

// Day is one cell of the month grid.
type Day struct {
	Date          string
	Number        int
	InMonth       bool
	Today         bool
	Selected      bool
	HasWorkout    bool
	ExerciseCount int
}

// MonthView is six weeks starting on the Sunday on or before the 1st.
type MonthView struct {
	Title string
	Weeks [6][7]Day
}

// Month builds the grid for the displayed month.
func (c *Calendar) Month() MonthView {
	history := c.host.State().History
	today := models.FormatDate(c.host.Now())

	mv := MonthView{Title: c.month.Format("January 2006")}
	d := c.month.AddDate(0, 0, -int(c.month.Weekday()))
	for w := range 6 {
		for wd := range 7 {
			key := models.FormatDate(d)
			entry := history[key]
			mv.Weeks[w][wd] = Day{
				Date:       key,
				Number:     d.Day(),
				InMonth:    d.Month() == c.month.Month(),
				Today:      key == today,
				Selected:   key == c.selected,
				HasWorkout: entry != nil,
			}
			if entry != nil {
				mv.Weeks[w][wd].ExerciseCount = len(entry.Exercises)
			}
			d = d.AddDate(0, 0, 1)
		}
	}
	return mv
}

// ListEntry summarises one recorded day.
type ListEntry struct {
	Date           string
	DayName        string
	Display        string
	WorkoutName    string
	Exercises      int
	CompletedSets  int
	TotalSets      int
	CompletionRate int
	RateClass      string
	Duration       string
}

// List returns up to ListLimit entries, newest first.
func (c *Calendar) List() []ListEntry {
	state := c.host.State()
	keys := make([]string, 0, len(state.History))
	for k := range state.History {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if len(keys) > ListLimit {
		keys = keys[:ListLimit]
	}

	out := make([]ListEntry, 0, len(keys))
	for _, k := range keys {
		entry := state.History[k]
		done, total := entry.SetTotals()
		le := ListEntry{
			Date:          k,
			WorkoutName:   workoutName(state.Templates, entry),
			Exercises:     len(entry.Exercises),
			CompletedSets: done,
			TotalSets:     total,
			Duration:      FormatDuration(entry.Duration),
		}
		if d, err := models.ParseDate(k); err == nil {
			le.DayName = d.Format("Monday")
			le.Display = d.Format("Jan 2, 2006")
		}
		if total > 0 {
			le.CompletionRate = int(float64(done)/float64(total)*100 + 0.5)
		}
		le.RateClass = RateClass(le.CompletionRate)
		out = append(out, le)
	}
	return out
}

// RateClass buckets a completion percentage for styling.
func RateClass(rate int) string {
	switch {
	case rate >= 80:
		return "high"
	case rate >= 50:
		return "medium"
	default:
		return "low"
	}
}

// FormatDuration renders milliseconds as "45m" or "1h 5m"; zero renders empty.
func FormatDuration(ms int64) string {
	if ms <= 0 {
		return ""
	}
	minutes := ms / int64(time.Minute/time.Millisecond)
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func workoutName(templates models.Templates, entry *models.HistoryEntry) string {
	if entry.WorkoutID == "" {
		return "Custom Workout"
	}
	if tpl := templates[entry.WorkoutID]; tpl != nil {
		return tpl.Name
	}
	return "Unknown Workout"
}

// Badge is one set in the detail panel.
type Badge struct {
	Label     string
	Completed bool
}

// DetailExercise lists the sets of one exercise on the selected date.
type DetailExercise struct {
	Name   string
	Badges []Badge
}

// Detail describes the selected date.
type Detail struct {
	Date        string
	Title       string
	Found       bool
	WorkoutName string
	Exercises   []DetailExercise
}

// Selected returns the detail panel for the selected date, or nil if none.
func (c *Calendar) Selected() *Detail {
	if c.selected == "" {
		return nil
	}
	d := &Detail{Date: c.selected}
	if t, err := models.ParseDate(c.selected); err == nil {
		d.Title = t.Format("Monday, January 2")
	}
	state := c.host.State()
	entry := state.History[c.selected]
	if entry == nil {
		return d
	}
	d.Found = true
	d.WorkoutName = workoutName(state.Templates, entry)
	for _, e := range entry.Exercises {
		de := DetailExercise{Name: e.Name}
		for _, set := range e.CompletedSets {
			reps := e.TargetReps
			weight := e.Weight
			completed := false
			if set != nil {
				completed = set.Completed
				if set.Reps > 0 {
					reps = set.Reps
				}
				if set.Weight != "" {
					weight = set.Weight
				}
			}
			label := fmt.Sprint(reps)
			if e.Type == models.Weighted {
				if weight == "" {
					weight = "0"
				}
				label += "x" + weight
			}
			de.Badges = append(de.Badges, Badge{Label: label, Completed: completed})
		}
		if len(de.Badges) == 0 {
			sets := e.Sets
			if sets == "" {
				sets = "3x10"
			}
			de.Badges = []Badge{{Label: sets}}
		}
		d.Exercises = append(d.Exercises, de)
	}
	return d
}
