package models

import (
	"strconv"
	"strings"
	"time"
)

// ExerciseType distinguishes load-free movements from ones performed with added weight.
type ExerciseType string

const (
	Bodyweight ExerciseType = "bodyweight"
	Weighted   ExerciseType = "weighted"
)

// Default set scheme used when an exercise's sets string cannot be parsed.
const (
	DefaultSetCount   = 3
	DefaultTargetReps = 10
)

// SetRecord is the completion marker for one set. A nil *SetRecord in
// Exercise.CompletedSets means the set has never been touched.
type SetRecord struct {
	Completed bool      `json:"completed"`
	Timestamp time.Time `json:"timestamp"`
	Reps      int       `json:"reps,omitempty"`
	Weight    string    `json:"weight,omitempty"`
}

// Exercise is one movement within a workout template or a history snapshot.
type Exercise struct {
	Name          string       `json:"name" validate:"required"`
	Sets          string       `json:"sets" validate:"required"`
	Type          ExerciseType `json:"type" validate:"oneof=bodyweight weighted"`
	TargetReps    int          `json:"targetReps" validate:"gte=0"`
	Weight        string       `json:"weight,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	Muscles       []string     `json:"muscles,omitempty"`
	CompletedSets []*SetRecord `json:"completedSets,omitempty"`
}

// SetScheme parses the "NxM" (or "NxMs" for timed holds) sets string into a set
// count and per-set target. Unparseable parts fall back to the defaults, with the
// target preferring the exercise's own TargetReps.
func (e Exercise) SetScheme() (count, target int) {
	count, target = DefaultSetCount, 0
	parts := strings.SplitN(strings.ToLower(e.Sets), "x", 2)
	if n, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil && n > 0 {
		count = n
	}
	if len(parts) == 2 {
		digits := strings.TrimRight(strings.TrimSpace(parts[1]), "s")
		if n, err := strconv.Atoi(digits); err == nil && n > 0 {
			target = n
		}
	}
	if target == 0 {
		target = e.TargetReps
	}
	if target == 0 {
		target = DefaultTargetReps
	}
	return count, target
}

// Timed reports whether the sets string describes a hold in seconds.
func (e Exercise) Timed() bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(e.Sets)), "s")
}

// Set returns the record for set i, or nil when it has not been marked.
func (e *Exercise) Set(i int) *SetRecord {
	if i < 0 || i >= len(e.CompletedSets) {
		return nil
	}
	return e.CompletedSets[i]
}

// EnsureSet grows CompletedSets so index i exists and returns its record,
// creating an incomplete one if the slot was empty.
func (e *Exercise) EnsureSet(i int) *SetRecord {
	for len(e.CompletedSets) <= i {
		e.CompletedSets = append(e.CompletedSets, nil)
	}
	if e.CompletedSets[i] == nil {
		e.CompletedSets[i] = &SetRecord{}
	}
	return e.CompletedSets[i]
}

// CompletedCount returns how many sets are marked completed.
func (e Exercise) CompletedCount() int {
	n := 0
	for _, s := range e.CompletedSets {
		if s != nil && s.Completed {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the exercise.
func (e Exercise) Clone() Exercise {
	c := e
	if e.Muscles != nil {
		c.Muscles = append([]string(nil), e.Muscles...)
	}
	if e.CompletedSets != nil {
		c.CompletedSets = make([]*SetRecord, len(e.CompletedSets))
		for i, s := range e.CompletedSets {
			if s != nil {
				cp := *s
				c.CompletedSets[i] = &cp
			}
		}
	}
	return c
}

// Fresh returns a deep copy with all completion state cleared.
func (e Exercise) Fresh() Exercise {
	c := e.Clone()
	c.CompletedSets = nil
	return c
}

// CloneExercises deep-copies a list of exercises.
func CloneExercises(in []Exercise) []Exercise {
	if in == nil {
		return nil
	}
	out := make([]Exercise, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}

// WorkoutTemplate is a named, reusable list of exercises.
type WorkoutTemplate struct {
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
	Category  string     `json:"category,omitempty"`
	IsCustom  bool       `json:"isCustom,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Clone returns a deep copy of the template.
func (w *WorkoutTemplate) Clone() *WorkoutTemplate {
	if w == nil {
		return nil
	}
	c := *w
	c.Exercises = CloneExercises(w.Exercises)
	if w.CreatedAt != nil {
		ts := *w.CreatedAt
		c.CreatedAt = &ts
	}
	return &c
}

// Templates maps a workout key (Day1, Push, custom_<uuid>, ...) to its template.
type Templates map[string]*WorkoutTemplate

// Merge copies every entry of other into t, replacing same-named keys.
func (t Templates) Merge(other Templates) {
	for k, v := range other {
		t[k] = v
	}
}

// HistoryEntry is the snapshot of one day's workout.
type HistoryEntry struct {
	WorkoutID   string     `json:"workoutId"`
	Exercises   []Exercise `json:"exercises"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	// Duration is the elapsed time in milliseconds between start and completion.
	Duration int64 `json:"duration,omitempty"`
}

// SetTotals returns completed and total sets across the entry.
func (h *HistoryEntry) SetTotals() (completed, total int) {
	for _, e := range h.Exercises {
		n, _ := e.SetScheme()
		total += n
		completed += e.CompletedCount()
	}
	return completed, total
}

// History maps an ISO date (YYYY-MM-DD) to that day's entry. At most one entry per date.
type History map[string]*HistoryEntry

// DefaultTemplates is the pair of workouts a fresh install starts with.
func DefaultTemplates() Templates {
	return Templates{
		"Day1": {
			Name: "Push/Pull Focus A",
			Exercises: []Exercise{
				{Name: "Pull-ups (Wide Grip)", Sets: "3x6", Type: Bodyweight, TargetReps: 6},
				{Name: "Parallette Push-ups", Sets: "3x10", Type: Bodyweight, TargetReps: 10},
				{Name: "TRX Rows", Sets: "3x12", Type: Bodyweight, TargetReps: 12},
				{Name: "Ring Dips", Sets: "3x8", Type: Bodyweight, TargetReps: 8},
			},
		},
		"Day2": {
			Name: "Power/Core Focus B",
			Exercises: []Exercise{
				{Name: "Ring Pull-ups", Sets: "4x5", Type: Bodyweight, TargetReps: 5},
				{Name: "Pike Push-ups (Wall)", Sets: "3x8", Type: Bodyweight, TargetReps: 8},
				{Name: "TRX Y-Flys", Sets: "3x10", Type: Bodyweight, TargetReps: 10},
				{Name: "TRX Ab Pikes", Sets: "3x12", Type: Bodyweight, TargetReps: 12},
			},
		},
	}
}
