// Package generator builds workout templates from a user's equipment and
// fitness level by picking catalog exercises per movement pattern.
package generator

import (
	"fmt"
	"slices"

	"github.com/meltforce/caltracker/internal/models"
)

// Split is a weekly training split.
type Split string

const (
	FullBody     Split = "full-body"
	UpperLower   Split = "upper-lower"
	PushPullLegs Split = "push-pull-legs"
)

// Setup is the input to Generate.
type Setup struct {
	Equipment    []string
	FitnessLevel Level
	Goals        []string
	WorkoutSplit Split
}

// RestName is the placeholder used when no exercise exists for a pattern.
const RestName = "Rest"

var restEntry = Entry{Name: RestName, Difficulty: Beginner, Reps: []int{0}}

// Generate returns templates for the setup's split. Unknown splits are
// treated as full-body. The result shares nothing with the catalog.
func Generate(s Setup) models.Templates {
	switch s.WorkoutSplit {
	case UpperLower:
		return upperLower(s)
	case PushPullLegs:
		return pushPullLegs(s)
	default:
		return fullBody(s)
	}
}

func fullBody(s Setup) models.Templates {
	out := models.Templates{}
	for i, letter := range []string{"A", "B", "C"} {
		p := newPicker(s)
		exercises := []models.Exercise{p.pick(Push), p.pick(Pull), p.pick(Legs), p.pick(Core)}
		switch i {
		case 1:
			exercises = append(exercises, p.pick(Push))
		case 2:
			exercises = append(exercises, p.pick(Pull))
		}
		out[fmt.Sprintf("Day%d", i+1)] = &models.WorkoutTemplate{
			Name:      "Workout " + letter,
			Exercises: exercises,
			Category:  "Full Body",
		}
	}
	return out
}

func upperLower(s Setup) models.Templates {
	upper := newPicker(s)
	lower := newPicker(s)
	return models.Templates{
		"Upper": {
			Name:      "Upper Body",
			Exercises: []models.Exercise{upper.pick(Push), upper.pick(Pull), upper.pick(Push), upper.pick(Pull)},
			Category:  "Upper",
		},
		"Lower": {
			Name:      "Lower Body",
			Exercises: []models.Exercise{lower.pick(Legs), lower.pick(Legs), lower.pick(Core)},
			Category:  "Lower",
		},
	}
}

func pushPullLegs(s Setup) models.Templates {
	push, pull, legs := newPicker(s), newPicker(s), newPicker(s)
	return models.Templates{
		"Push": {
			Name:      "Push Day",
			Exercises: []models.Exercise{push.pick(Push), push.pick(Push), push.pick(Push)},
			Category:  "Push",
		},
		"Pull": {
			Name:      "Pull Day",
			Exercises: []models.Exercise{pull.pick(Pull), pull.pick(Pull), pull.pick(Pull)},
			Category:  "Pull",
		},
		"Legs": {
			Name:      "Leg Day",
			Exercises: []models.Exercise{legs.pick(Legs), legs.pick(Legs), legs.pick(Core)},
			Category:  "Legs",
		},
	}
}

// picker selects exercises for one workout, never repeating a name.
type picker struct {
	setup  Setup
	chosen map[string]bool
}

func newPicker(s Setup) *picker {
	return &picker{setup: s, chosen: make(map[string]bool)}
}

func (p *picker) pick(pattern Pattern) models.Exercise {
	e := p.selectEntry(pattern)
	p.chosen[e.Name] = true
	return Format(e, p.setup.FitnessLevel)
}

func (p *picker) selectEntry(pattern Pattern) Entry {
	var candidates []Entry
	for _, eq := range dedupe(p.setup.Equipment) {
		for _, e := range catalog[eq][pattern] {
			if !p.chosen[e.Name] {
				candidates = append(candidates, e)
			}
		}
	}
	for _, e := range candidates {
		if e.Difficulty == p.setup.FitnessLevel {
			return e
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	if bw := catalog[EquipBodyweight][pattern]; len(bw) > 0 {
		return bw[0]
	}
	return restEntry
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// at returns arr[i], or arr[0] when i is out of range.
func at(arr []int, i int) int {
	if i < len(arr) {
		return arr[i]
	}
	if len(arr) > 0 {
		return arr[0]
	}
	return 0
}

// Format turns a catalog entry into a template exercise for the given level.
func Format(e Entry, level Level) models.Exercise {
	idx := level.Index()
	ex := models.Exercise{
		Name:    e.Name,
		Type:    models.Bodyweight,
		Muscles: slices.Clone(e.Muscles),
	}
	if len(e.Duration) > 0 {
		d := at(e.Duration, idx)
		ex.Sets = fmt.Sprintf("3x%ds", d)
		ex.TargetReps = d
	} else {
		r := at(e.Reps, idx)
		ex.Sets = fmt.Sprintf("3x%d", r)
		ex.TargetReps = r
	}
	if len(e.Weight) > 0 {
		ex.Type = models.Weighted
		ex.Weight = fmt.Sprintf("%dlbs", at(e.Weight, idx))
	}
	return ex
}

// Option is a catalog exercise offered for manual addition.
type Option struct {
	Equipment string
	Pattern   Pattern
	Entry     Entry
}

// Options lists the catalog exercises usable with the given equipment, grouped
// by equipment then pattern. An empty list means all catalog equipment.
func Options(equipment []string) []Option {
	if len(equipment) == 0 {
		equipment = CatalogEquipment
	}
	var out []Option
	for _, eq := range dedupe(equipment) {
		for _, pattern := range Patterns {
			for _, e := range catalog[eq][pattern] {
				out = append(out, Option{Equipment: eq, Pattern: pattern, Entry: e})
			}
		}
	}
	return out
}

// Find looks up a catalog entry by name among the given equipment.
func Find(equipment []string, name string) (Entry, bool) {
	for _, o := range Options(equipment) {
		if o.Entry.Name == name {
			return o.Entry, true
		}
	}
	return Entry{}, false
}
