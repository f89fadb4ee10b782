package builder

import "github.com/meltforce/caltracker/internal/models"

// FilterAll shows every library category.
const FilterAll = "all"

// Categories lists the library's equipment categories in display order.
var Categories = []string{"TRX", "Ring", "Parallette", "Pull-up", "Dumbbell", "Bodyweight"}

// Icons are the short glyphs shown beside each category.
var Icons = map[string]string{
	"TRX":        "⟆⟇",
	"Ring":       "◯◯",
	"Parallette": "┃┃",
	"Pull-up":    "━━",
	"Dumbbell":   "🏋️",
	"Bodyweight": "🏃",
}

func bw(name, sets string, reps int) models.Exercise {
	return models.Exercise{Name: name, Sets: sets, Type: models.Bodyweight, TargetReps: reps}
}

func wt(name, sets, weight string, reps int) models.Exercise {
	return models.Exercise{Name: name, Sets: sets, Type: models.Weighted, Weight: weight, TargetReps: reps}
}

var library = map[string][]models.Exercise{
	"TRX": {
		bw("TRX Rows", "3x12", 12),
		bw("TRX Chest Press", "3x10", 10),
		bw("TRX Curls", "3x12", 12),
		bw("TRX Tricep Extensions", "3x10", 10),
		bw("TRX T-Flys", "3x8", 8),
		bw("TRX Y-Flys", "3x8", 8),
		bw("TRX Supermans", "3x15", 15),
		bw("TRX Ab Pikes", "3x12", 12),
	},
	"Ring": {
		bw("Ring Dips", "3x6", 6),
		bw("Ring Pull-ups", "3x5", 5),
		bw("Ring Rows", "3x10", 10),
		bw("Ring Push-ups", "3x8", 8),
		bw("Ring L-Sits", "3x15s", 15),
		bw("Ring Support Holds", "3x30s", 30),
		bw("Ring Muscle-ups", "3x2", 2),
	},
	"Parallette": {
		bw("Parallette Push-ups", "3x8", 8),
		bw("Pike Push-ups (Wall)", "3x6", 6),
		bw("Parallette L-Sits", "3x20s", 20),
		bw("Parallette Handstands", "3x30s", 30),
		bw("Parallette Dips", "3x10", 10),
	},
	"Pull-up": {
		bw("Pull-ups (Wide Grip)", "3x6", 6),
		bw("Pull-ups (Close Grip)", "3x6", 6),
		bw("Chin-ups", "3x8", 8),
		bw("Archer Pull-ups", "3x4", 4),
		bw("L-Sit Pull-ups", "3x5", 5),
	},
	"Dumbbell": {
		wt("Dumbbell Curls", "3x12", "30lbs", 12),
		wt("Dumbbell Overhead Press", "3x8", "25lbs", 8),
		wt("Dumbbell Rows", "3x10", "35lbs", 10),
		wt("Dumbbell Flys", "3x10", "20lbs", 10),
	},
	"Bodyweight": {
		bw("Push-ups", "3x15", 15),
		bw("Diamond Push-ups", "3x8", 8),
		bw("Pike Push-ups", "3x10", 10),
		bw("Burpees", "3x10", 10),
		bw("Plank", "3x60s", 60),
		bw("Squats", "3x20", 20),
	},
}

// LibraryItem is one exercise offered in the builder.
type LibraryItem struct {
	Category string
	Icon     string
	Exercise models.Exercise
}

// Library returns the exercises in the given category, or all of them for FilterAll.
func Library(filter string) []LibraryItem {
	var out []LibraryItem
	for _, cat := range Categories {
		if filter != FilterAll && filter != cat {
			continue
		}
		for _, e := range library[cat] {
			out = append(out, LibraryItem{Category: cat, Icon: Icons[cat], Exercise: e.Clone()})
		}
	}
	return out
}

// CategoryOf returns the library category containing name, defaulting to Bodyweight.
func CategoryOf(name string) string {
	for _, cat := range Categories {
		for _, e := range library[cat] {
			if e.Name == name {
				return cat
			}
		}
	}
	return "Bodyweight"
}

func lookup(name string) (models.Exercise, bool) {
	for _, item := range Library(FilterAll) {
		if item.Exercise.Name == name {
			return item.Exercise, true
		}
	}
	return models.Exercise{}, false
}
