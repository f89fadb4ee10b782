package generator

// Level is a fitness level; it also indexes the per-level target arrays.
type Level string

const (
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
)

// Index returns the target-array position for l; unknown levels map to beginner.
func (l Level) Index() int {
	switch l {
	case Intermediate:
		return 1
	case Advanced:
		return 2
	default:
		return 0
	}
}

// Pattern is a movement pattern.
type Pattern string

const (
	Push Pattern = "push"
	Pull Pattern = "pull"
	Legs Pattern = "legs"
	Core Pattern = "core"
)

// Patterns lists every movement pattern in display order.
var Patterns = []Pattern{Push, Pull, Legs, Core}

// Entry is one catalog exercise. Exactly one of Reps or Duration is set; Weight
// is set only for loaded movements. All arrays are [beginner, intermediate, advanced].
type Entry struct {
	Name       string
	Difficulty Level
	Reps       []int
	Duration   []int
	Weight     []int
	Muscles    []string
}

// Equipment ids known to the catalog, in catalog order.
const (
	EquipBodyweight  = "bodyweight"
	EquipPullUpBar   = "pull-up-bar"
	EquipDumbbells   = "dumbbells"
	EquipTRX         = "trx"
	EquipRings       = "rings"
	EquipParallettes = "parallettes"
)

// CatalogEquipment lists the equipment with catalog entries, in catalog order.
var CatalogEquipment = []string{EquipBodyweight, EquipPullUpBar, EquipDumbbells, EquipTRX, EquipRings, EquipParallettes}

var catalog = map[string]map[Pattern][]Entry{
	EquipBodyweight: {
		Push: {
			{Name: "Push-ups", Difficulty: Beginner, Reps: []int{8, 12, 15}, Muscles: []string{"chest", "triceps", "shoulders"}},
			{Name: "Diamond Push-ups", Difficulty: Intermediate, Reps: []int{5, 8, 12}, Muscles: []string{"triceps", "chest"}},
			{Name: "Pike Push-ups", Difficulty: Intermediate, Reps: []int{5, 8, 12}, Muscles: []string{"shoulders", "triceps"}},
			{Name: "Handstand Push-ups", Difficulty: Advanced, Reps: []int{3, 5, 8}, Muscles: []string{"shoulders", "triceps"}},
			{Name: "Archer Push-ups", Difficulty: Advanced, Reps: []int{3, 5, 8}, Muscles: []string{"chest", "triceps"}},
		},
		Pull: {
			{Name: "Wall Slides", Difficulty: Beginner, Reps: []int{10, 15, 20}, Muscles: []string{"shoulders", "upper back"}},
			{Name: "Superman", Difficulty: Beginner, Reps: []int{10, 15, 20}, Muscles: []string{"lower back", "glutes"}},
			{Name: "Reverse Snow Angels", Difficulty: Beginner, Reps: []int{12, 15, 20}, Muscles: []string{"upper back", "shoulders"}},
		},
		Legs: {
			{Name: "Squats", Difficulty: Beginner, Reps: []int{12, 15, 20}, Muscles: []string{"quadriceps", "glutes"}},
			{Name: "Lunges", Difficulty: Beginner, Reps: []int{8, 12, 16}, Muscles: []string{"quadriceps", "glutes"}},
			{Name: "Single Leg Squats", Difficulty: Advanced, Reps: []int{3, 5, 8}, Muscles: []string{"quadriceps", "glutes"}},
			{Name: "Calf Raises", Difficulty: Beginner, Reps: []int{15, 20, 25}, Muscles: []string{"calves"}},
		},
		Core: {
			{Name: "Plank", Difficulty: Beginner, Duration: []int{20, 30, 45}, Muscles: []string{"core"}},
			{Name: "Dead Bug", Difficulty: Beginner, Reps: []int{8, 12, 16}, Muscles: []string{"core"}},
			{Name: "Bicycle Crunches", Difficulty: Beginner, Reps: []int{16, 20, 24}, Muscles: []string{"core", "obliques"}},
			{Name: "Mountain Climbers", Difficulty: Intermediate, Reps: []int{20, 30, 40}, Muscles: []string{"core", "shoulders"}},
		},
	},
	EquipPullUpBar: {
		Pull: {
			{Name: "Assisted Pull-ups", Difficulty: Beginner, Reps: []int{3, 5, 8}, Muscles: []string{"lats", "biceps"}},
			{Name: "Negative Pull-ups", Difficulty: Beginner, Reps: []int{3, 5, 8}, Muscles: []string{"lats", "biceps"}},
			{Name: "Pull-ups", Difficulty: Intermediate, Reps: []int{5, 8, 12}, Muscles: []string{"lats", "biceps"}},
			{Name: "Chin-ups", Difficulty: Intermediate, Reps: []int{5, 8, 12}, Muscles: []string{"biceps", "lats"}},
			{Name: "Wide Grip Pull-ups", Difficulty: Intermediate, Reps: []int{4, 6, 10}, Muscles: []string{"lats", "upper back"}},
			{Name: "Archer Pull-ups", Difficulty: Advanced, Reps: []int{2, 4, 6}, Muscles: []string{"lats", "biceps"}},
		},
	},
	EquipDumbbells: {
		Push: {
			{Name: "Dumbbell Press", Difficulty: Beginner, Reps: []int{8, 12, 15}, Weight: []int{15, 25, 35}, Muscles: []string{"chest", "triceps"}},
			{Name: "Dumbbell Flys", Difficulty: Intermediate, Reps: []int{10, 12, 15}, Weight: []int{10, 15, 25}, Muscles: []string{"chest"}},
			{Name: "Overhead Press", Difficulty: Beginner, Reps: []int{8, 10, 12}, Weight: []int{15, 20, 30}, Muscles: []string{"shoulders", "triceps"}},
			{Name: "Lateral Raises", Difficulty: Beginner, Reps: []int{12, 15, 20}, Weight: []int{5, 10, 15}, Muscles: []string{"shoulders"}},
		},
		Pull: {
			{Name: "Dumbbell Rows", Difficulty: Beginner, Reps: []int{8, 12, 15}, Weight: []int{15, 25, 35}, Muscles: []string{"lats", "biceps"}},
			{Name: "Dumbbell Curls", Difficulty: Beginner, Reps: []int{10, 12, 15}, Weight: []int{10, 15, 25}, Muscles: []string{"biceps"}},
			{Name: "Hammer Curls", Difficulty: Beginner, Reps: []int{10, 12, 15}, Weight: []int{10, 15, 25}, Muscles: []string{"biceps", "forearms"}},
			{Name: "Reverse Flys", Difficulty: Intermediate, Reps: []int{12, 15, 20}, Weight: []int{5, 10, 15}, Muscles: []string{"rear delts", "upper back"}},
		},
		Legs: {
			{Name: "Goblet Squats", Difficulty: Beginner, Reps: []int{12, 15, 20}, Weight: []int{15, 25, 35}, Muscles: []string{"quadriceps", "glutes"}},
			{Name: "Dumbbell Lunges", Difficulty: Beginner, Reps: []int{8, 12, 16}, Weight: []int{10, 20, 30}, Muscles: []string{"quadriceps", "glutes"}},
			{Name: "Romanian Deadlifts", Difficulty: Intermediate, Reps: []int{8, 10, 12}, Weight: []int{20, 30, 45}, Muscles: []string{"hamstrings", "glutes"}},
		},
	},
	EquipTRX: {
		Push: {
			{Name: "TRX Chest Press", Difficulty: Beginner, Reps: []int{8, 12, 15}, Muscles: []string{"chest", "triceps"}},
			{Name: "TRX Tricep Press", Difficulty: Intermediate, Reps: []int{6, 10, 12}, Muscles: []string{"triceps"}},
		},
		Pull: {
			{Name: "TRX Rows", Difficulty: Beginner, Reps: []int{8, 12, 15}, Muscles: []string{"lats", "biceps"}},
			{Name: "TRX Face Pulls", Difficulty: Beginner, Reps: []int{12, 15, 20}, Muscles: []string{"rear delts", "upper back"}},
			{Name: "TRX Curls", Difficulty: Intermediate, Reps: []int{8, 12, 15}, Muscles: []string{"biceps"}},
		},
		Legs: {
			{Name: "TRX Squats", Difficulty: Beginner, Reps: []int{12, 15, 20}, Muscles: []string{"quadriceps", "glutes"}},
			{Name: "TRX Lunges", Difficulty: Intermediate, Reps: []int{8, 12, 16}, Muscles: []string{"quadriceps", "glutes"}},
		},
		Core: {
			{Name: "TRX Plank", Difficulty: Intermediate, Duration: []int{20, 30, 45}, Muscles: []string{"core"}},
			{Name: "TRX Pike", Difficulty: Intermediate, Reps: []int{8, 12, 15}, Muscles: []string{"core", "shoulders"}},
			{Name: "TRX Mountain Climbers", Difficulty: Intermediate, Reps: []int{20, 30, 40}, Muscles: []string{"core"}},
		},
	},
	EquipRings: {
		Push: {
			{Name: "Ring Push-ups", Difficulty: Intermediate, Reps: []int{5, 8, 12}, Muscles: []string{"chest", "triceps"}},
			{Name: "Ring Dips", Difficulty: Advanced, Reps: []int{3, 6, 10}, Muscles: []string{"triceps", "chest"}},
		},
		Pull: {
			{Name: "Ring Rows", Difficulty: Beginner, Reps: []int{8, 12, 15}, Muscles: []string{"lats", "biceps"}},
			{Name: "Ring Pull-ups", Difficulty: Intermediate, Reps: []int{5, 8, 12}, Muscles: []string{"lats", "biceps"}},
		},
	},
	EquipParallettes: {
		Push: {
			{Name: "Parallette Push-ups", Difficulty: Intermediate, Reps: []int{6, 10, 15}, Muscles: []string{"chest", "triceps"}},
			{Name: "Parallette Dips", Difficulty: Intermediate, Reps: []int{5, 8, 12}, Muscles: []string{"triceps"}},
		},
		Core: {
			{Name: "L-Sits", Difficulty: Advanced, Duration: []int{5, 10, 20}, Muscles: []string{"core", "hip flexors"}},
			{Name: "Parallette Knee Raises", Difficulty: Intermediate, Reps: []int{8, 12, 15}, Muscles: []string{"core"}},
		},
	},
}
