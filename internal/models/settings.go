package models

import "slices"

// Themes and unit systems accepted in Settings.
const (
	ThemeLight    = "light"
	ThemeDark     = "dark"
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// Settings holds user preferences and the choices made during onboarding.
type Settings struct {
	Theme               string            `json:"theme" validate:"oneof=light dark"`
	Units               string            `json:"units" validate:"oneof=metric imperial"`
	DefaultRestTime     int               `json:"defaultRestTime" validate:"min=15,max=600"`
	CompletedOnboarding bool              `json:"completedOnboarding"`
	Equipment           []string          `json:"equipment,omitempty"`
	FitnessLevel        string            `json:"fitnessLevel,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Goals               []string          `json:"goals,omitempty"`
	WorkoutSplit        string            `json:"workoutSplit,omitempty" validate:"omitempty,oneof=full-body upper-lower push-pull-legs"`
	WeeklyPlan          map[string]string `json:"weeklyPlan,omitempty" validate:"dive,keys,weekday,endkeys,required"`
}

// DefaultSettings returns the preferences used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		Theme:           ThemeLight,
		Units:           UnitsMetric,
		DefaultRestTime: 90,
	}
}

// Clone returns a copy that shares no slices or maps with s.
func (s Settings) Clone() Settings {
	c := s
	c.Equipment = slices.Clone(s.Equipment)
	c.Goals = slices.Clone(s.Goals)
	if s.WeeklyPlan != nil {
		c.WeeklyPlan = make(map[string]string, len(s.WeeklyPlan))
		for k, v := range s.WeeklyPlan {
			c.WeeklyPlan[k] = v
		}
	}
	return c
}

// WeightUnit returns the short label for the configured unit system.
func (s Settings) WeightUnit() string {
	if s.Units == UnitsImperial {
		return "lbs"
	}
	return "kg"
}
