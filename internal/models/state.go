package models

import "time"

// View names one of the top-level screens.
type View string

const (
	ViewWorkout    View = "workout"
	ViewBuilder    View = "builder"
	ViewHistory    View = "history"
	ViewProgress   View = "progress"
	ViewSettings   View = "settings"
	ViewOnboarding View = "onboarding"
)

// Onboarding wizard bounds.
const (
	FirstOnboardingStep = 1
	LastOnboardingStep  = 6
)

// State is the whole mutable application state: persisted documents plus
// the ephemeral UI selection.
type State struct {
	Templates Templates
	History   History
	Progress  map[string]any
	Settings  Settings

	CurrentView    View
	CurrentDate    time.Time
	OnboardingStep int
	// Flash is a one-shot message shown on the next render.
	Flash string
}

// NewState returns a state initialised with the default templates and settings.
func NewState(today time.Time) *State {
	return &State{
		Templates:   DefaultTemplates(),
		History:     History{},
		Progress:    map[string]any{},
		Settings:    DefaultSettings(),
		CurrentView: ViewWorkout,
		CurrentDate: today,
	}
}

// Entry returns the history entry for the current date, or nil if the day has not started.
func (s *State) Entry() *HistoryEntry {
	return s.History[FormatDate(s.CurrentDate)]
}
