package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Keys under which the application documents are stored.
const (
	KeyWorkoutData     = "workoutData"
	KeyWorkoutHistory  = "workoutHistory"
	KeyWorkoutProgress = "workoutProgress"
	KeyUserSettings    = "userSettings"
)

// Keys lists every document key in export order.
var Keys = []string{KeyWorkoutData, KeyWorkoutHistory, KeyWorkoutProgress, KeyUserSettings}

// ErrNotFound is returned by a Backend when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Backend is a key/value store of JSON documents, each stamped with its write time.
type Backend interface {
	Name() string
	Put(ctx context.Context, key string, value []byte, at time.Time) error
	Get(ctx context.Context, key string) (value []byte, at time.Time, err error)
	Clear(ctx context.Context) error
	Close() error
}

// Document is the export/import envelope. Absent fields are skipped on import.
type Document struct {
	WorkoutData     json.RawMessage `json:"workoutData,omitempty"`
	WorkoutHistory  json.RawMessage `json:"workoutHistory,omitempty"`
	WorkoutProgress json.RawMessage `json:"workoutProgress,omitempty"`
	UserSettings    json.RawMessage `json:"userSettings,omitempty"`
	ExportedAt      time.Time       `json:"exportedAt"`
}

func (d *Document) field(key string) *json.RawMessage {
	switch key {
	case KeyWorkoutData:
		return &d.WorkoutData
	case KeyWorkoutHistory:
		return &d.WorkoutHistory
	case KeyWorkoutProgress:
		return &d.WorkoutProgress
	case KeyUserSettings:
		return &d.UserSettings
	}
	return nil
}

// present reports whether an import field carries a value.
func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
