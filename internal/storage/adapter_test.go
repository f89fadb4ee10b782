package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingObserver struct {
	ops       map[string]int
	errs      int
	fallbacks int
}

func (c *countingObserver) StorageOp(op, _ string, err error) {
	if c.ops == nil {
		c.ops = map[string]int{}
	}
	c.ops[op]++
	if err != nil {
		c.errs++
	}
}

func (c *countingObserver) StorageFallback(string, string) { c.fallbacks++ }

func failingOpener(context.Context) (Backend, error) {
	return nil, errors.New("database locked")
}

// TestAdapterFallback verifies that a failing primary silently selects the file store
// and that the choice is made only once.
func TestAdapterFallback(t *testing.T) {
	ctx := context.Background()
	calls := 0
	primary := func(ctx context.Context) (Backend, error) {
		calls++
		return failingOpener(ctx)
	}
	obs := &countingObserver{}
	a := NewAdapter(primary, FileOpener(t.TempDir()), discardLogger(), WithObserver(obs))

	if err := a.Save(ctx, KeyUserSettings, map[string]string{"theme": "dark"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	var got map[string]string
	found, err := a.Load(ctx, KeyUserSettings, &got)
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if got["theme"] != "dark" {
		t.Errorf("theme = %q, want dark", got["theme"])
	}

	name, _ := a.Backend(ctx)
	if name != "file" {
		t.Errorf("backend = %q, want file", name)
	}
	if calls != 1 {
		t.Errorf("primary opened %d times, want 1", calls)
	}
	if obs.fallbacks != 1 {
		t.Errorf("fallbacks = %d, want 1", obs.fallbacks)
	}
	if obs.ops["save"] != 1 || obs.ops["load"] != 1 {
		t.Errorf("ops = %v, want one save and one load", obs.ops)
	}
}

// TestAdapterNoBackend verifies that an error is returned when neither backend opens.
func TestAdapterNoBackend(t *testing.T) {
	a := NewAdapter(failingOpener, failingOpener, discardLogger())
	if err := a.Save(context.Background(), KeyWorkoutData, 1); err == nil {
		t.Fatal("expected error with no usable backend")
	}
}

// TestAdapterLoadMissing verifies that an unknown key is not-found without an error.
func TestAdapterLoadMissing(t *testing.T) {
	a := NewAdapter(SQLiteOpener(filepath.Join(t.TempDir(), "db", "ct.db")), nil, discardLogger())
	defer a.Close()

	var v any
	found, err := a.Load(context.Background(), "nope", &v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("found = true for a key never written")
	}
}

// TestAdapterTimestamp verifies that each write is stamped with the adapter clock.
func TestAdapterTimestamp(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := NewAdapter(SQLiteOpener(filepath.Join(t.TempDir(), "ct.db")), nil, discardLogger(),
		WithClock(func() time.Time { return at }))
	defer a.Close()

	if err := a.Save(ctx, KeyWorkoutProgress, map[string]int{"x": 1}); err != nil {
		t.Fatal(err)
	}
	_, got, err := a.LoadRaw(ctx, KeyWorkoutProgress)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(at) {
		t.Errorf("timestamp = %v, want %v", got, at)
	}
}

// TestExportImportIdentity verifies that exporting from one store and importing into
// an empty one reproduces every document.
func TestExportImportIdentity(t *testing.T) {
	ctx := context.Background()
	src := NewAdapter(SQLiteOpener(filepath.Join(t.TempDir(), "src.db")), nil, discardLogger())
	defer src.Close()
	dst := NewAdapter(nil, FileOpener(t.TempDir()), discardLogger())

	docs := map[string]any{
		KeyWorkoutData:     map[string]any{"Day1": map[string]any{"name": "A", "exercises": []any{}}},
		KeyWorkoutHistory:  map[string]any{"2024-01-01": map[string]any{"workoutId": "Day1"}},
		KeyWorkoutProgress: map[string]any{},
		KeyUserSettings:    map[string]any{"theme": "light", "units": "metric"},
	}
	for k, v := range docs {
		if err := src.Save(ctx, k, v); err != nil {
			t.Fatal(err)
		}
	}

	exported, err := src.Export(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := dst.Import(ctx, exported); err != nil {
		t.Fatal(err)
	}
	again, err := dst.Export(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range Keys {
		if !bytes.Equal(*exported.field(k), *again.field(k)) {
			t.Errorf("%s: got %s, want %s", k, *again.field(k), *exported.field(k))
		}
	}
}

// TestImportSkipsAbsentFields verifies that import leaves keys missing from the
// document untouched.
func TestImportSkipsAbsentFields(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(nil, FileOpener(t.TempDir()), discardLogger())
	if err := a.Save(ctx, KeyWorkoutData, map[string]string{"keep": "me"}); err != nil {
		t.Fatal(err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(`{"userSettings":{"theme":"dark"},"workoutHistory":null}`), &doc); err != nil {
		t.Fatal(err)
	}
	if err := a.Import(ctx, &doc); err != nil {
		t.Fatal(err)
	}

	var data map[string]string
	if found, _ := a.Load(ctx, KeyWorkoutData, &data); !found || data["keep"] != "me" {
		t.Errorf("workoutData = %v, want untouched", data)
	}
	var hist any
	if found, _ := a.Load(ctx, KeyWorkoutHistory, &hist); found {
		t.Error("workoutHistory written from a null field")
	}
	var settings map[string]string
	if found, _ := a.Load(ctx, KeyUserSettings, &settings); !found || settings["theme"] != "dark" {
		t.Errorf("userSettings = %v, want theme dark", settings)
	}
}

// TestClearAll verifies that clearing removes every document.
func TestClearAll(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name   string
		opener Opener
	}{
		{"sqlite", SQLiteOpener(filepath.Join(t.TempDir(), "ct.db"))},
		{"file", FileOpener(t.TempDir())},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAdapter(tc.opener, nil, discardLogger())
			defer a.Close()
			for _, k := range Keys {
				if err := a.Save(ctx, k, 1); err != nil {
					t.Fatal(err)
				}
			}
			if err := a.ClearAll(ctx); err != nil {
				t.Fatal(err)
			}
			doc, err := a.Export(ctx)
			if err != nil {
				t.Fatal(err)
			}
			for _, k := range Keys {
				if present(*doc.field(k)) {
					t.Errorf("%s still present after clear", k)
				}
			}
		})
	}
}
