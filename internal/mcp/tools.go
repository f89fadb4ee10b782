package mcp

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/caltracker/internal/calendar"
	"github.com/meltforce/caltracker/internal/generator"
	"github.com/meltforce/caltracker/internal/models"
)

// defaultDateRange returns start/end history keys, defaulting to the last
// days days up to now.
func defaultDateRange(now time.Time, startStr, endStr string, days int) (string, string, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return "", "", err
		}
	} else {
		end = now
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return "", "", err
		}
	} else {
		start = end.AddDate(0, 0, -days)
	}

	return models.FormatDate(start), models.FormatDate(end), nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(models.DateLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// splitList parses a comma-separated argument into trimmed, non-empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// --- Tool definitions ---

var toolGetTodayWorkout = mcp.NewTool("get_today_workout",
	mcp.WithDescription("Get today's workout: the scheduled template, or the in-progress snapshot with per-set completion once a set has been marked."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Retrieve recorded workouts keyed by date (YYYY-MM-DD). Each entry lists exercises with completed sets, start/completion times and duration."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to today.")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Get workout statistics (total workouts, exercises, completed sets, workouts per week, current and longest streak) plus personal records per exercise."),
)

var toolGenerateWorkouts = mcp.NewTool("generate_workouts",
	mcp.WithDescription("Generate workout templates for the given equipment, fitness level and split without saving them."),
	mcp.WithString("equipment", mcp.Description("Comma-separated equipment ids (bodyweight, pull-up-bar, dumbbells, trx, rings, parallettes). Defaults to the user's equipment.")),
	mcp.WithString("level", mcp.Description("Fitness level. Defaults to the user's level."), mcp.Enum("beginner", "intermediate", "advanced")),
	mcp.WithString("split", mcp.Description("Workout split. Defaults to the user's split."), mcp.Enum("full-body", "upper-lower", "push-pull-legs")),
	mcp.WithString("goals", mcp.Description("Comma-separated goals (e.g. strength, endurance)")),
)

var toolCompleteSet = mcp.NewTool("complete_set",
	mcp.WithDescription("Toggle completion of one set of today's workout. Marking starts today's workout if it has not been started."),
	mcp.WithNumber("exercise_index", mcp.Required(), mcp.Description("Zero-based exercise position in today's workout")),
	mcp.WithNumber("set_index", mcp.Required(), mcp.Description("Zero-based set number")),
)

// --- Tool handlers ---

func (h *handlers) getTodayWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.ds.Today())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultDateRange(h.now(), req.GetString("start", ""), req.GetString("end", ""), 30)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	history, err := h.ds.HistoryBetween(start, end)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

type statsResult struct {
	Summary calendar.Summary  `json:"summary"`
	Records []calendar.Record `json:"records"`
}

func (h *handlers) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(statsResult{Summary: h.ds.Stats(), Records: h.ds.Records()})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) generateWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings := h.ds.Settings()
	setup := generator.Setup{
		Equipment:    settings.Equipment,
		FitnessLevel: generator.Level(settings.FitnessLevel),
		Goals:        settings.Goals,
		WorkoutSplit: generator.Split(settings.WorkoutSplit),
	}
	if eq := splitList(req.GetString("equipment", "")); len(eq) > 0 {
		for _, id := range eq {
			if !slices.Contains(generator.CatalogEquipment, id) {
				return mcp.NewToolResultError("unknown equipment: " + id), nil
			}
		}
		setup.Equipment = eq
	}
	if level := req.GetString("level", ""); level != "" {
		setup.FitnessLevel = generator.Level(level)
	}
	if split := req.GetString("split", ""); split != "" {
		setup.WorkoutSplit = generator.Split(split)
	}
	if goals := splitList(req.GetString("goals", "")); len(goals) > 0 {
		setup.Goals = goals
	}

	result, err := mcp.NewToolResultJSON(generator.Generate(setup))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) completeSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exIdx, err := req.RequireInt("exercise_index")
	if err != nil {
		return mcp.NewToolResultError("exercise_index parameter is required"), nil
	}
	setIdx, err := req.RequireInt("set_index")
	if err != nil {
		return mcp.NewToolResultError("set_index parameter is required"), nil
	}

	rec, err := h.ds.CompleteTodaySet(ctx, exIdx, setIdx)
	switch {
	case errors.Is(err, models.ErrIndexOutOfRange), errors.Is(err, models.ErrUnknownWorkout):
		return mcp.NewToolResultError(err.Error()), nil
	case err != nil:
		h.log.Error("mcp complete_set", "error", err)
		return mcp.NewToolResultError("update failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rec)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
