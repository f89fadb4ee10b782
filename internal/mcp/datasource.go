package mcp

import (
	"context"

	"github.com/meltforce/caltracker/internal/app"
	"github.com/meltforce/caltracker/internal/calendar"
	"github.com/meltforce/caltracker/internal/models"
)

// DataSource is what the MCP tools read and change. *app.App satisfies it.
type DataSource interface {
	Today() app.DaySummary
	HistoryBetween(start, end string) (models.History, error)
	Stats() calendar.Summary
	Records() []calendar.Record
	Settings() models.Settings
	CompleteTodaySet(ctx context.Context, exIdx, setIdx int) (*models.SetRecord, error)
}

// Compile-time check: *app.App satisfies DataSource.
var _ DataSource = (*app.App)(nil)
