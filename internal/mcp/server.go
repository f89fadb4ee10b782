package mcp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("CalTracker", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("CalTracker calisthenics workout tracker. Read today's workout, history, statistics and personal records, generate workout plans, and mark sets of today's workout as completed."),
	)

	h := &handlers{ds: ds, log: log, now: time.Now}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetTodayWorkout, Handler: h.getTodayWorkout},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
		server.ServerTool{Tool: toolGenerateWorkouts, Handler: h.generateWorkouts},
		server.ServerTool{Tool: toolCompleteSet, Handler: h.completeSet},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resSettings, Handler: h.settings},
		server.ServerResource{Resource: resPersonalRecords, Handler: h.personalRecords},
	)

	return s
}

// Handler serves s over the streamable HTTP transport, for mounting at /mcp.
func Handler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
	now func() time.Time
}

// --- Resource definitions ---

var resSettings = mcp.NewResource(
	"caltracker://settings",
	"Settings",
	mcp.WithResourceDescription("User preferences: theme, units, rest time, equipment, fitness level, goals, split and weekly plan"),
	mcp.WithMIMEType("application/json"),
)

var resPersonalRecords = mcp.NewResource(
	"caltracker://personal_records",
	"Personal Records",
	mcp.WithResourceDescription("Best reps and load per exercise across all recorded workouts"),
	mcp.WithMIMEType("application/json"),
)
