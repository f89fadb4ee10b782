package router

import "testing"

func newTestRouter(prefix string, seen *[]string) *Router {
	r := New(prefix)
	for _, p := range []string{"/", "/workout", "/history", "/builder"} {
		r.AddRoute(p, func() { *seen = append(*seen, p) })
	}
	return r
}

// TestInitShowsCurrentLocation verifies that Init runs the handler for the
// location the history starts at.
func TestInitShowsCurrentLocation(t *testing.T) {
	var seen []string
	r := newTestRouter("", &seen)
	r.Init(NewSessionHistory("/history"))

	if len(seen) != 1 || seen[0] != "/history" {
		t.Fatalf("handlers = %v, want [/history]", seen)
	}
	if r.CurrentPath() != "/history" {
		t.Errorf("current = %q, want /history", r.CurrentPath())
	}
}

// TestNavigatePushesAndRuns verifies that navigation pushes one entry and runs
// the handler synchronously, and that repeating the same path is a no-op.
func TestNavigatePushesAndRuns(t *testing.T) {
	var seen []string
	r := newTestRouter("", &seen)
	h := NewSessionHistory("/")
	r.Init(h)

	r.Navigate("/workout")
	r.Navigate("/workout")

	if h.Len() != 2 {
		t.Errorf("history entries = %d, want 2", h.Len())
	}
	if got := seen[len(seen)-1]; got != "/workout" {
		t.Errorf("last handler = %q, want /workout", got)
	}
	if len(seen) != 2 {
		t.Errorf("handler calls = %d, want 2", len(seen))
	}
}

// TestUnknownPathFallsBack verifies that unregistered paths resolve to "/".
func TestUnknownPathFallsBack(t *testing.T) {
	var seen []string
	r := newTestRouter("", &seen)
	h := NewSessionHistory("/nowhere")
	r.Init(h)

	if r.CurrentPath() != "/" {
		t.Errorf("current = %q, want /", r.CurrentPath())
	}
	if seen[0] != "/" {
		t.Errorf("handler = %q, want /", seen[0])
	}
}

// TestNavigateUnknownPushesResolvedPath verifies that the pushed entry matches
// the path actually shown.
func TestNavigateUnknownPushesResolvedPath(t *testing.T) {
	var seen []string
	r := newTestRouter("", &seen)
	h := NewSessionHistory("/history")
	r.Init(h)

	r.Navigate("/nowhere")

	if r.CurrentPath() != "/" {
		t.Errorf("current = %q, want /", r.CurrentPath())
	}
	if h.Location() != "/" {
		t.Errorf("pushed location = %q, want /", h.Location())
	}

	r.Navigate("/missing")
	if h.Len() != 2 {
		t.Errorf("history entries = %d, want 2", h.Len())
	}
}

// TestPrefixStripping verifies that the deployment prefix is removed before
// matching and re-applied to pushed entries.
func TestPrefixStripping(t *testing.T) {
	var seen []string
	r := newTestRouter("/gym", &seen)
	h := NewSessionHistory("/gym/history?x=1")
	r.Init(h)

	if r.CurrentPath() != "/history" {
		t.Errorf("current = %q, want /history", r.CurrentPath())
	}

	r.Navigate("/builder")
	if h.Location() != "/gym/builder" {
		t.Errorf("location = %q, want /gym/builder", h.Location())
	}

	tests := map[string]string{
		"/gym":          "/",
		"/gym/":         "/",
		"/gym/workout":  "/workout",
		"/workout":      "/workout",
		"/gym/workout#": "/workout",
	}
	for in, want := range tests {
		if got := r.Strip(in); got != want {
			t.Errorf("Strip(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestArriveRunsHandler verifies that back/forward arrivals resolve through the router.
func TestArriveRunsHandler(t *testing.T) {
	var seen []string
	r := newTestRouter("", &seen)
	h := NewSessionHistory("/")
	r.Init(h)
	r.Navigate("/builder")

	h.Arrive("/workout")
	if r.CurrentPath() != "/workout" {
		t.Errorf("current = %q, want /workout", r.CurrentPath())
	}
	if h.Len() != 2 {
		t.Errorf("arrive pushed an entry: len = %d, want 2", h.Len())
	}
}

// TestLastRegistrationWins verifies that re-registering a path replaces its handler.
func TestLastRegistrationWins(t *testing.T) {
	r := New("")
	got := ""
	r.AddRoute("/", func() { got = "first" })
	r.AddRoute("/", func() { got = "second" })
	r.Init(NewSessionHistory("/"))
	if got != "second" {
		t.Errorf("handler = %q, want second", got)
	}
}
