// Package router maps URL paths to view handlers and keeps the current path in
// step with a navigable history.
package router

import (
	"strings"
	"sync"
)

// Handler selects and shows a view. It takes no arguments; the path is
// available from the router.
type Handler func()

// History is the navigable-path primitive the router drives. Push records a new
// entry; OnPop registers the callback run when the user moves back or forward.
type History interface {
	Location() string
	Push(path string)
	OnPop(fn func())
}

// Router resolves paths to handlers. Paths are matched after the deployment
// prefix is stripped; unknown paths resolve to "/".
type Router struct {
	prefix  string
	routes  map[string]Handler
	current string
	history History
}

// New creates a router for the given deployment prefix ("" for none).
func New(prefix string) *Router {
	return &Router{
		prefix: strings.TrimSuffix(prefix, "/"),
		routes: make(map[string]Handler),
	}
}

// AddRoute registers h for path. A later registration for the same path wins.
func (r *Router) AddRoute(path string, h Handler) {
	r.routes[path] = h
}

// Init binds the router to h, shows the view for the current location and
// subscribes to back/forward notifications.
func (r *Router) Init(h History) {
	r.history = h
	h.OnPop(r.handleRoute)
	r.handleRoute()
}

// Navigate moves to path, pushing a history entry and running its handler.
// Navigating to the current path does nothing.
func (r *Router) Navigate(path string) {
	path = r.resolve(path)
	if path == r.current {
		return
	}
	if r.history != nil {
		r.history.Push(r.URL(path))
	}
	r.show(path)
}

// resolve returns path if it has a route and "/" otherwise.
func (r *Router) resolve(path string) string {
	if _, ok := r.routes[path]; ok {
		return path
	}
	return "/"
}

// CurrentPath returns the resolved path of the view being shown.
func (r *Router) CurrentPath() string {
	return r.current
}

// URL returns path with the deployment prefix applied.
func (r *Router) URL(path string) string {
	if path == "" {
		path = "/"
	}
	return r.prefix + path
}

// Strip removes the deployment prefix from location.
func (r *Router) Strip(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	if r.prefix != "" && (location == r.prefix || strings.HasPrefix(location, r.prefix+"/")) {
		location = location[len(r.prefix):]
	}
	if location == "" {
		return "/"
	}
	return location
}

func (r *Router) handleRoute() {
	loc := "/"
	if r.history != nil {
		loc = r.history.Location()
	}
	r.show(r.Strip(loc))
}

func (r *Router) show(path string) {
	path = r.resolve(path)
	h := r.routes[path]
	r.current = path
	if h != nil {
		h()
	}
}

// SessionHistory is an in-memory History. Arrive is called when the browser
// lands on a location it navigated to by itself (typed URL, back, forward).
type SessionHistory struct {
	mu       sync.Mutex
	entries  []string
	location string
	onPop    func()
}

// NewSessionHistory starts a history at location.
func NewSessionHistory(location string) *SessionHistory {
	return &SessionHistory{location: location, entries: []string{location}}
}

func (s *SessionHistory) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

func (s *SessionHistory) Push(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = path
	s.entries = append(s.entries, path)
}

func (s *SessionHistory) OnPop(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPop = fn
}

// Arrive moves to location without pushing an entry and notifies the subscriber.
func (s *SessionHistory) Arrive(location string) {
	s.mu.Lock()
	s.location = location
	fn := s.onPop
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Len returns the number of entries pushed so far, including the initial one.
func (s *SessionHistory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
