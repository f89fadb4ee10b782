package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/caltracker/internal/app"
	"github.com/meltforce/caltracker/internal/metrics"
	"github.com/meltforce/caltracker/internal/storage"
)

const testKey = "secret"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, prefix string) *Server {
	t.Helper()
	store := storage.NewAdapter(storage.FileOpener(t.TempDir()), nil, discardLogger())
	friday := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	a, err := app.New(context.Background(), store, app.Options{
		Prefix: prefix,
		Now:    func() time.Time { return friday },
		Log:    discardLogger(),
	})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	return New(a, discardLogger(), Options{Prefix: prefix, APIKey: testKey})
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func apiRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("X-API-Key", testKey)
	return req
}

// TestViewsUnderPrefix verifies that pages, assets and the bare root are served
// below the deployment prefix.
func TestViewsUnderPrefix(t *testing.T) {
	s := newTestServer(t, "/gym")

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/gym/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /gym/ status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Welcome to CalTracker") {
		t.Error("first visit should show onboarding")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/gym/history", nil))
	if !strings.Contains(rec.Body.String(), "History") {
		t.Error("history view not rendered")
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/gym/static/style.css", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("stylesheet status = %d, want 200", rec.Code)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/gym/" {
		t.Errorf("root = %d %q, want redirect to /gym/", rec.Code, rec.Header().Get("Location"))
	}
}

// TestActionRedirectsToCurrentView verifies the post/redirect/get cycle.
func TestActionRedirectsToCurrentView(t *testing.T) {
	s := newTestServer(t, "/gym")

	do(t, s, httptest.NewRequest(http.MethodGet, "/gym/workout", nil))
	rec := do(t, s, postForm("/gym/action/complete-set", url.Values{"exerciseIndex": {"0"}, "setIndex": {"0"}}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/gym/workout" {
		t.Errorf("location = %q, want /gym/workout", loc)
	}

	rec = do(t, s, apiRequest(http.MethodGet, "/gym/api/v1/today", nil))
	var today app.DaySummary
	if err := json.NewDecoder(rec.Body).Decode(&today); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !today.Started || today.CompletedSets != 1 {
		t.Errorf("today = %+v, want started with one completed set", today)
	}
}

// TestFlashSurvivesRedirect verifies that a message set by an action is shown
// on the page the redirect leads to, and only there.
func TestFlashSurvivesRedirect(t *testing.T) {
	s := newTestServer(t, "")

	do(t, s, postForm("/action/create-new-workout", nil))
	rec := do(t, s, postForm("/action/save-workout", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if loc != "/builder" {
		t.Fatalf("location = %q, want /builder", loc)
	}

	const msg = "Please add at least one exercise to the workout."
	rec = do(t, s, httptest.NewRequest(http.MethodGet, loc, nil))
	if !strings.Contains(rec.Body.String(), msg) {
		t.Errorf("GET %s does not show %q", loc, msg)
	}
	rec = do(t, s, httptest.NewRequest(http.MethodGet, loc, nil))
	if strings.Contains(rec.Body.String(), msg) {
		t.Error("message shown again on the next page load")
	}
}

// TestAssetRequestKeepsView verifies that a stray asset request is a 404 and
// does not move the app away from the page being shown.
func TestAssetRequestKeepsView(t *testing.T) {
	s := newTestServer(t, "")

	do(t, s, httptest.NewRequest(http.MethodGet, "/history", nil))
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /favicon.ico status = %d, want 404", rec.Code)
	}

	rec = do(t, s, postForm("/action/next-month", nil))
	if loc := rec.Header().Get("Location"); loc != "/history" {
		t.Errorf("location = %q, want /history", loc)
	}

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/static/favicon.svg", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /static/favicon.svg status = %d, want 200", rec.Code)
	}
}

func TestActionErrors(t *testing.T) {
	s := newTestServer(t, "")

	tests := []struct {
		name string
		path string
		form url.Values
		want int
	}{
		{"unknown action", "/action/fly", nil, http.StatusNotFound},
		{"missing index", "/action/complete-set", url.Values{"setIndex": {"0"}}, http.StatusBadRequest},
		{"out of range", "/action/complete-set", url.Values{"exerciseIndex": {"9"}, "setIndex": {"0"}}, http.StatusBadRequest},
		{"unknown workout", "/action/assign-workout", url.Values{"workoutId": {"ghost"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, postForm(tt.path, tt.form))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestAPIKeyRequired(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key status = %d, want 401", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("X-API-Key", "wrong")
	if rec := do(t, s, req); rec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec.Code)
	}
	if rec := do(t, s, apiRequest(http.MethodGet, "/api/v1/stats", nil)); rec.Code != http.StatusOK {
		t.Errorf("valid key status = %d, want 200", rec.Code)
	}
}

// TestExportImportAPI moves a history entry between two instances.
func TestExportImportAPI(t *testing.T) {
	src := newTestServer(t, "")
	do(t, src, postForm("/action/complete-set", url.Values{"exerciseIndex": {"1"}, "setIndex": {"2"}}))

	rec := do(t, src, apiRequest(http.MethodGet, "/api/v1/export", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	exported := rec.Body.Bytes()

	dst := newTestServer(t, "")
	rec = do(t, dst, apiRequest(http.MethodPost, "/api/v1/import", bytes.NewReader(exported)))
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, dst, apiRequest(http.MethodGet, "/api/v1/history?start=2024-01-05&end=2024-01-05", nil))
	var history map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := history["2024-01-05"]; !ok {
		t.Errorf("imported history missing 2024-01-05: %v", history)
	}

	rec = do(t, dst, apiRequest(http.MethodPost, "/api/v1/import", strings.NewReader("{not json")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed import status = %d, want 400", rec.Code)
	}
	rec = do(t, dst, apiRequest(http.MethodPost, "/api/v1/import", strings.NewReader(`{"workoutHistory":[1,2]}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("undecodable history status = %d, want 400", rec.Code)
	}
	rec = do(t, dst, apiRequest(http.MethodGet, "/api/v1/history?start=nope", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
}

func TestExportDownloadAndUpload(t *testing.T) {
	s := newTestServer(t, "")
	do(t, s, postForm("/action/toggle-theme", nil))

	rec := do(t, s, postForm("/action/export-data", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, `attachment; filename="caltracker-backup-`) {
		t.Errorf("content disposition = %q", cd)
	}
	file := rec.Body.Bytes()

	other := newTestServer(t, "")
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "backup.json")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(file)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/action/import-data", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = do(t, other, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/workout" {
		t.Errorf("location = %q, want /workout", loc)
	}
	if !strings.Contains(other.app.Markup(), `data-theme="dark"`) {
		t.Error("imported theme not applied")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()
	store := storage.NewAdapter(storage.FileOpener(t.TempDir()), nil, discardLogger())
	a, err := app.New(context.Background(), store, app.Options{Log: discardLogger(), Metrics: m})
	if err != nil {
		t.Fatal(err)
	}
	s := New(a, discardLogger(), Options{Metrics: m, Gatherer: reg})

	do(t, s, httptest.NewRequest(http.MethodGet, "/workout", nil))
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `caltracker_test_request_duration_seconds_count{method="GET",route="/workout",status_code="200"} 1`) {
		t.Errorf("request histogram missing:\n%s", rec.Body.String())
	}
}
