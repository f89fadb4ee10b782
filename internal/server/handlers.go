package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/caltracker/internal/action"
	"github.com/meltforce/caltracker/internal/app"
	"github.com/meltforce/caltracker/internal/builder"
	"github.com/meltforce/caltracker/internal/calendar"
	"github.com/meltforce/caltracker/internal/models"
	"github.com/meltforce/caltracker/internal/storage"
)

// maxUpload bounds import bodies and multipart forms.
const maxUpload = 10 << 20

// statusFor maps an action or import error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, action.ErrUnknown):
		return http.StatusNotFound
	case errors.Is(err, action.ErrBadPayload),
		errors.Is(err, models.ErrIndexOutOfRange),
		errors.Is(err, models.ErrInvalidValue),
		errors.Is(err, models.ErrUnknownWorkout),
		errors.Is(err, calendar.ErrNoEntry),
		errors.Is(err, builder.ErrNoDraft),
		errors.Is(err, app.ErrInvalidImport):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	markup, err := s.app.Visit(r.Context(), r.URL.Path)
	if err != nil {
		s.log.Error("render error", "path", r.URL.Path, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, markup)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	p := action.Payload{}
	for k, v := range r.PostForm {
		if len(v) > 0 {
			p[k] = v[0]
		}
	}

	location, err := s.app.Dispatch(r.Context(), name, p)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.log.Error("action error", "action", name, "error", err)
		}
		http.Error(w, err.Error(), status)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// handleExportDownload serves the export document as a file download.
func (s *Server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	doc, err := s.app.Export(r.Context())
	if err != nil {
		s.log.Error("export error", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	name := fmt.Sprintf("caltracker-backup-%s.json", time.Now().Format(models.DateLayout))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		s.log.Warn("export write failed", "error", err)
	}
}

// handleImportUpload reads the "file" part of a multipart form.
func (s *Server) handleImportUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer f.Close()

	doc, err := decodeDocument(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.app.Import(r.Context(), doc); err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.log.Error("import error", "error", err)
		}
		http.Error(w, err.Error(), status)
		return
	}
	http.Redirect(w, r, s.prefix+s.app.CurrentPath(), http.StatusSeeOther)
}

func decodeDocument(r io.Reader) (*storage.Document, error) {
	var doc storage.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return &doc, nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.app.Export(r.Context())
	if err != nil {
		s.log.Error("export error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDocument(http.MaxBytesReader(w, r.Body, maxUpload))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.app.Import(r.Context(), doc); err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.log.Error("import error", "error", err)
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

type statsResponse struct {
	Summary calendar.Summary  `json:"summary"`
	Records []calendar.Record `json:"records"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{Summary: s.app.Stats(), Records: s.app.Records()})
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Today())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	history, err := s.app.HistoryBetween(q.Get("start"), q.Get("end"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeHTML(w http.ResponseWriter, status int, markup string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, markup)
}
