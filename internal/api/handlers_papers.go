package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/papervox/internal/library"
	"github.com/dgallion1/papervox/internal/pack"
	"github.com/dgallion1/papervox/internal/playback"
	"github.com/dgallion1/papervox/internal/structure"
)

// maxConfigBytes bounds a playback configuration body.
const maxConfigBytes = 64 << 10

func (s *Server) handleListPapers(w http.ResponseWriter, r *http.Request) {
	entries, err := s.library.List(r.Context())
	if err != nil {
		s.log.Error("list papers", "error", err)
		jsonError(w, "failed to list papers", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"papers": entries,
		"count":  len(entries),
	})
}

func (s *Server) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadPack(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePaper(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "packID")
	err := s.library.Delete(r.Context(), id)
	switch {
	case errors.Is(err, library.ErrNotFound):
		jsonError(w, "paper not found", http.StatusNotFound)
	case err != nil:
		s.log.Error("delete paper", "pack_id", id, "error", err)
		jsonError(w, "failed to delete paper", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// sequenceRequest mirrors pack.Config, but keeps an absent
// enabled_sections apart from an empty one.
type sequenceRequest struct {
	DocumentID      string    `json:"document_id"`
	EnabledSections *[]string `json:"enabled_sections"`
	IncludeAppendix bool      `json:"include_appendix"`
	IncludeSummary  bool      `json:"include_summary"`
}

func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConfigBytes))
	if err != nil {
		jsonError(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	if err := validateJSON(s.sequenceSchema, body); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req sequenceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		jsonError(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	p, ok := s.loadPack(w, r)
	if !ok {
		return
	}
	if req.DocumentID != "" && req.DocumentID != p.ID {
		jsonError(w, "document_id does not match paper", http.StatusBadRequest)
		return
	}

	cfg := pack.DefaultConfig(p)
	if req.EnabledSections != nil {
		for _, id := range *req.EnabledSections {
			if _, ok := p.Section(id); !ok {
				jsonError(w, "unknown section: "+id, http.StatusBadRequest)
				return
			}
		}
		cfg = cfg.WithSections(*req.EnabledSections...)
	}
	cfg.IncludeAppendix = req.IncludeAppendix
	cfg.IncludeSummary = req.IncludeSummary

	seq := playback.BuildSequence(p, cfg)
	writeJSON(w, http.StatusOK, map[string]any{
		"document_id": p.ID,
		"config":      cfg,
		"tokens":      seq,
		"sentences":   playback.SentenceCount(seq),
	})
}

// figureLabel accepts "Figure 2", "fig2", "fig.-3b" or "table_1".
var figureLabel = regexp.MustCompile(`(?i)^(fig(?:ure|\.)?|table)[\s._-]*(\d+[a-z]?)$`)

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	raw, err := url.PathUnescape(chi.URLParam(r, "label"))
	if err != nil {
		jsonError(w, "invalid figure label", http.StatusBadRequest)
		return
	}
	m := figureLabel.FindStringSubmatch(raw)
	if m == nil {
		jsonError(w, "invalid figure label: "+raw, http.StatusBadRequest)
		return
	}

	p, ok := s.loadPack(w, r)
	if !ok {
		return
	}
	fig, ok := p.Figure(structure.NormalizeLabel(m[1], m[2]))
	if !ok {
		jsonError(w, "figure not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

// loadPack fetches the pack named in the URL, writing the error response
// itself when it cannot.
func (s *Server) loadPack(w http.ResponseWriter, r *http.Request) (*pack.Pack, bool) {
	id := chi.URLParam(r, "packID")
	p, err := s.library.Get(r.Context(), id)
	if errors.Is(err, library.ErrNotFound) {
		jsonError(w, "paper not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		s.log.Error("get paper", "pack_id", id, "error", err)
		jsonError(w, "failed to load paper", http.StatusInternalServerError)
		return nil, false
	}
	return p, true
}
