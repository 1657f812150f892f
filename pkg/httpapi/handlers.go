package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jmaspons/shapviz/pkg/cache"
	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/pipeline"
	"github.com/jmaspons/shapviz/pkg/render"
	"github.com/jmaspons/shapviz/pkg/shapio"
	"github.com/jmaspons/shapviz/pkg/store"
)

// createResponse is the body returned by POST /explanations.
type createResponse struct {
	ID      string `json:"id"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	doc, err := shapio.ReadDocument(body)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed explanation document"))
		return
	}

	// Validate before persisting; the store holds only well-formed documents.
	exp, err := shapio.ToExplanation(doc)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidGrid, err, "invalid explanation: %v", err))
		return
	}

	id, err := s.store.Put(r.Context(), r.URL.Query().Get("name"), &doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{
		ID:      id,
		Rows:    exp.Rows(),
		Columns: len(exp.Columns()),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Stored documents were validated on upload; a failure here means the
	// store was corrupted out of band.
	exp, err := shapio.ToExplanation(*rec.Document)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "stored document no longer valid"))
		return
	}

	opts, err := plotOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Resolve the per-kind default format here; the runner validates its
	// own copy of the options.
	if err := opts.ValidateForRender(); err != nil {
		s.writeError(w, r, err)
		return
	}

	// The record's serialized document identifies the explanation in
	// artifact cache keys.
	data, err := json.Marshal(rec.Document)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "failed to encode document"))
		return
	}
	artifacts, err := s.runner.Render(r.Context(), exp, cache.Hash(data), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentType(render.Format(format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// plotOptions translates plot route and query parameters into pipeline
// options.
func plotOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Plot:         chi.URLParam(r, "kind"),
		Feature:      q.Get("feature"),
		FeatureY:     q.Get("feature_y"),
		ColorFeature: q.Get("color"),
	}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}

	var err error
	if opts.Row, err = intParam(q.Get("row"), "row"); err != nil {
		return opts, err
	}
	if opts.MaxFeatures, err = intParam(q.Get("max_features"), "max_features"); err != nil {
		return opts, err
	}
	if opts.MinStrength, err = floatParam(q.Get("min_strength"), "min_strength"); err != nil {
		return opts, err
	}
	if opts.Width, err = floatParam(q.Get("width"), "width"); err != nil {
		return opts, err
	}
	return opts, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, raw)
	}
	return v, nil
}

func floatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, raw)
	}
	return v, nil
}

func contentType(format render.Format) string {
	switch format {
	case render.FormatSVG:
		return "image/svg+xml"
	case render.FormatPNG:
		return "image/png"
	case render.FormatHTML:
		return "text/html; charset=utf-8"
	case render.FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}
