package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gridlock-dev/gridlock/pkg/errors"
	"github.com/gridlock-dev/gridlock/pkg/pipeline"
	"github.com/gridlock-dev/gridlock/pkg/render"
	"github.com/gridlock-dev/gridlock/pkg/scene"
)

// SolveRequest is the body of POST /v1/solve.
type SolveRequest struct {
	Spec    string `json:"spec"`
	Name    string `json:"name,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

// SolveResponse is the body returned by POST /v1/solve.
type SolveResponse struct {
	ID       string       `json:"id"`
	Solved   bool         `json:"solved"`
	Scene    *scene.Scene `json:"scene"`
	CacheHit bool         `json:"cache_hit"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	sc, hit, err := s.runner.SolveWithCacheInfo(ctx, pipeline.Options{
		SpecText: req.Spec,
		Name:     req.Name,
		Refresh:  req.Refresh,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := s.store.Put(r.Context(), sc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SolveResponse{
		ID:       id,
		Solved:   sc.Solved,
		Scene:    sc,
		CacheHit: hit,
	})
}

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	sc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}
	ids, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"scenes": ids})
}

func (s *Server) handleRenderScene(w http.ResponseWriter, r *http.Request) {
	sc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatText
	}
	detailed := r.URL.Query().Get("detailed") == "true"

	switch format {
	case pipeline.FormatText:
		text, err := render.Compose(sc)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(text))
	case pipeline.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(render.ToDOT(sc, render.DOTOptions{Detailed: detailed})))
	case pipeline.FormatSVG:
		dot := render.ToDOT(sc, render.DOTOptions{Detailed: detailed})
		svg, err := render.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unsupported format: %q", format))
	}
}

func (s *Server) handleDeleteScene(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(errors.GetCode(err))
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidComponent,
		errors.ErrCodeInvalidConstraint, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeSceneNotFound, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCapacity:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
