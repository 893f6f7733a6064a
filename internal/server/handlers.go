package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/exprtex/exprtex/pkg/archive"
	"github.com/exprtex/exprtex/pkg/buildinfo"
	"github.com/exprtex/exprtex/pkg/engine"
	apperrors "github.com/exprtex/exprtex/pkg/errors"
	"github.com/exprtex/exprtex/pkg/pipeline"
)

// defaultListLimit and maxListLimit bound GET /v1/formulas.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// renderResponse is the body of a successful POST /v1/render.
type renderResponse struct {
	Digests  []string    `json:"digests"`
	DocHash  string      `json:"doc_hash"`
	Format   string      `json:"format"`
	Markup   []string    `json:"markup"`
	Document string      `json:"document,omitempty"`
	Artifact []byte      `json:"artifact,omitempty"`
	Cached   bool        `json:"cached"`
	Stats    renderStats `json:"stats"`
}

type renderStats struct {
	Expressions  int   `json:"expressions"`
	NodeCount    int   `json:"node_count"`
	ArtifactSize int   `json:"artifact_size,omitempty"`
	RenderMS     int64 `json:"render_ms"`
	CompileMS    int64 `json:"compile_ms,omitempty"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error    string           `json:"error"`
	Code     apperrors.Code   `json:"code,omitempty"`
	Failures []failurePayload `json:"failures,omitempty"`
}

type failurePayload struct {
	Index  int    `json:"index"`
	Source string `json:"source"`
	Error  string `json:"error"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		s.writeError(w, r, http.StatusBadRequest, errorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  apperrors.ErrCodeInvalidInput,
		})
		return
	}

	// Validate up front so the response reflects the applied defaults.
	opts.Logger = s.logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, statusForError(err), errorResponse{
			Error: apperrors.UserMessage(err),
			Code:  apperrors.GetCode(err),
		})
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		var exprErr *pipeline.ExpressionError
		if errors.As(err, &exprErr) {
			s.writeError(w, r, http.StatusUnprocessableEntity, errorResponse{
				Error:    exprErr.Error(),
				Code:     apperrors.ErrCodeInvalidExpression,
				Failures: failurePayloads(exprErr),
			})
			return
		}
		s.writeError(w, r, statusForError(err), errorResponse{
			Error: apperrors.UserMessage(err),
			Code:  apperrors.GetCode(err),
		})
		return
	}

	resp := renderResponse{
		Digests: make([]string, len(result.Fragments)),
		DocHash: result.DocHash,
		Format:  opts.Format,
		Markup:  make([]string, len(result.Fragments)),
		Cached:  result.CacheInfo.ArtifactHit,
		Stats: renderStats{
			Expressions:  result.Stats.Expressions,
			NodeCount:    result.Stats.NodeCount,
			ArtifactSize: result.Stats.ArtifactSize,
			RenderMS:     result.Stats.RenderTime.Milliseconds(),
			CompileMS:    result.Stats.CompileTime.Milliseconds(),
		},
	}
	for i, f := range result.Fragments {
		resp.Markup[i] = f.Markup
		formula := archive.NewFormula(f.Source, f.Markup)
		resp.Digests[i] = formula.Digest
		if err := s.archive.Save(r.Context(), formula); err != nil {
			s.logger.Warn("archive save failed", "digest", formula.Digest, "err", err)
		}
	}
	if opts.Format == pipeline.FormatTeX {
		resp.Document = result.Document
	} else {
		resp.Artifact = result.Artifact
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetFormula(w http.ResponseWriter, r *http.Request) {
	digest := chi.URLParam(r, "digest")
	if err := apperrors.ValidateDigest(digest); err != nil {
		s.writeError(w, r, http.StatusBadRequest, errorResponse{
			Error: apperrors.UserMessage(err),
			Code:  apperrors.GetCode(err),
		})
		return
	}

	f, err := s.archive.Get(r.Context(), digest)
	if err != nil {
		code := apperrors.ErrCodeArchive
		if errors.Is(err, archive.ErrNotFound) {
			code = apperrors.ErrCodeFormulaNotFound
		}
		s.writeError(w, r, statusForError(err), errorResponse{
			Error: apperrors.UserMessage(err),
			Code:  code,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleListFormulas(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, r, http.StatusBadRequest, errorResponse{
				Error: "limit must be a positive integer",
				Code:  apperrors.ErrCodeInvalidInput,
			})
			return
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	formulas, err := s.archive.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, statusForError(err), errorResponse{
			Error: apperrors.UserMessage(err),
			Code:  apperrors.ErrCodeArchive,
		})
		return
	}
	if formulas == nil {
		formulas = []archive.Formula{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]archive.Formula{"formulas": formulas})
}

// statusForError maps pipeline and archive failures onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, archive.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrEngineMissing):
		return http.StatusServiceUnavailable
	case errors.Is(err, engine.ErrNoArtifact):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidExpression, apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidPackage, apperrors.ErrCodeInvalidBorder,
		apperrors.ErrCodeInvalidDigest, apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFormulaNotFound,
		apperrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeEngineMissing:
		return http.StatusServiceUnavailable
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeCompileFailed, apperrors.ErrCodeNoArtifact:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func failurePayloads(e *pipeline.ExpressionError) []failurePayload {
	out := make([]failurePayload, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = failurePayload{Index: f.Index, Source: f.Source, Error: f.Err.Error()}
	}
	return out
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, body errorResponse) {
	s.logger.Debug("request failed",
		"path", r.URL.Path,
		"status", status,
		"code", body.Code,
		"err", body.Error)
	s.writeJSON(w, status, body)
}
