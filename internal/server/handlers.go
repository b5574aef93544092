package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/erdviz/pkg/errors"
	"github.com/matzehuels/erdviz/pkg/highlight"
	erdio "github.com/matzehuels/erdviz/pkg/io"
	"github.com/matzehuels/erdviz/pkg/render"
)

var contentTypes = map[string]string{
	render.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	render.FormatSVG: "image/svg+xml",
	render.FormatPNG: "image/png",
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// renderHandler handles POST /render?format=svg
func (s *Server) renderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		if format == "" {
			format = render.FormatSVG
		}
		if err := render.ValidateFormats([]string{format}); err != nil {
			writeError(w, err)
			return
		}

		schema, err := erdio.ReadJSON(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
		if err != nil {
			writeError(w, err)
			return
		}

		opts := s.base
		opts.Schema = schema
		opts.SchemaFile, opts.Driver, opts.DSN = "", "", ""
		opts.Formats = []string{format}
		opts.Refresh = r.URL.Query().Get("refresh") == "true"

		result, err := s.runner.Execute(r.Context(), opts)
		if err != nil {
			s.logger.Warn("render failed", "id", RequestIDFrom(r.Context()), "error", err)
			writeError(w, err)
			return
		}

		cacheStatus := "MISS"
		if result.CacheInfo.RenderHit {
			cacheStatus = "HIT"
		}
		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("X-Cache", cacheStatus)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Artifacts[format])
	}
}

type namespaceResponse struct {
	Entity    string `json:"entity"`
	Namespace string `json:"namespace"`
	Kind      string `json:"kind"`
	Path      string `json:"path,omitempty"`
}

// namespaceHandler handles GET /namespaces/{entity}
func (s *Server) namespaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity := chi.URLParam(r, "entity")
		if err := errors.ValidateIdentifier("entity", entity); err != nil {
			writeError(w, err)
			return
		}

		resp := namespaceResponse{Entity: entity}
		if s.classifier == nil {
			resp.Namespace, resp.Kind = "unknown", "unknown"
		} else {
			res := s.classifier.Classify(entity)
			resp.Namespace, resp.Kind, resp.Path = res.Label(), res.Kind.String(), res.Path
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type colorsRequest struct {
	Names []string `json:"names"`
}

type colorsResponse struct {
	Colors map[string]highlight.Colors `json:"colors"`
}

// colorsHandler handles POST /colors
func (s *Server) colorsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req colorsRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
			return
		}

		source := s.base.Colors
		if source == nil {
			source = highlight.EnvSource{}
		}
		rules, err := source.Rules()
		if err != nil {
			writeError(w, err)
			return
		}

		resp := colorsResponse{Colors: make(map[string]highlight.Colors, len(req.Names))}
		for _, name := range req.Names {
			resp.Colors[name] = highlight.ColorsFor(name, rules)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

// statusFor maps error codes to HTTP status codes. Configuration errors are
// server-side faults: the request was fine but the rules are broken.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSchema, errors.ErrCodeInvalidFormat, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
