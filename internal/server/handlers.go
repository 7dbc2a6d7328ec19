package server

import (
	"encoding/json"
	stderrors "errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/boxarrow/pkg/buildinfo"
	"github.com/matzehuels/boxarrow/pkg/errors"
	bxio "github.com/matzehuels/boxarrow/pkg/io"
	"github.com/matzehuels/boxarrow/pkg/pipeline"
	"github.com/matzehuels/boxarrow/pkg/render"
	"github.com/matzehuels/boxarrow/pkg/render/sink"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// HeaderCache reports whether a response was served from the cache.
const HeaderCache = "X-Cache"

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	sink.FormatSVG:      "image/svg+xml",
	sink.FormatGraphviz: "image/svg+xml",
	sink.FormatJSON:     "application/json",
	sink.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	sink.FormatPNG:      "image/png",
	sink.FormatPDF:      "application/pdf",
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type resolveResponse struct {
	RequestID string         `json:"request_id"`
	Cached    bool           `json:"cached"`
	Output    *render.Output `json:"output"`
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	ID      string      `json:"id,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

type errorResponse struct {
	RequestID string    `json:"request_id"`
	Error     errorBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	spec, opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	out, hit, err := s.runner.ResolveWithCacheInfo(r.Context(), spec, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, resolveResponse{
		RequestID: RequestID(r.Context()),
		Cached:    hit,
		Output:    out,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := sink.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	spec, opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	opts.Formats = []string{format}

	exec, err := s.runner.Execute(r.Context(), spec, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, exec.CacheInfo.OutputHit && exec.CacheInfo.RenderHit)
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(exec.Artifacts[format])
}

// decode reads the input tree and the per-request options. On failure it
// writes the error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*schematic.Spec, pipeline.Options, bool) {
	opts := pipeline.FromConfig(s.cfg)
	if err := applyQuery(&opts, r); err != nil {
		s.writeError(w, r, err)
		return nil, opts, false
	}

	codec, err := codecFor(r.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, opts, false
	}
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	spec, err := bxio.Read(body, codec)
	if err != nil {
		s.writeError(w, r, err)
		return nil, opts, false
	}
	return spec, opts, true
}

// applyQuery overrides configured options with query parameters:
// optimize, rounds, labels, grid, scale and refresh.
func applyQuery(opts *pipeline.Options, r *http.Request) error {
	q := r.URL.Query()
	for _, name := range []string{"optimize", "labels", "refresh"} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", name, v)
		}
		switch name {
		case "optimize":
			opts.Optimize = b
		case "labels":
			opts.Render.Labels = b
		case "refresh":
			opts.Refresh = b
		}
	}
	if v := q.Get("rounds"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 1000 {
			return errors.New(errors.ErrCodeInvalidInput, "query parameter rounds: %q must be an integer in [0, 1000]", v)
		}
		opts.Optimizer.MaxRounds = n
		if n == 0 {
			opts.Optimizer.MaxRounds = -1
		}
	}
	for _, name := range []string{"grid", "scale"} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q must be a non-negative number", name, v)
		}
		if name == "grid" {
			opts.Render.Grid = f
		} else {
			opts.Render.Scale = f
		}
	}
	return nil
}

// codecFor picks the input codec from a Content-Type header. A missing
// header means JSON.
func codecFor(contentType string) (string, error) {
	if contentType == "" {
		return bxio.CodecJSON, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type %q", contentType)
	}
	switch mt {
	case "application/json", "text/json":
		return bxio.CodecJSON, nil
	case "application/toml", "text/toml":
		return bxio.CodecTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return bxio.CodecYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q (use JSON, TOML or YAML)", mt)
	}
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeDuplicateID, errors.ErrCodeUnknownID,
		errors.ErrCodeCyclicStructure, errors.ErrCodeInvalidAnchorReference:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidID:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	body.ID, body.Kind = errors.Location(err)
	if status == http.StatusRequestEntityTooLarge {
		body.Code = errors.ErrCodeInvalidInput
		body.Message = "request body too large"
	}
	if body.Code == "" {
		body.Code = errors.ErrCodeInternal
	}

	logger := requestLogger(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	} else {
		logger.Debug("rejected request", "code", body.Code, "error", err)
	}
	writeJSON(w, status, errorResponse{RequestID: RequestID(r.Context()), Error: body})
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(HeaderCache, "hit")
	} else {
		w.Header().Set(HeaderCache, "miss")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
