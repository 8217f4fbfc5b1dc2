// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness and build information
//	POST /v1/render   render events posted in the body
//
// A render request carries the events inline and an optional partial
// configuration that is laid over the server defaults:
//
//	{
//	  "events": [{"key": "a", "time": "2024-01-01", "text": "Kickoff"}],
//	  "config": {"timeline": {"direction": "down"}},
//	  "format": "svg"
//	}
//
// The response body is the artifact itself. Errors are JSON objects with
// the error code, a message and the request id.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/timeline/pkg/buildinfo"
	"github.com/matzehuels/timeline/pkg/config"
	"github.com/matzehuels/timeline/pkg/errors"
	"github.com/matzehuels/timeline/pkg/observability"
	"github.com/matzehuels/timeline/pkg/pipeline"
	"github.com/matzehuels/timeline/pkg/render"
	"github.com/matzehuels/timeline/pkg/source"
)

const (
	DefaultAddr           = "127.0.0.1:8080"
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxBodyBytes   = 4 << 20

	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr   string
	Runner *pipeline.Runner
	Logger *log.Logger

	// Defaults is the configuration requests are laid over.
	Defaults config.File

	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Server serves render requests.
type Server struct {
	addr           string
	runner         *pipeline.Runner
	logger         *log.Logger
	defaults       config.File
	requestTimeout time.Duration
	maxBodyBytes   int64
}

// New validates cfg and creates a server. Zero values select the
// defaults above.
func New(cfg Config) (*Server, error) {
	if cfg.Runner == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "server needs a pipeline runner")
	}
	if err := cfg.Defaults.Validate(); err != nil {
		return nil, err
	}
	s := &Server{
		addr:           cfg.Addr,
		runner:         cfg.Runner,
		logger:         cfg.Logger,
		defaults:       cfg.Defaults,
		requestTimeout: cfg.RequestTimeout,
		maxBodyBytes:   cfg.MaxBodyBytes,
	}
	if s.addr == "" {
		s.addr = DefaultAddr
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = DefaultRequestTimeout
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = DefaultMaxBodyBytes
	}
	return s, nil
}

// Addr is the listen address.
func (s *Server) Addr() string { return s.addr }

// Handler returns the routed handler with its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(middleware.RealIP)
	r.Use(s.withLogging)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeStatus(w, r, http.StatusMethodNotAllowed, errors.ErrCodeInvalidInput,
			r.Method+" is not allowed on "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", s.addr)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeTimeout, err, "shut down")
	}
	return nil
}

type healthResponse struct {
	Status  string         `json:"status"`
	Version buildinfo.Info `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Get()})
}

// renderRequest is the body of POST /v1/render.
type renderRequest struct {
	Events json.RawMessage `json:"events"`
	Config json.RawMessage `json:"config"`
	Format string          `json:"format"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req renderRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeStatus(w, r, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput,
				"request body exceeds the size limit")
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if len(req.Events) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "events are required"))
		return
	}

	format := req.Format
	if q := r.URL.Query().Get("format"); q != "" {
		format = q
	}
	if format == "" {
		format = render.FormatSVG
	}
	if err := errors.ValidateFormat(format, render.Formats...); err != nil {
		s.writeError(w, r, err)
		return
	}

	cfg, err := s.requestConfig(req.Config, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	events, err := source.Decode(bytes.NewReader(req.Events), source.FormatJSON)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id := requestIDFrom(ctx)
	result, err := s.runner.Execute(ctx, pipeline.Options{
		Source: source.Events{Name: "request:" + id, Items: events},
		Config: cfg,
		Logger: s.logger.With("request_id", id),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Events-Hash", result.EventsHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// requestConfig lays a partial JSON configuration over the defaults and
// restricts the output to format.
func (s *Server) requestConfig(raw json.RawMessage, format string) (config.File, error) {
	cfg := cloneConfig(s.defaults)
	if len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return config.File{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
		}
	}
	cfg.Output.Formats = []string{format}
	if err := cfg.Validate(); err != nil {
		return config.File{}, err
	}
	return cfg, nil
}

// cloneConfig copies everything the JSON decoder would write through:
// slices and maps are reused in place, pointers are followed.
func cloneConfig(f config.File) config.File {
	f.Timeline.Domain = slices.Clone(f.Timeline.Domain)
	f.Timeline.TextStyle = maps.Clone(f.Timeline.TextStyle)
	f.Output.Formats = slices.Clone(f.Output.Formats)
	f.Timeline.EndTimes = clonePtr(f.Timeline.EndTimes)
	f.Timeline.Force.MinPos = clonePtr(f.Timeline.Force.MinPos)
	f.Timeline.Force.MaxPos = clonePtr(f.Timeline.Force.MaxPos)
	return f
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func contentType(format string) string {
	switch format {
	case render.FormatSVG:
		return "image/svg+xml"
	case render.FormatPNG:
		return "image/png"
	case render.FormatPDF:
		return "application/pdf"
	}
	return "application/json"
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatus(err)
	if stderrors.Is(err, context.DeadlineExceeded) {
		code, status = errors.ErrCodeTimeout, http.StatusGatewayTimeout
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", requestIDFrom(r.Context()), "err", err)
	}
	s.writeStatus(w, r, status, code, errors.UserMessage(err))
}

func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request, status int, code errors.Code, msg string) {
	s.writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   msg,
		RequestID: requestIDFrom(r.Context()),
	}})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey struct{}

// withRequestID tags each request with a UUID, keeping a valid one sent
// by the client, and echoes it in the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"remote", r.RemoteAddr,
			"request_id", requestIDFrom(r.Context()),
			"duration", dur)
	})
}
