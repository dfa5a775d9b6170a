package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/buildinfo"
	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/observability/prom"
	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/tree"
)

const (
	maxRequestBytes = 8 << 20
	shutdownTimeout = 10 * time.Second
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Serve the render pipeline over HTTP.

Endpoints:
  POST /render    render {"tree": ..., "options": ...}; ?format=svg|png|pdf|json
  GET  /healthz   liveness probe with build info
  GET  /metrics   Prometheus metrics

Request options override the config file. The configured cache backend is
shared by every request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(cmd.Context(), cfg, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			reg := prometheus.NewRegistry()
			prom.New(reg).Install()
			defer observability.Reset()

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           newServer(cfg, runner, reg, loggerFromContext(cmd.Context())),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(cmd.Context(), srv, c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (overrides server.addr)")

	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	errc := make(chan error, 1)
	go func() {
		printKeyValue("Listening", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "addr", srv.Addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

// server holds the state shared by the HTTP handlers.
type server struct {
	cfg    *config.Config
	runner *pipeline.Runner
	logger *log.Logger
}

// renderRequest is the body of POST /render. Options are decoded over the
// configured defaults, so only the given keys change.
type renderRequest struct {
	Tree    *tree.Node      `json:"tree"`
	Options json.RawMessage `json:"options,omitempty"`
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Request string      `json:"request_id"`
}

// newServer builds the router. Metrics are served from gatherer.
func newServer(cfg *config.Config, runner *pipeline.Runner, gatherer prometheus.Gatherer, logger *log.Logger) http.Handler {
	s := &server{cfg: cfg, runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(buildinfo.Get())
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Post("/render", s.handleRender)

	return r
}

type requestIDKey struct{}

// requestID tags each request with a UUID, echoed in X-Request-ID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// observe reports each request to the HTTP hooks under its route pattern.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", d, "id", requestIDFrom(r.Context()))
	})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}

	var req renderRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Tree == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidTree, "request has no tree"))
		return
	}

	opts, err := s.requestOptions(req.Options, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Tree, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Sankey-Nodes", strconv.Itoa(result.Stats.NodeCount))
	w.Header().Set("X-Sankey-Truncated", strconv.Itoa(result.Stats.TruncatedCount))
	w.Header().Set("X-Sankey-Cache", strconv.FormatBool(result.CacheInfo.RenderHit))
	w.Write(result.Artifacts[format])
}

// requestOptions layers the request's options over the configured ones and
// pins the output to the single requested format.
func (s *server) requestOptions(raw json.RawMessage, format string) (pipeline.Options, error) {
	opts := s.cfg.Options()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &opts); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode options")
		}
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return opts, err
	}
	opts.Formats = []string{format}
	opts.Logger = nil
	return opts, nil
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "err", err, "id", requestIDFrom(r.Context()))
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{
		Code:    code,
		Message: err.Error(),
		Request: requestIDFrom(r.Context()),
	})
}

// statusFor maps an error's code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTree, errors.ErrCodeInvalidWeight,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidVizType,
		errors.ErrCodeInvalidPolicy, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
