package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/go-retok/internal/config"
	"github.com/example/go-retok/internal/text"
	"github.com/example/go-retok/internal/tokenizer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes   int
	workers        int
	requestTimeout time.Duration
	strict         bool
	limiter        *rate.Limiter
	registry       *prometheus.Registry
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:   1 << 20,
		workers:        4,
		requestTimeout: 10 * time.Second,
		strict:         true,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithWorkers sets the maximum number of requests tokenized at once.
// Zero disables the limit.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout bounds how long a request may wait for a worker slot.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithPolicy selects how /untokenize treats index collisions; see
// config.NormalizePolicy.
func WithPolicy(policy string) Option {
	return func(o *options) { o.strict = policy != config.PolicyLastWriteWins }
}

// WithRateLimit enables a shared token-bucket limiter. A non-positive rps
// disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics registers request metrics on reg and serves them at /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	opts    options
	sem     chan struct{} // semaphore for worker pool
	metrics *metrics
	log     *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, POST /tokenize and
// POST /untokenize, plus /metrics when WithMetrics is given.
func NewHandler(optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		opts: opts,
		log:  opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/tokenize", h.handleTokenize)
	mux.HandleFunc("/untokenize", h.handleUntokenize)

	if opts.registry != nil {
		h.metrics = newMetrics(opts.registry)
		mux.Handle("/metrics", promhttp.HandlerFor(opts.registry, promhttp.HandlerOpts{}))
	}

	return chain(mux,
		withRequestID,
		h.metrics.middleware,
		withRateLimit(opts.limiter),
	)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

type tokenizeRequest struct {
	Text string `json:"text"`
}

type tokenizeResponse struct {
	Segments []tokenizer.Segment `json:"segments"`
	Words    []string            `json:"words"`
	Stats    text.Stats          `json:"stats"`
}

type untokenizeRequest struct {
	Text    string         `json:"text"`
	Replace map[int]string `json:"replace,omitempty"`
	Drop    []string       `json:"drop,omitempty"`
}

type untokenizeResponse struct {
	Text string `json:"text"`
}

func (h *handler) handleTokenize(w http.ResponseWriter, r *http.Request) {
	var req tokenizeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.validateText(w, req.Text) {
		return
	}

	release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	start := time.Now()
	tok, err := tokenizer.New(req.Text)
	if err != nil {
		h.fail(w, r, "tokenize", req.Text, start, err)
		return
	}

	h.metrics.observeSegments(tok)
	h.log.InfoContext(r.Context(), "tokenize complete",
		slog.String("request_id", RequestIDFromContext(r.Context())),
		slog.Int("text_len", len(req.Text)),
		slog.Int("segments", tok.Len()),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	segments := tok.Segments()
	if segments == nil {
		segments = []tokenizer.Segment{}
	}
	writeJSON(w, http.StatusOK, tokenizeResponse{
		Segments: segments,
		Words:    tok.Words(),
		Stats:    text.Summarize(tok),
	})
}

func (h *handler) handleUntokenize(w http.ResponseWriter, r *http.Request) {
	var req untokenizeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.validateText(w, req.Text) {
		return
	}

	drop := make([]tokenizer.Kind, 0, len(req.Drop))
	for _, name := range req.Drop {
		k, err := tokenizer.ParseKind(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		drop = append(drop, k)
	}

	release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	start := time.Now()
	tok, err := tokenizer.New(req.Text)
	if err != nil {
		h.fail(w, r, "untokenize", req.Text, start, err)
		return
	}

	out, err := text.Rebuild(tok, text.RebuildOptions{
		Replace: req.Replace,
		Drop:    drop,
		Strict:  h.opts.strict,
	})
	if err != nil {
		h.fail(w, r, "untokenize", req.Text, start, err)
		return
	}

	h.metrics.observeSegments(tok)
	h.log.InfoContext(r.Context(), "untokenize complete",
		slog.String("request_id", RequestIDFromContext(r.Context())),
		slog.Int("text_len", len(req.Text)),
		slog.Int("segments", tok.Len()),
		slog.Int("replacements", len(req.Replace)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	writeJSON(w, http.StatusOK, untokenizeResponse{Text: out})
}

// decode enforces POST and parses the JSON body into v.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}

	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}

	// JSON escaping can at most sextuple a byte; leave headroom for the
	// other request fields.
	body := http.MaxBytesReader(w, r.Body, int64(h.opts.maxTextBytes)*6+4096)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (h *handler) validateText(w http.ResponseWriter, s string) bool {
	if len(s) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return false
	}
	return true
}

// acquire takes a worker slot, honouring the request deadline while waiting.
// In unlimited mode (sem == nil) it always succeeds.
func (h *handler) acquire(w http.ResponseWriter, r *http.Request) (func(), bool) {
	if h.sem == nil {
		return func() {}, true
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	select {
	case h.sem <- struct{}{}:
		return func() { <-h.sem }, true
	case <-ctx.Done():
		h.log.WarnContext(r.Context(), "timed out waiting for worker",
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.String("path", r.URL.Path),
		)
		writeError(w, http.StatusServiceUnavailable, "timed out waiting for worker")
		return nil, false
	}
}

// fail maps tokenizer and rebuild errors to HTTP statuses and logs them.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, op, input string, start time.Time, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, tokenizer.ErrUnauthorizedToken):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, tokenizer.ErrOverlap):
		status = http.StatusConflict
	case errors.Is(err, text.ErrIndexOutOfRange), errors.Is(err, text.ErrDropWords):
		status = http.StatusBadRequest
	}

	h.log.WarnContext(r.Context(), op+" failed",
		slog.String("request_id", RequestIDFromContext(r.Context())),
		slog.Int("text_len", len(input)),
		slog.Int("status", status),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		slog.String("error", err.Error()),
	)
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server — wires handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	logger          *slog.Logger
	registry        *prometheus.Registry
	shutdownTimeout time.Duration
}

func New(cfg config.Config) *Server {
	return &Server{
		cfg:             cfg,
		logger:          slog.Default(),
		registry:        prometheus.NewRegistry(),
		shutdownTimeout: 30 * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// WithLogger overrides the request logger.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	s.logger = l
	return s
}

// Handler builds the HTTP handler from the server configuration.
func (s *Server) Handler() http.Handler {
	return NewHandler(
		WithWorkers(s.cfg.Server.Workers),
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout)*time.Second),
		WithPolicy(s.cfg.Untokenize.Policy),
		WithRateLimit(s.cfg.Server.RateLimit, s.cfg.Server.RateBurst),
		WithMetrics(s.registry),
		WithLogger(s.logger),
	)
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then drains in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("server listening", slog.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http serve: %w", err)
	}
}

func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
