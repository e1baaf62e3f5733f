package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"gapura/internal/credstore"
	"gapura/internal/httpclient"
	"gapura/pkg/core"
)

// Headers and query parameters recognized on inbound requests.
const (
	// HeaderProxyToken carries the shared proxy token.
	HeaderProxyToken = "X-Proxy-Token"
	// HeaderEnvironment selects the upstream environment.
	HeaderEnvironment = "X-Proxy-Env"
	// QueryEnvironment is the query-parameter fallback to HeaderEnvironment.
	QueryEnvironment = "env"
)

// routePrefix is the fixed routing prefix stripped before forwarding.
const routePrefix = "/proxy/"

// Option is a functional option for configuring the Server.
type Option func(*Options)

// Options holds construction options for the Server.
type Options struct {
	Logger zerolog.Logger
}

// WithLogger returns an option that sets the logger for the server.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Server wires the proxy pipeline behind an HTTP listener: AuthGate,
// environment selection, credential lookup, signing, and forwarding.
// All shared state is immutable after construction.
type Server struct {
	cfg       *core.Config
	authGate  *AuthGate
	store     *credstore.Store
	forwarder *Forwarder
	client    *httpclient.Client
	logger    zerolog.Logger
}

// NewServer constructs a Server from the given configuration.
func NewServer(cfg *core.Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	options := &Options{
		Logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	client, err := httpclient.NewClient(&httpclient.Config{
		Timeout: cfg.Timeout,
	}, options.Logger)
	if err != nil {
		return nil, fmt.Errorf("create upstream client: %w", err)
	}

	signer := NewSigner(cfg.RecvWindow)

	return &Server{
		cfg:       cfg,
		authGate:  NewAuthGate(cfg),
		store:     credstore.New(cfg),
		forwarder: NewForwarder(client, signer, options.Logger),
		client:    client,
		logger:    options.Logger,
	}, nil
}

// Close releases the upstream client.
func (s *Server) Close() error {
	return s.client.Close()
}

// Handler returns the HTTP handler for registration or embedding in tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/proxy/{upstream...}", s.boundary(s.handleProxy))
	return mux
}

// Serve runs the HTTP server until the context is canceled.
func (s *Server) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("gateway listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handlerFunc is a request handler that reports failures as errors; the
// boundary converts them into JSON error responses.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// boundary is the single top-level failure boundary per request. Any error
// or panic not already converted into a response becomes a JSON body
// {"error": <message>} with the taxonomy's status code.
func (s *Server) boundary(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().Any("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
				s.writeError(w, core.NewGatewayError(core.ErrorTypeInternal, 500,
					fmt.Sprintf("internal error: %v", rec)))
			}
		}()

		if err := h(w, r); err != nil {
			s.writeError(w, err)
		}

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var gwErr *core.GatewayError
	if errors.As(err, &gwErr) {
		status = gwErr.HTTPStatus()
	}

	body, marshalErr := sonic.Marshal(map[string]string{"error": errMessage(err)})
	if marshalErr != nil {
		body = []byte(`{"error":"internal error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// errMessage keeps the client-facing message short: the structured prefix of
// a GatewayError stays in the logs, not in the response body.
func errMessage(err error) string {
	var gwErr *core.GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return err.Error()
}

// handleProxy runs the forwarding pipeline for one inbound request:
// AuthGate -> environment selection -> credential lookup -> sign -> forward.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) error {
	if err := s.authGate.Authorize(r.Header.Get(HeaderProxyToken)); err != nil {
		return err
	}

	env, err := SelectEnvironment(
		r.Header.Get(HeaderEnvironment),
		r.URL.Query().Get(QueryEnvironment),
		s.cfg.DefaultEnvironment,
	)
	if err != nil {
		return err
	}

	creds, err := s.store.Lookup(env)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return core.NewGatewayError(core.ErrorTypeBadRequest, 400,
			"read request body: "+err.Error())
	}

	req := &ProxyRequest{
		Method:       r.Method,
		UpstreamPath: r.PathValue("upstream"),
		RawQuery:     r.URL.RawQuery,
		Body:         core.RawBody(data, r.Header.Get("Content-Type")),
		Relay:        relayHeaders(r),
		PreSigned:    preSignedHeaders(r),
	}

	resp, err := s.forwarder.Forward(r.Context(), req, creds)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
	return nil
}

// relayHeaders extracts the allow-listed caller headers.
func relayHeaders(r *http.Request) map[string]string {
	headers := make(map[string]string, len(relayAllowlist))
	for _, name := range relayAllowlist {
		if v := r.Header.Get(name); v != "" {
			headers[name] = v
		}
	}
	return headers
}

// preSignedHeaders collects client-supplied authentication headers when the
// caller already holds a signature; the gateway then relays them instead of
// signing. The mode activates only on a present signature header.
func preSignedHeaders(r *http.Request) map[string]string {
	if r.Header.Get(HeaderSign) == "" {
		return nil
	}
	headers := make(map[string]string, 4)
	for _, name := range []string{HeaderAPIKey, HeaderTimestamp, HeaderSign, HeaderRecvWindow} {
		if v := r.Header.Get(name); v != "" {
			headers[name] = v
		}
	}
	return headers
}
