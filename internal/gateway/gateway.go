package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sharehub/internal/config"
	"sharehub/internal/domain"
	"sharehub/internal/models"

	"github.com/rs/zerolog"
)

// Gateway is the public edge: it checks request shapes and per-user rate
// limits, then forwards everything else to the core server untouched.
type Gateway struct {
	cfg    config.GatewayConfig
	limits domain.LimitRepository
	client *http.Client
	logger *zerolog.Logger
	server *http.Server
}

func New(cfg config.GatewayConfig, limits domain.LimitRepository, logger *zerolog.Logger) *Gateway {
	g := &Gateway{
		cfg:    cfg,
		limits: limits,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}

	g.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           http.HandlerFunc(g.handle),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	return g
}

func (g *Gateway) Start() error {
	g.logger.Info().Str("addr", g.server.Addr).Str("upstream", g.cfg.ServerURL).Msg("gateway listening")
	if err := g.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.server.Shutdown(ctx)
}

// Handler returns the root handler, used by tests.
func (g *Gateway) Handler() http.Handler {
	return g.server.Handler
}

func (g *Gateway) handle(w http.ResponseWriter, r *http.Request) {
	if !g.allow(w, r) {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := validateRequest(r, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g.proxy(w, r, body)
}

// allow applies the per-user budget. Requests that do not carry a parseable
// user id pass through; the core validates the header itself.
func (g *Gateway) allow(w http.ResponseWriter, r *http.Request) bool {
	if g.limits == nil || g.cfg.RateLimit.Requests <= 0 {
		return true
	}

	userID, err := strconv.ParseInt(r.Header.Get(models.HeaderUserID), 10, 64)
	if err != nil {
		return true
	}

	window := time.Duration(g.cfg.RateLimit.Window) * time.Second
	allowed, err := g.limits.Allow(r.Context(), userID, g.cfg.RateLimit.Requests, window)
	if err != nil {
		g.logger.Error().Err(err).Msg("rate limit check failed, letting request through")
		return true
	}
	if !allowed {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return false
	}
	return true
}

func (g *Gateway) proxy(w http.ResponseWriter, r *http.Request, body []byte) {
	target := strings.TrimRight(g.cfg.ServerURL, "/") + r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, strings.NewReader(string(body)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build upstream request")
		return
	}
	for _, header := range []string{models.HeaderUserID, "Content-Type", "X-Request-Id"} {
		if v := r.Header.Get(header); v != "" {
			req.Header.Set(header, v)
		}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error().Err(err).Str("target", target).Msg("upstream request failed")
		writeError(w, http.StatusBadGateway, "upstream unavailable")
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		w.Header().Set("Content-Disposition", cd)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		g.logger.Error().Err(err).Msg("failed to relay upstream response")
	}
}
