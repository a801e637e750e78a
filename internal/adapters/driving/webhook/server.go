// Package webhook serves the HTTP endpoint the content backend calls after
// content changes.
package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driving"
	"github.com/accords-library/search-sync/internal/logger"
)

// ShutdownTimeout bounds how long in-flight requests may drain.
const ShutdownTimeout = 5 * time.Second

const (
	msgMethodNotAllowed = "Method Not Allowed. Use POST."
	msgInvalidToken     = "Invalid auth token."
	msgDone             = "Done."
	msgRebuildStarted   = "Rebuild started."
	msgRebuildRunning   = "Rebuild already in progress."
	msgRebuildFailed    = "Rebuild could not start."
)

// Config configures the listener.
type Config struct {
	// Token is the shared secret expected as "Authorization: Bearer <token>".
	Token string
	// Mode decides what an authorised call does.
	Mode domain.WebhookMode
}

// Server handles webhook calls.
type Server struct {
	rebuilder driving.Rebuilder
	expected  []byte
	mode      domain.WebhookMode

	mu   sync.Mutex
	base context.Context
	wg   sync.WaitGroup
}

// NewServer creates a webhook server.
func NewServer(rebuilder driving.Rebuilder, cfg Config) (*Server, error) {
	if rebuilder == nil {
		return nil, fmt.Errorf("%w: rebuild service is required", domain.ErrInvalidInput)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: webhook token is required", domain.ErrInvalidInput)
	}
	mode, err := domain.ParseWebhookMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	return &Server{
		rebuilder: rebuilder,
		expected:  []byte("Bearer " + cfg.Token),
		mode:      mode,
		base:      context.Background(),
	}, nil
}

// Handler returns the HTTP handler. Every path is accepted.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handle)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeMessage(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	got := []byte(strings.TrimSpace(r.Header.Get("Authorization")))
	if subtle.ConstantTimeCompare(got, s.expected) != 1 {
		logger.Warn("Rejected webhook call from %s: invalid token", r.RemoteAddr)
		writeMessage(w, http.StatusForbidden, msgInvalidToken)
		return
	}

	logger.Info("Webhook received from %s", r.RemoteAddr)

	if s.mode == domain.WebhookAck {
		writeMessage(w, http.StatusOK, msgDone)
		return
	}

	if err := s.startRebuild(); err != nil {
		if errors.Is(err, domain.ErrRebuildInProgress) {
			writeMessage(w, http.StatusConflict, msgRebuildRunning)
			return
		}
		logger.Error("Webhook rebuild could not start: %v", err)
		writeMessage(w, http.StatusInternalServerError, msgRebuildFailed)
		return
	}
	writeMessage(w, http.StatusAccepted, msgRebuildStarted)
}

// startRebuild starts a rebuild detached from the request. It returns
// once the rebuild is known to be running or refused.
func (s *Server) startRebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	done, err := s.rebuilder.Start(s.base, domain.TriggerWebhook)
	if err != nil {
		return err
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if res := <-done; res.Err != nil {
			logger.Error("Webhook rebuild failed: %v", res.Err)
		}
	}()
	return nil
}

// Wait blocks until every background rebuild has returned.
func (s *Server) Wait() {
	s.wg.Wait()
}

// Serve blocks while handling HTTP on listener.
// Cancel ctx to shut down: in-flight requests drain and background
// rebuilds are cancelled and awaited.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	base, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.base = base
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	logger.Info("Webhook listening on %s (mode %s)", listener.Addr(), s.mode)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(listener) }()

	select {
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer stop()
		err := srv.Shutdown(shutdownCtx)
		cancel()
		s.Wait()
		return err
	case err := <-errCh:
		cancel()
		s.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

type response struct {
	Message string `json:"message"`
}

func writeMessage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response{Message: message})
}
