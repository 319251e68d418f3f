package simulator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ewcportal/internal/logging"
)

// Server serves a simulated device over plain HTTP.
type Server struct {
	config   *Config
	device   *Device
	http     *http.Server
	listener net.Listener
	mu       sync.Mutex
}

// New creates a Server. Logging is initialized from config.LogLevel.
func New(config *Config) (*Server, error) {
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	d := NewDevice(*config)
	return &Server{
		config: config,
		device: d,
		http: &http.Server{
			Handler:           NewHandler(d),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Device returns the simulated device.
func (s *Server) Device() *Device {
	return s.device
}

// Listen binds the configured address. It is called by Start and may be
// called earlier to learn the bound port.
func (s *Server) Listen() (net.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr(), nil
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	return listener.Addr(), nil
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM is received.
func (s *Server) Start(ctx context.Context) error {
	addr, err := s.Listen()
	if err != nil {
		return err
	}

	logging.Info("Starting EWC simulator",
		zap.String("addr", addr.String()),
		zap.Int("scan_steps", s.config.ScanSteps),
		zap.Int("connect_steps", s.config.ConnectSteps),
		zap.String("language", s.config.Language),
		zap.Bool("auth", s.config.Username != ""),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.http.Serve(s.listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping simulator...")
	case <-ctx.Done():
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down simulator...")
	err := s.http.Shutdown(ctx)
	if err != nil {
		logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
		_ = s.http.Close()
	}
	logging.Sync()
	return err
}
