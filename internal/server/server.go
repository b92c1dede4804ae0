package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/SergeyKa2021/rtl-433/internal/config"
	"github.com/SergeyKa2021/rtl-433/internal/device"
	"github.com/SergeyKa2021/rtl-433/internal/logging"
)

const (
	// ServiceType is the mDNS service type advertised for the record
	// stream.
	ServiceType = "_rtl433._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	shutdownTimeout = 10 * time.Second
)

// Server streams decoded records to WebSocket clients.
type Server struct {
	cfg  config.ServerConfig
	hub  *hub
	mdns *zeroconf.Server
}

// New creates a stream server for the given configuration. Nothing
// listens until Run is called.
func New(cfg config.ServerConfig) *Server {
	return &Server{
		cfg: cfg,
		hub: newHub(),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.hub.serveWS)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	httpSrv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.hub.run()
	defer s.hub.stop()

	if s.cfg.Advertise {
		if err := s.advertise(); err != nil {
			// Discovery is a convenience; the stream still works when
			// mDNS registration fails.
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		} else {
			defer s.mdns.Shutdown()
		}
	}

	logging.Info("stream server listening", zap.String("addr", s.cfg.Addr))

	errChan := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("stream server failed: %w", err)
	case <-ctx.Done():
	}

	logging.Info("shutting down stream server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stream server shutdown: %w", err)
	}
	return nil
}

// advertise registers the stream service over mDNS.
func (s *Server) advertise() error {
	_, portStr, err := net.SplitHostPort(s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("cannot derive port from addr %q: %w", s.cfg.Addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("cannot derive port from addr %q: %w", s.cfg.Addr, err)
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "rtl433"
	}

	s.mdns, err = zeroconf.Register(
		"rtl433-"+hostname,
		ServiceType,
		ServiceDomain,
		port,
		[]string{"path=/ws"},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("advertising stream service over mDNS",
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return nil
}

// Publish broadcasts rec to all connected stream clients. The server
// is a record sink, so the decode pipeline can treat it like any other
// output.
func (s *Server) Publish(rec *device.Record) error {
	ObserveRecord(rec)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	select {
	case s.hub.broadcast <- data:
	default:
		// The hub is saturated or not running; streaming is best
		// effort and must never stall the decode path.
		logging.Debug("dropping stream broadcast, hub busy")
	}
	return nil
}

// Close implements the output sink contract. Shutdown is driven by
// Run's context, so there is nothing further to release.
func (s *Server) Close() error {
	return nil
}
