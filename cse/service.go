package cse

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Vijendrasi/container-service-extension/broker"
	"github.com/Vijendrasi/container-service-extension/config"
	"github.com/Vijendrasi/container-service-extension/template"
)

// reconnectDelay pause between broker reconnect attempts
const reconnectDelay = 5 * time.Second

// Service is the running extension: a consumer pool bound to the vCD AMQP
// exchange plus a small status HTTP surface.
type Service struct {
	cfg       *config.Config
	version   string
	processor *Processor
	rechecker *template.Rechecker

	mu        sync.Mutex
	pool      *broker.Pool
	ln        net.Listener
	startTime time.Time
	stopped   bool
	stopCh    chan struct{}
}

// StatusInfo describe the state of the service
type StatusInfo struct {
	Version        string `json:"version"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	ConsumersAlive int32  `json:"consumers_alive"`
	Processed      uint64 `json:"messages_processed"`
	Errors         uint64 `json:"processing_errors"`
	InFlight       int32  `json:"deliveries_in_flight"`
	Templates      int    `json:"templates"`
}

// New creates a Service object from a loaded configuration
func New(cfg *config.Config, version string) *Service {
	return &Service{
		cfg:       cfg,
		version:   version,
		processor: NewProcessor(cfg, version),
		rechecker: template.NewRechecker(cfg),
		stopCh:    make(chan struct{}),
	}
}

// Run connects to the broker and serves until Shutdown. Broker connection
// loss triggers reconnects with a fixed delay.
func (s *Service) Run() error {
	s.mu.Lock()
	s.startTime = time.Now()
	s.mu.Unlock()

	if err := s.startHTTPServer(); err != nil {
		return err
	}
	if err := s.rechecker.Start(); err != nil {
		return err
	}
	defer s.rechecker.Stop()
	defer s.stopHTTPServer()

	for {
		select {
		case <-s.stopCh:
			return nil
		default:
		}

		err := s.serveBroker()
		if err == nil {
			return nil
		}
		log.WithFields(log.Fields{log.ErrorKey: err}).Warn("broker connection lost, reconnecting")
		select {
		case <-s.stopCh:
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

// serveBroker runs one broker connection to completion. A nil return means
// the service is shutting down; an error triggers a reconnect.
func (s *Service) serveBroker() error {
	client := broker.NewClient(&s.cfg.AMQP)
	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Close()

	if err := client.EnsureExchange(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := broker.NewPool(client, s.cfg.Service.Listeners, s.processor.Handle)
	if err := pool.Start(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.pool = pool
	s.mu.Unlock()

	closed := client.NotifyClose()
	select {
	case err := <-closed:
		cancel()
		pool.Wait()
		if err == nil {
			return nil
		}
		return err
	case <-s.stopCh:
		cancel()
		pool.Wait()
		return nil
	}
}

// Shutdown stops the service and drains the consumers
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.stopCh)
	log.Info("service shutdown requested")
}

// Status returns a snapshot of the service state
func (s *Service) Status() StatusInfo {
	s.mu.Lock()
	pool := s.pool
	start := s.startTime
	s.mu.Unlock()

	info := StatusInfo{
		Version:   s.version,
		Templates: len(s.cfg.Broker.Templates),
	}
	if !start.IsZero() {
		info.UptimeSeconds = int64(time.Since(start).Seconds())
	}
	if pool != nil {
		stats := pool.Stats()
		info.ConsumersAlive = stats.Alive
		info.Processed = stats.Processed
		info.Errors = stats.Errors
		info.InFlight = stats.InFlight
	}
	return info
}

func (s *Service) startHTTPServer() error {
	addr := s.cfg.Service.ListenAddr
	if addr == "" {
		return nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	handler := NewRestful(s).CreateHandler()
	go func() {
		log.WithFields(log.Fields{"addr": addr}).Info("status http server started")
		_ = http.Serve(ln, handler)
	}()
	return nil
}

func (s *Service) stopHTTPServer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		_ = s.ln.Close()
		s.ln = nil
	}
}
