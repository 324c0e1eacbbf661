package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Brownie44l1/dirserve/internal/pathguard"
	"github.com/Brownie44l1/dirserve/internal/response"
)

var ErrServerClosed = errors.New("server closed")

// Config configures a Server.
type Config struct {
	Addr string
	// Root is the directory served. It is canonicalized once by New.
	Root           string
	ReadBufferSize int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	// MaxWorkers bounds concurrently handled connections. 1 handles
	// connections strictly one after another.
	MaxWorkers  int
	GuardMode   pathguard.Mode
	CRLFHeaders bool
}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:5500",
		Root:           ".",
		ReadBufferSize: 1024,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxWorkers:     64,
		GuardMode:      pathguard.Strict,
	}
}

type Server struct {
	Logger Logger

	config  Config
	guard   *pathguard.Guard
	builder *response.Builder
	metrics *Metrics
	buffers *bufferPool
	workers chan struct{}

	mu       sync.Mutex
	listener net.Listener
	closed   atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
	conns    sync.WaitGroup
}

// New validates config and resolves the serving root.
func New(config Config) (*Server, error) {
	def := DefaultConfig()
	if config.Addr == "" {
		config.Addr = def.Addr
	}
	if config.Root == "" {
		config.Root = def.Root
	}
	if config.ReadBufferSize <= 0 {
		config.ReadBufferSize = def.ReadBufferSize
	}
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = def.MaxWorkers
	}

	guard, err := pathguard.New(config.Root, config.GuardMode)
	if err != nil {
		return nil, err
	}

	return &Server{
		Logger:  NewDefaultLogger(),
		config:  config,
		guard:   guard,
		builder: response.NewBuilder(guard, response.WithCRLF(config.CRLFHeaders)),
		metrics: NewMetrics(),
		buffers: newBufferPool(config.ReadBufferSize),
		workers: make(chan struct{}, config.MaxWorkers),
		done:    make(chan struct{}),
	}, nil
}

// Root returns the canonical serving root.
func (s *Server) Root() string {
	return s.guard.Root()
}

// ListenAndServe listens on the configured address and serves.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown or Close. Accepting
// pauses while MaxWorkers connections are being handled.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.Logger.Info("server started",
		Field{"addr", ln.Addr().String()},
		Field{"root", s.guard.Root()},
		Field{"guard", s.guard.Mode().String()},
		Field{"max_workers", s.config.MaxWorkers},
	)

	for {
		select {
		case s.workers <- struct{}{}:
		case <-s.done:
			return ErrServerClosed
		}

		// conns.Add only while not closed; Shutdown waits after stop.
		s.mu.Lock()
		if s.closed.Load() {
			s.mu.Unlock()
			<-s.workers
			return ErrServerClosed
		}
		s.conns.Add(1)
		s.mu.Unlock()

		conn, err := ln.Accept()
		if err != nil {
			s.conns.Done()
			<-s.workers
			if s.closed.Load() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.Logger.Warn("accept failed", Field{"error", err})
			continue
		}

		go func() {
			defer s.conns.Done()
			defer func() { <-s.workers }()
			s.serveConn(conn)
		}()
	}
}

// Shutdown stops accepting and waits for in-flight connections or ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()

	finished := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		s.Logger.Info("server stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting without waiting for in-flight connections.
func (s *Server) Close() error {
	return s.stop()
}

func (s *Server) stop() error {
	var err error
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.closed.Store(true)
		close(s.done)
		if s.listener != nil {
			err = s.listener.Close()
		}
	})
	return err
}

// Stats returns a snapshot of the server counters.
func (s *Server) Stats() MetricsSnapshot {
	return s.metrics.Snapshot()
}
