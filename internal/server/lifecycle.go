// Package server provides application lifecycle management including
// graceful startup and shutdown with signal handling.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service represents a long-running component that can be started and stopped.
type Service interface {
	// Name identifies the service in logs.
	Name() string
	// Start begins the service. It may block for the service's lifetime or
	// return nil once background work is launched; a non-nil error triggers
	// shutdown of the whole lifecycle.
	Start(ctx context.Context) error
	// Stop gracefully stops the service. It should return once shutdown is
	// complete or ctx expires, whichever comes first.
	Stop(ctx context.Context) error
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	ServiceName string
	StartFn     func(ctx context.Context) error
	StopFn      func(ctx context.Context) error
}

// Name returns the service name.
func (f *FuncService) Name() string { return f.ServiceName }

// Start calls the underlying start function.
func (f *FuncService) Start(ctx context.Context) error { return f.StartFn(ctx) }

// Stop calls the underlying stop function. A nil StopFn is a no-op.
func (f *FuncService) Stop(ctx context.Context) error {
	if f.StopFn == nil {
		return nil
	}
	return f.StopFn(ctx)
}

// Lifecycle manages the startup and shutdown of multiple services.
// Services are started in order and stopped in reverse order.
type Lifecycle struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration
	services        []Service
	mu              sync.Mutex
}

// NewLifecycle creates a new Lifecycle manager. shutdownTimeout bounds the
// time each service's Stop is given; zero means no bound.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger, shutdownTimeout time.Duration) *Lifecycle {
	return &Lifecycle{
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// Add registers a service for lifecycle management.
// Services are started in the order they are added.
//
// Precondition: svc must be non-nil.
func (l *Lifecycle) Add(svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, svc)
}

// Run starts all services and blocks until a termination signal is received
// (SIGINT or SIGTERM), the context is cancelled, or a service fails. Services
// are then stopped in reverse order.
//
// Postcondition: All services are stopped when this method returns.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start services
	errCh := make(chan error, len(l.services))
	for _, svc := range l.services {
		svc := svc
		go func() {
			l.logger.Info("starting service",
				zap.String("service", svc.Name()),
			)
			svcStart := time.Now()
			if err := svc.Start(ctx); err != nil {
				l.logger.Error("service failed",
					zap.String("service", svc.Name()),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
				errCh <- fmt.Errorf("service %s: %w", svc.Name(), err)
				cancel()
			}
		}()
	}

	l.logger.Info("all services started",
		zap.Int("count", len(l.services)),
		zap.Duration("startup", time.Since(start)),
	)

	// Wait for signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		l.logger.Info("received signal, shutting down",
			zap.String("signal", sig.String()),
		)
	case err := <-errCh:
		l.logger.Error("service error, shutting down",
			zap.Error(err),
		)
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	// Stop services in reverse order
	l.shutdown()

	l.logger.Info("shutdown complete",
		zap.Duration("total_uptime", time.Since(start)),
	)
	return nil
}

func (l *Lifecycle) shutdown() {
	shutdownStart := time.Now()
	for i := len(l.services) - 1; i >= 0; i-- {
		svc := l.services[i]
		svcStart := time.Now()
		l.logger.Info("stopping service",
			zap.String("service", svc.Name()),
		)
		stopCtx := context.Background()
		if l.shutdownTimeout > 0 {
			var cancel context.CancelFunc
			stopCtx, cancel = context.WithTimeout(stopCtx, l.shutdownTimeout)
			defer cancel()
		}
		if err := svc.Stop(stopCtx); err != nil {
			l.logger.Warn("service stop failed",
				zap.String("service", svc.Name()),
				zap.Error(err),
			)
		}
		l.logger.Info("service stopped",
			zap.String("service", svc.Name()),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	l.logger.Info("all services stopped",
		zap.Duration("shutdown_elapsed", time.Since(shutdownStart)),
	)
}
