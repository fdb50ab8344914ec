package server

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type mockService struct {
	name    string
	started atomic.Bool
	stopped atomic.Bool
	startFn func(ctx context.Context) error
}

func (m *mockService) Name() string { return m.name }

func (m *mockService) Start(ctx context.Context) error {
	m.started.Store(true)
	if m.startFn != nil {
		return m.startFn(ctx)
	}
	// Block until stopped
	for !m.stopped.Load() {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (m *mockService) Stop(ctx context.Context) error {
	m.stopped.Store(true)
	return nil
}

func TestLifecycleStartsAndStopsServices(t *testing.T) {
	logger := zaptest.NewLogger(t)
	lc := NewLifecycle(logger, time.Second)

	svc1 := &mockService{name: "svc1"}
	svc2 := &mockService{name: "svc2"}

	lc.Add(svc1)
	lc.Add(svc2)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- lc.Run(ctx)
	}()

	// Wait for services to start
	deadline := time.After(2 * time.Second)
	for {
		if svc1.started.Load() && svc2.started.Load() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("services did not start in time")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	assert.True(t, svc1.started.Load())
	assert.True(t, svc2.started.Load())

	// Trigger shutdown
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down in time")
	}

	assert.True(t, svc1.stopped.Load())
	assert.True(t, svc2.stopped.Load())
}

func TestLifecycleStopsOnServiceFailure(t *testing.T) {
	logger := zaptest.NewLogger(t)
	lc := NewLifecycle(logger, time.Second)

	healthy := &mockService{name: "healthy"}
	failing := &mockService{
		name: "failing",
		startFn: func(ctx context.Context) error {
			return errors.New("listen failed")
		},
	}

	lc.Add(healthy)
	lc.Add(failing)

	done := make(chan error, 1)
	go func() {
		done <- lc.Run(context.Background())
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lifecycle did not shut down after service failure")
	}

	assert.True(t, healthy.stopped.Load())
}

func TestFuncService(t *testing.T) {
	started := false
	stopped := false

	svc := &FuncService{
		ServiceName: "fn",
		StartFn: func(ctx context.Context) error {
			started = true
			return nil
		},
		StopFn: func(ctx context.Context) error {
			stopped = true
			return nil
		},
	}

	assert.Equal(t, "fn", svc.Name())

	err := svc.Start(context.Background())
	assert.NoError(t, err)
	assert.True(t, started)

	assert.NoError(t, svc.Stop(context.Background()))
	assert.True(t, stopped)
}

func TestFuncServiceNilStop(t *testing.T) {
	svc := &FuncService{
		ServiceName: "fn",
		StartFn:     func(ctx context.Context) error { return nil },
	}
	assert.NoError(t, svc.Stop(context.Background()))
}
