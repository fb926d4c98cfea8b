package core

// upload_limiter.go bounds how many CSV imports and evidence uploads run at
// once. Callers that cannot get a slot within the wait time fail with
// ErrTooManyUploads. On shutdown, WaitForDrain closes the limiter to new
// work and takes every slot, which returns once all holders have released.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyUploads is returned when all upload slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyUploads = errors.New("too many concurrent uploads, please try again later")

const (
	DefaultMaxConcurrentUploads = 5
	DefaultMaxWaitTime          = 30 * time.Second
)

// UploadLimiter is a counting semaphore over upload work.
type UploadLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	active atomic.Int64
	closed atomic.Bool
}

// NewUploadLimiter allows at most maxConcurrent holders at a time.
// Non-positive arguments fall back to the defaults.
func NewUploadLimiter(maxConcurrent int, maxWait time.Duration) *UploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentUploads
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &UploadLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire waits up to the limiter's wait time for a slot. The caller must
// call Release exactly once after a nil return.
func (l *UploadLimiter) Acquire(ctx context.Context) error {
	if l.closed.Load() {
		return ErrTooManyUploads
	}

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-timer.C:
		return ErrTooManyUploads
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot taken by Acquire.
func (l *UploadLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Do runs fn while holding a slot.
func (l *UploadLimiter) Do(ctx context.Context, fn func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}

// ActiveCount returns the number of held slots.
func (l *UploadLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// WaitForDrain stops new acquisitions and blocks until every slot is
// free or ctx ends. The limiter stays closed afterwards: later Acquire
// calls fail with ErrTooManyUploads.
func (l *UploadLimiter) WaitForDrain(ctx context.Context) error {
	l.closed.Store(true)

	taken := 0
	defer func() {
		for ; taken > 0; taken-- {
			<-l.slots
		}
	}()

	for taken < cap(l.slots) {
		select {
		case l.slots <- struct{}{}:
			taken++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// UploadLimiterStatus is a snapshot of the limiter for health reporting.
type UploadLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *UploadLimiter) Status() UploadLimiterStatus {
	return UploadLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
