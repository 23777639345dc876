// Package ratelimit throttles repeated login attempts per identifier.
//
// State lives in a single in-process map, so the guarantee is per-process: a
// multi-node deployment would need to pin logins to one node or back this with
// a shared store. The bar runs a single instance, which keeps this honest.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

const (
	MaxAttempts     = 5
	Cooldown        = 60 * time.Second
	cleanupInterval = 5 * time.Minute
)

// Result is the outcome of recording one attempt. When Allowed is false the
// caller must reject the request without checking credentials.
type Result struct {
	Allowed           bool
	RemainingAttempts int
	CooldownSeconds   int
	Message           string
}

type record struct {
	count        int
	lastAttempt  time.Time
	blockedUntil time.Time
}

type Limiter struct {
	mu      sync.Mutex
	records map[string]*record
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

func New() *Limiter {
	return NewWithClock(time.Now)
}

// NewWithClock injects the clock so tests can drive block expiry and the idle
// sweep deterministically.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		records: make(map[string]*record),
		now:     now,
		stop:    make(chan struct{}),
	}
}

// Start launches the periodic idle sweep. Stop terminates it.
func (l *Limiter) Start() {
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.sweep(l.now())
			case <-l.stop:
				return
			}
		}
	}()
}

func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Check records one attempt for the identifier and decides whether the caller
// may proceed to credential verification. The identifier is treated as an
// opaque key; callers normalize it (lowercased email) before calling.
func (l *Limiter) Check(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	data, ok := l.records[identifier]
	if !ok {
		l.records[identifier] = &record{count: 1, lastAttempt: now}
		return Result{Allowed: true, RemainingAttempts: MaxAttempts - 1}
	}

	if !data.blockedUntil.IsZero() {
		if now.Before(data.blockedUntil) {
			seconds := ceilSeconds(data.blockedUntil.Sub(now))
			return Result{
				Allowed:         false,
				CooldownSeconds: seconds,
				Message:         fmt.Sprintf("Muitas tentativas. Tente novamente em %d segundos.", seconds),
			}
		}
		// Block expired: this attempt starts a fresh cycle.
		l.records[identifier] = &record{count: 1, lastAttempt: now}
		return Result{Allowed: true, RemainingAttempts: MaxAttempts - 1}
	}

	data.count++
	data.lastAttempt = now
	if data.count >= MaxAttempts {
		data.blockedUntil = now.Add(Cooldown)
		seconds := int(Cooldown / time.Second)
		return Result{
			Allowed:         false,
			CooldownSeconds: seconds,
			Message:         fmt.Sprintf("Muitas tentativas. Tente novamente em %d segundos.", seconds),
		}
	}
	return Result{Allowed: true, RemainingAttempts: MaxAttempts - data.count}
}

// Reset forgets the identifier. Called exactly once after a verified login.
func (l *Limiter) Reset(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, identifier)
}

func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for identifier, data := range l.records {
		if now.Sub(data.lastAttempt) > cleanupInterval {
			delete(l.records, identifier)
		}
	}
}

func ceilSeconds(d time.Duration) int {
	seconds := d / time.Second
	if d%time.Second > 0 {
		seconds++
	}
	return int(seconds)
}
