package auth

import (
	"sync"
	"time"
)

// RateLimiter counts failed logins per client IP and login name inside a
// fixed window and blocks the pair for a lockout period once the limit is hit.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptRecord
	cfg      RateLimitConfig
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

type RateLimitConfig struct {
	MaxAttempts     int
	WindowDuration  time.Duration
	LockoutDuration time.Duration
	CleanupInterval time.Duration
}

func (cfg RateLimitConfig) withDefaults() RateLimitConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = 15 * time.Minute
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	return cfg
}

// NewRateLimiter starts a limiter with a background sweep of stale records.
// Call Stop when done.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		attempts: make(map[string]*attemptRecord),
		cfg:      cfg.withDefaults(),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func key(ip, login string) string {
	return ip + "|" + login
}

// Allow reports whether another attempt may be made and, if not, how long
// the caller has to wait.
func (rl *RateLimiter) Allow(ip, login string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, ok := rl.attempts[key(ip, login)]
	if !ok {
		return true, 0
	}

	now := rl.now()
	if now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}
	if now.Sub(record.firstAttempt) > rl.cfg.WindowDuration {
		return true, 0
	}
	return record.count < rl.cfg.MaxAttempts, 0
}

// RecordFailure counts a failed attempt and returns true when it triggered a lockout.
func (rl *RateLimiter) RecordFailure(ip, login string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	k := key(ip, login)
	record, ok := rl.attempts[k]
	if !ok || now.Sub(record.firstAttempt) > rl.cfg.WindowDuration {
		record = &attemptRecord{firstAttempt: now}
		rl.attempts[k] = record
	}

	record.count++
	if record.count >= rl.cfg.MaxAttempts {
		record.lockedUntil = now.Add(rl.cfg.LockoutDuration)
		return true
	}
	return false
}

func (rl *RateLimiter) RecordSuccess(ip, login string) {
	rl.mu.Lock()
	delete(rl.attempts, key(ip, login))
	rl.mu.Unlock()
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for k, record := range rl.attempts {
		if now.Sub(record.firstAttempt) > rl.cfg.WindowDuration && !now.Before(record.lockedUntil) {
			delete(rl.attempts, k)
		}
	}
}
