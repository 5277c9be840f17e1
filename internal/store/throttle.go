package store

import (
	"sync"
	"time"

	"github.com/ascendo/trainboard/internal/models"
)

// ThrottleConfig holds the login throttle tuning knobs.
type ThrottleConfig struct {
	BanThreshold   int           // failures at which an address is banned
	WaitMultiplier time.Duration // backoff per recorded failure
	BanDuration    time.Duration // how long a ban lasts
	CleanupAge     time.Duration // records older than this are swept
}

// DefaultThrottleConfig returns the production defaults.
func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		BanThreshold:   5,
		WaitMultiplier: 3 * time.Second,
		BanDuration:    2 * time.Hour,
		CleanupAge:     24 * time.Hour,
	}
}

type loginAttempt struct {
	count       int
	lastAttempt time.Time
}

// LoginThrottle tracks failed login attempts per source address and computes
// progressive backoff and temporary bans. It is independent of usernames: the
// key is always the client IP.
//
// Check and RecordFailure/RecordSuccess are deliberately separate calls. The
// caller performs the credential comparison between them, so the throttle
// never penalizes an attempt it rejected and never misses one it admitted.
type LoginThrottle struct {
	mu       sync.Mutex
	config   ThrottleConfig
	attempts map[string]loginAttempt
	now      func() time.Time
}

// NewLoginThrottle creates a throttle with the given configuration.
func NewLoginThrottle(config ThrottleConfig) *LoginThrottle {
	return &LoginThrottle{
		config:   config,
		attempts: make(map[string]loginAttempt),
		now:      time.Now,
	}
}

// Check decides whether a login attempt from ip may proceed. It returns nil
// to admit, or a *models.RateLimitError carrying the remaining wait.
// It must be called before any credential comparison.
func (t *LoginThrottle) Check(ip string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.sweep(now)

	attempt, ok := t.attempts[ip]
	if !ok {
		return nil
	}

	if attempt.count >= t.config.BanThreshold {
		banUntil := attempt.lastAttempt.Add(t.config.BanDuration)
		if now.Before(banUntil) {
			return &models.RateLimitError{Banned: true, Seconds: secondsUntil(now, banUntil)}
		}
		// A lapsed ban falls through without resetting the counter, so the
		// very next failure re-bans the address.
	} else if attempt.count > 0 {
		canAttemptAt := attempt.lastAttempt.Add(time.Duration(attempt.count) * t.config.WaitMultiplier)
		if now.Before(canAttemptAt) {
			return &models.RateLimitError{Seconds: secondsUntil(now, canAttemptAt)}
		}
	}

	return nil
}

// RecordFailure registers a failed credential comparison for ip and returns
// the wait, in seconds, before the next attempt will be admitted.
func (t *LoginThrottle) RecordFailure(ip string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	attempt := t.attempts[ip]
	attempt.count++
	attempt.lastAttempt = t.now()
	t.attempts[ip] = attempt

	if attempt.count >= t.config.BanThreshold {
		return int64(t.config.BanDuration.Seconds())
	}
	return int64((time.Duration(attempt.count) * t.config.WaitMultiplier).Seconds())
}

// RecordSuccess resets ip entirely: a single successful login clears any
// accumulated failures, whatever their count.
func (t *LoginThrottle) RecordSuccess(ip string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, ip)
}

// sweep drops records whose last attempt is older than CleanupAge. This
// bounds memory, it is not needed for correctness. Caller holds t.mu.
func (t *LoginThrottle) sweep(now time.Time) {
	for ip, attempt := range t.attempts {
		if now.Sub(attempt.lastAttempt) >= t.config.CleanupAge {
			delete(t.attempts, ip)
		}
	}
}

func secondsUntil(now, deadline time.Time) int64 {
	remaining := deadline.Sub(now)
	if remaining < 0 {
		return 0
	}
	return int64(remaining.Seconds())
}
