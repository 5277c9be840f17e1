package store

import (
	"testing"
	"time"

	"github.com/ascendo/trainboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestThrottle returns a throttle with a controllable clock.
func newTestThrottle() (*LoginThrottle, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t := NewLoginThrottle(DefaultThrottleConfig())
	t.now = func() time.Time { return now }
	return t, &now
}

func rateLimitErr(t *testing.T, err error) *models.RateLimitError {
	t.Helper()
	require.Error(t, err)
	var rle *models.RateLimitError
	require.ErrorAs(t, err, &rle)
	return rle
}

func TestThrottleAdmitsUnknownAddress(t *testing.T) {
	throttle, _ := newTestThrottle()

	assert.NoError(t, throttle.Check("10.0.0.5"))
}

func TestThrottleBackoffGrowsWithFailures(t *testing.T) {
	throttle, now := newTestThrottle()

	wait := throttle.RecordFailure("10.0.0.5")
	assert.Equal(t, int64(3), wait)

	// Within the 3s window the address is held back.
	*now = now.Add(1 * time.Second)
	rle := rateLimitErr(t, throttle.Check("10.0.0.5"))
	assert.False(t, rle.Banned)
	assert.Equal(t, int64(2), rle.Seconds)

	// Once the window has elapsed the address is admitted again.
	*now = now.Add(2 * time.Second)
	assert.NoError(t, throttle.Check("10.0.0.5"))

	// A second failure doubles the backoff: 2 * 3s.
	wait = throttle.RecordFailure("10.0.0.5")
	assert.Equal(t, int64(6), wait)

	*now = now.Add(5 * time.Second)
	rle = rateLimitErr(t, throttle.Check("10.0.0.5"))
	assert.Equal(t, int64(1), rle.Seconds)

	*now = now.Add(1 * time.Second)
	assert.NoError(t, throttle.Check("10.0.0.5"))
}

func TestThrottleBansOnFifthFailure(t *testing.T) {
	throttle, now := newTestThrottle()

	for i := 0; i < 4; i++ {
		wait := throttle.RecordFailure("10.0.0.5")
		assert.Equal(t, int64(3*(i+1)), wait)
		*now = now.Add(time.Duration(wait) * time.Second)
	}

	wait := throttle.RecordFailure("10.0.0.5")
	assert.Equal(t, int64(7200), wait)

	rle := rateLimitErr(t, throttle.Check("10.0.0.5"))
	assert.True(t, rle.Banned)
	assert.Equal(t, int64(7200), rle.Seconds)

	// One second before expiry the ban still holds.
	*now = now.Add(7199 * time.Second)
	rle = rateLimitErr(t, throttle.Check("10.0.0.5"))
	assert.True(t, rle.Banned)
	assert.Equal(t, int64(1), rle.Seconds)

	// At expiry the address is admitted again.
	*now = now.Add(1 * time.Second)
	assert.NoError(t, throttle.Check("10.0.0.5"))
}

func TestThrottleLapsedBanReturnsOnNextFailure(t *testing.T) {
	throttle, now := newTestThrottle()

	for i := 0; i < 5; i++ {
		throttle.RecordFailure("10.0.0.5")
	}
	*now = now.Add(3 * time.Hour)
	require.NoError(t, throttle.Check("10.0.0.5"))

	// The counter survives ban expiry, so a single further failure re-bans.
	wait := throttle.RecordFailure("10.0.0.5")
	assert.Equal(t, int64(7200), wait)

	rle := rateLimitErr(t, throttle.Check("10.0.0.5"))
	assert.True(t, rle.Banned)
}

func TestThrottleSuccessResetsAddress(t *testing.T) {
	throttle, _ := newTestThrottle()

	for i := 0; i < 4; i++ {
		throttle.RecordFailure("10.0.0.5")
	}
	throttle.RecordSuccess("10.0.0.5")

	// No residual wait: the very next attempt is admitted immediately...
	assert.NoError(t, throttle.Check("10.0.0.5"))

	// ...and the failure counter restarts from one.
	assert.Equal(t, int64(3), throttle.RecordFailure("10.0.0.5"))
}

func TestThrottleAddressesAreIndependent(t *testing.T) {
	throttle, _ := newTestThrottle()

	for i := 0; i < 5; i++ {
		throttle.RecordFailure("10.0.0.5")
	}

	assert.Error(t, throttle.Check("10.0.0.5"))
	assert.NoError(t, throttle.Check("10.0.0.6"))
}

func TestThrottleSweepsStaleRecords(t *testing.T) {
	throttle, now := newTestThrottle()

	for i := 0; i < 5; i++ {
		throttle.RecordFailure("10.0.0.5")
	}

	// After the cleanup age the banned record is gone entirely: the address
	// is admitted and its counter restarts from scratch.
	*now = now.Add(24 * time.Hour)
	assert.NoError(t, throttle.Check("10.0.0.5"))
	assert.Equal(t, int64(3), throttle.RecordFailure("10.0.0.5"))
}
