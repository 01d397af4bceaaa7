package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestBreakerLifecycle(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := New("kafka", WithFailureThreshold(2), WithCooldown(time.Minute), WithClock(clock.Now))

	assert.True(t, b.Allow())
	assert.False(t, b.RecordFailure())
	assert.True(t, b.RecordFailure(), "second failure trips the circuit")
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())

	clock.t = clock.t.Add(time.Minute)
	assert.True(t, b.Allow(), "probe admitted after cooldown")
	assert.Equal(t, StateHalfOpen, b.State())
	assert.False(t, b.Allow(), "only one probe at a time")

	assert.True(t, b.RecordFailure(), "failed probe re-opens")
	assert.False(t, b.Allow())

	clock.t = clock.t.Add(2 * time.Minute)
	assert.True(t, b.Allow())
	assert.True(t, b.RecordSuccess())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	b := New("kafka", WithFailureThreshold(2))

	b.RecordFailure()
	assert.False(t, b.RecordSuccess())
	assert.False(t, b.RecordFailure())
	assert.Equal(t, StateClosed, b.State())
}
