package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsIsolatedRegistry(t *testing.T) {
	// Two instances on separate registries must not collide.
	m := New(prometheus.NewRegistry())
	_ = New(prometheus.NewRegistry())

	m.IncrementLogins()
	m.IncrementAuthFailures("login")
	m.IncrementAuthFailures("login")
	m.AddNotesDeleted(0)
	m.AddNotesDeleted(2)
	m.ObserveStorage("notes", "insert", nil)
	m.ObserveStorage("notes", "insert", errors.New("disk full"))
	m.IncrementRateLimited("auth")

	assert.InDelta(t, 1, testutil.ToFloat64(m.LoginsSucceeded), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.AuthFailures.WithLabelValues("login")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.NotesDeleted), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.StorageOperations.WithLabelValues("notes", "insert", "error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RateLimited.WithLabelValues("auth")), 0)
}
