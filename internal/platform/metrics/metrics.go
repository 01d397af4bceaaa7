package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's domain counters.
type Metrics struct {
	LoginsSucceeded   prometheus.Counter
	AuthFailures      *prometheus.CounterVec
	Registrations     prometheus.Counter
	PasswordsChanged  prometheus.Counter
	ResetsRequested   prometheus.Counter
	ResetsCompleted   prometheus.Counter
	NotifierFailures  prometheus.Counter
	NotesCreated      prometheus.Counter
	NotesDeleted      prometheus.Counter
	StorageOperations *prometheus.CounterVec
	RateLimited       *prometheus.CounterVec
}

// New registers all metrics on reg; nil means the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		LoginsSucceeded: f.NewCounter(prometheus.CounterOpts{
			Name: "jotter_logins_total",
			Help: "Total number of successful logins",
		}),
		AuthFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jotter_auth_failures_total",
			Help: "Authentication failures, labeled by workflow",
		}, []string{"workflow"}),
		Registrations: f.NewCounter(prometheus.CounterOpts{
			Name: "jotter_registrations_total",
			Help: "Total number of accounts registered",
		}),
		PasswordsChanged: f.NewCounter(prometheus.CounterOpts{
			Name: "jotter_password_changes_total",
			Help: "Total number of in-session password changes",
		}),
		ResetsRequested: f.NewCounter(prometheus.CounterOpts{
			Name: "jotter_password_reset_requests_total",
			Help: "Total number of password reset requests for existing accounts",
		}),
		ResetsCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "jotter_password_resets_completed_total",
			Help: "Total number of completed password resets",
		}),
		NotifierFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "jotter_notifier_failures_total",
			Help: "Reset notifications that could not be delivered",
		}),
		NotesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "jotter_notes_created_total",
			Help: "Total number of notes created",
		}),
		NotesDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "jotter_notes_deleted_total",
			Help: "Total number of notes deleted",
		}),
		StorageOperations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jotter_storage_operations_total",
			Help: "Repository operations, labeled by entity, operation and outcome",
		}, []string{"entity", "op", "outcome"}),
		RateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jotter_rate_limited_total",
			Help: "Requests rejected by a rate limit, labeled by endpoint class",
		}, []string{"class"}),
	}
}

func (m *Metrics) IncrementLogins() {
	m.LoginsSucceeded.Inc()
}

func (m *Metrics) IncrementAuthFailures(workflow string) {
	m.AuthFailures.WithLabelValues(workflow).Inc()
}

func (m *Metrics) IncrementRegistrations() {
	m.Registrations.Inc()
}

func (m *Metrics) IncrementPasswordsChanged() {
	m.PasswordsChanged.Inc()
}

func (m *Metrics) IncrementResetsRequested() {
	m.ResetsRequested.Inc()
}

func (m *Metrics) IncrementResetsCompleted() {
	m.ResetsCompleted.Inc()
}

func (m *Metrics) IncrementNotifierFailures() {
	m.NotifierFailures.Inc()
}

func (m *Metrics) IncrementNotesCreated() {
	m.NotesCreated.Inc()
}

func (m *Metrics) AddNotesDeleted(n int64) {
	if n > 0 {
		m.NotesDeleted.Add(float64(n))
	}
}

// ObserveStorage records one repository call; err decides the outcome label.
func (m *Metrics) ObserveStorage(entity, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.StorageOperations.WithLabelValues(entity, op, outcome).Inc()
}

func (m *Metrics) IncrementRateLimited(class string) {
	m.RateLimited.WithLabelValues(class).Inc()
}
