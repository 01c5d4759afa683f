package infrastructure

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/ports"
)

// Ensure PrometheusSyncMetrics implements ports.SyncMetrics.
var _ ports.SyncMetrics = (*PrometheusSyncMetrics)(nil)

// PrometheusSyncMetrics implements ports.SyncMetrics with Prometheus collectors.
type PrometheusSyncMetrics struct {
	lookupAttempts *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	rolesCreated   prometheus.Counter
	syncs          *prometheus.CounterVec
	syncDuration   *prometheus.HistogramVec
}

// NewPrometheusSyncMetrics creates the collectors and registers them on reg.
// Collectors that are already registered are reused.
func NewPrometheusSyncMetrics(reg prometheus.Registerer) (*PrometheusSyncMetrics, error) {
	m := &PrometheusSyncMetrics{
		lookupAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "elobot_rating_lookup_attempts_total",
			Help: "Upstream rating lookups by outcome.",
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "elobot_role_cache_lookups_total",
			Help: "Role cache lookups by result.",
		}, []string{"result"}),
		rolesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "elobot_roles_created_total",
			Help: "Roles created by the bot.",
		}),
		syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "elobot_syncs_total",
			Help: "Completed syncs by outcome.",
		}, []string{"outcome"}),
		syncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "elobot_sync_duration_seconds",
			Help:    "Sync duration by outcome.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	var err error
	if m.lookupAttempts, err = register(reg, m.lookupAttempts); err != nil {
		return nil, err
	}
	if m.cacheLookups, err = register(reg, m.cacheLookups); err != nil {
		return nil, err
	}
	if m.rolesCreated, err = register(reg, m.rolesCreated); err != nil {
		return nil, err
	}
	if m.syncs, err = register(reg, m.syncs); err != nil {
		return nil, err
	}
	if m.syncDuration, err = register(reg, m.syncDuration); err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *PrometheusSyncMetrics) RatingLookupAttempt(outcome string) {
	m.lookupAttempts.WithLabelValues(outcome).Inc()
}

func (m *PrometheusSyncMetrics) RoleCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *PrometheusSyncMetrics) RoleCreated() {
	m.rolesCreated.Inc()
}

func (m *PrometheusSyncMetrics) SyncCompleted(outcome string, duration time.Duration) {
	m.syncs.WithLabelValues(outcome).Inc()
	m.syncDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}
