package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records cross-context sync bus traffic and the initial load flag.
type SyncMetrics struct {
	published *prometheus.CounterVec
	applied   *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	syncing   prometheus.Gauge
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gs_sync_messages_published_total",
		Help: "Snapshots published on the sync bus.",
	}, []string{"type"})
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gs_sync_messages_applied_total",
		Help: "Snapshots received from the sync bus and applied to local state.",
	}, []string{"type"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gs_sync_messages_dropped_total",
		Help: "Sync bus messages discarded without being applied.",
	}, []string{"reason"})
	syncing := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gs_server_syncing",
		Help: "1 while the initial collection fetch is in flight.",
	})
	reg.MustRegister(published, applied, dropped, syncing)
	return &SyncMetrics{
		published: published,
		applied:   applied,
		dropped:   dropped,
		syncing:   syncing,
	}
}

func (s *SyncMetrics) IncPublished(messageType string) {
	if s == nil || s.published == nil {
		return
	}
	s.published.WithLabelValues(normalizeLabel(messageType)).Inc()
}

func (s *SyncMetrics) IncApplied(messageType string) {
	if s == nil || s.applied == nil {
		return
	}
	s.applied.WithLabelValues(normalizeLabel(messageType)).Inc()
}

func (s *SyncMetrics) IncDropped(reason string) {
	if s == nil || s.dropped == nil {
		return
	}
	s.dropped.WithLabelValues(normalizeLabel(reason)).Inc()
}

// SetSyncing mirrors the controller's isServerSyncing flag.
func (s *SyncMetrics) SetSyncing(active bool) {
	if s == nil || s.syncing == nil {
		return
	}
	if active {
		s.syncing.Set(1)
		return
	}
	s.syncing.Set(0)
}
