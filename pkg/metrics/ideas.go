package metrics

import "github.com/prometheus/client_golang/prometheus"

// IdeaMetrics tracks upload activity of the idea store.
type IdeaMetrics struct {
	orphaned prometheus.Counter
	inFlight prometheus.Gauge
}

// NewIdeaMetrics registers the idea store collectors on the provided registerer.
func NewIdeaMetrics(reg prometheus.Registerer) *IdeaMetrics {
	if reg == nil {
		return &IdeaMetrics{}
	}
	orphaned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "idea_orphaned_blobs_total",
		Help: "Logo blobs uploaded whose idea record was never written.",
	})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "idea_uploads_in_flight",
		Help: "Idea submissions or updates currently holding the uploading flag.",
	})
	reg.MustRegister(orphaned, inFlight)
	return &IdeaMetrics{orphaned: orphaned, inFlight: inFlight}
}

func (m *IdeaMetrics) IncOrphanedBlob() {
	if m == nil || m.orphaned == nil {
		return
	}
	m.orphaned.Inc()
}

// UploadStarted and UploadFinished bracket one uploading section.
func (m *IdeaMetrics) UploadStarted() {
	if m == nil || m.inFlight == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *IdeaMetrics) UploadFinished() {
	if m == nil || m.inFlight == nil {
		return
	}
	m.inFlight.Dec()
}
