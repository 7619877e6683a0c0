package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	submissionsScored     prometheus.Counter
	uploadsRejectedTotal  *prometheus.CounterVec
	chatbotRequestsTotal  *prometheus.CounterVec
	progressUpdatesTotal  prometheus.Counter
	simulationAdvancement *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartlab_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smartlab_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		submissionsScored = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartlab_assessment_submissions_total",
			Help: "Number of assessment submissions scored.",
		})

		uploadsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartlab_uploads_rejected_total",
			Help: "Number of uploads rejected before reaching storage.",
		}, []string{"reason"})

		chatbotRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartlab_chatbot_requests_total",
			Help: "Chatbot relay requests by outcome.",
		}, []string{"outcome"})

		progressUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartlab_progress_updates_total",
			Help: "Number of sub-chapter completion writes.",
		})

		simulationAdvancement = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartlab_simulation_stage_advances_total",
			Help: "Simulation stage advances by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			submissionsScored,
			uploadsRejectedTotal,
			chatbotRequestsTotal,
			progressUpdatesTotal,
			simulationAdvancement,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// SubmissionsScored exposes the submission counter.
func SubmissionsScored() prometheus.Counter {
	RegisterMetrics()
	return submissionsScored
}

// UploadsRejected exposes the rejected-upload counter.
func UploadsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadsRejectedTotal
}

// ChatbotRequests exposes the chatbot outcome counter.
func ChatbotRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return chatbotRequestsTotal
}

// ProgressUpdates exposes the progress write counter.
func ProgressUpdates() prometheus.Counter {
	RegisterMetrics()
	return progressUpdatesTotal
}

// SimulationAdvances exposes the simulation advance counter.
func SimulationAdvances() *prometheus.CounterVec {
	RegisterMetrics()
	return simulationAdvancement
}
