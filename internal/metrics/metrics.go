package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tcw",
		Subsystem: "alert_engine",
		Name:      "ticks_total",
		Help:      "The total number of ticker entries ingested from the stream",
	})
	BatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tcw",
		Subsystem: "alert_engine",
		Name:      "batches_total",
		Help:      "The total number of tick batches processed",
	})
	AlertsTriggered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tcw",
			Subsystem: "alert_engine",
			Name:      "alerts_triggered_total",
			Help:      "Alerts that matched a tick and were retired",
		},
		[]string{"symbol"},
	)
	NotificationsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tcw",
		Subsystem: "alert_engine",
		Name:      "notifications_sent_total",
		Help:      "Notifications successfully delivered",
	})
	NotificationsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tcw",
		Subsystem: "alert_engine",
		Name:      "notifications_failed_total",
		Help:      "Notification dispatch failures",
	})
	FeedReconnects = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tcw",
		Subsystem: "alert_engine",
		Name:      "feed_reconnects_total",
		Help:      "Times the price stream had to be re-established",
	})
	ActiveAlerts = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tcw",
		Subsystem: "alert_engine",
		Name:      "alerts_active",
		Help:      "The current number of standing alerts",
	})
)

func init() {
	prometheus.MustRegister(
		TicksTotal,
		BatchesTotal,
		AlertsTriggered,
		NotificationsSent,
		NotificationsFailed,
		FeedReconnects,
		ActiveAlerts,
	)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Serve exposes /metrics and /health on the given port.
func Serve(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthCheckHandler)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
