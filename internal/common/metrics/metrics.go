package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Reports
	ReportsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_reports_generated_total",
			Help: "Reports generated by report type and result",
		},
		[]string{"report", "result"},
	)

	// Notifications
	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_emails_sent_total",
			Help: "E-mail send attempts by result",
		},
		[]string{"result"},
	)

	ChangeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_change_events_total",
			Help: "Change stream events processed by stream and result",
		},
		[]string{"stream", "result"},
	)

	WatchQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "restaurant_watch_queue_depth",
			Help: "Events buffered between a change stream and its consumer",
		},
		[]string{"stream"},
	)

	// API
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurant_http_requests_total",
			Help: "HTTP requests by method and status",
		},
		[]string{"method", "status"},
	)
)

func init() {
	prometheus.MustRegister(ReportsGenerated)
	prometheus.MustRegister(EmailsSent)
	prometheus.MustRegister(ChangeEvents)
	prometheus.MustRegister(WatchQueueDepth)
	prometheus.MustRegister(HTTPRequests)
}

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Outcome maps an error to a result label.
func Outcome(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

func Handler() http.Handler {
	return promhttp.Handler()
}
