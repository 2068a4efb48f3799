package unsplash

import (
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gallery",
		Subsystem: "unsplash",
		Name:      "requests_total",
		Help:      "Outbound photo API requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gallery",
		Subsystem: "unsplash",
		Name:      "request_duration_seconds",
		Help:      "Latency of outbound photo API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

func observe(endpoint, outcome string, started time.Time) {
	requestsTotal.WithLabelValues(endpoint, outcome).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

// endpointLabel maps a request path to a bounded label set so photo ids
// never end up as label values.
func endpointLabel(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		if u, err := url.Parse(path); err == nil && strings.HasSuffix(u.Path, "/download") {
			return "download"
		}
		return "external"
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) == 2 && parts[0] == "search":
		return "search_" + parts[1]
	case len(parts) >= 2 && parts[0] == "photos":
		if parts[len(parts)-1] == "download" {
			return "download"
		}
		return "photo"
	case len(parts) == 1 && parts[0] != "":
		return parts[0]
	}
	return "other"
}
