package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReviewWrites counts committed review mutations by operation.
	ReviewWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_review_writes_total",
		Help: "Total number of committed review mutations",
	}, []string{"operation"})

	// ContactSubmissions counts contact form outcomes (sent, fallback, failed, invalid).
	ContactSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_contact_submissions_total",
		Help: "Total number of contact form submissions by outcome",
	}, []string{"outcome"})

	// MailSendLatency records SMTP session duration.
	MailSendLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recipebox_mail_send_seconds",
		Help:    "SMTP delivery latency in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	// CacheLookups counts cache-aside lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_cache_lookups_total",
		Help: "Total number of cache-aside lookups by result",
	}, []string{"result"})
)
