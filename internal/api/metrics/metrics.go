// Package metrics defines and registers all custom Prometheus metrics for
// the feed service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feed"

// ── Identity metrics ──────────────────────────────────────────────────────────

// LoginsTotal counts successful logins.
// Label:
//   - provider: the identity provider prefix of the account ("github", "anon")
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by identity provider.",
	},
	[]string{"provider"},
)

// ── Post metrics ──────────────────────────────────────────────────────────────

// PostsCreatedTotal counts newly created posts.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// ── Like metrics ──────────────────────────────────────────────────────────────

// LikesToggledTotal counts completed like toggles.
// Label:
//   - action: "liked" or "unliked"
var LikesToggledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "likes_toggled_total",
		Help:      "Total number of completed like toggles, by resulting action.",
	},
	[]string{"action"},
)

// LikeToggleConflictsTotal counts toggles rejected because the per-post
// serialization slot stayed contended or the liked set changed out of band.
var LikeToggleConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "like_toggle_conflicts_total",
		Help:      "Total number of like toggles rejected due to contention.",
	},
)

// ── Feed metrics ──────────────────────────────────────────────────────────────

// FeedAssemblyDuration measures how long assembling the full feed view takes.
var FeedAssemblyDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "assembly_duration_seconds",
		Help:      "Duration of feed assembly from post listing to view model.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
