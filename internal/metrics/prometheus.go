package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the pool grading worker

var (
	// Feed sync metrics
	SyncRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_sync_records_total",
			Help: "Feed records processed by sync, by outcome",
		},
		[]string{"outcome"}, // inserted, updated, failed
	)

	SyncBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pool_sync_batch_duration_seconds",
			Help:    "Duration of full sync batches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Team normalization: nonzero means the feed's naming has drifted from
	// the mapping table and joins are silently degrading.
	UnmappedTeamNames = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pool_unmapped_team_names_total",
			Help: "Feed team names that passed through normalization unmapped",
		},
	)

	// Grading metrics
	PicksGradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_picks_graded_total",
			Help: "Picks graded, by result",
		},
		[]string{"result"}, // correct, incorrect
	)

	GradingPassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pool_grading_pass_duration_seconds",
			Help:    "Duration of grading passes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Pick submission metrics
	PickSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_pick_submissions_total",
			Help: "Pick submissions, by outcome",
		},
		[]string{"outcome"}, // accepted, duplicate, rejected
	)

	// Leaderboard metrics
	LeaderboardQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_leaderboard_queries_total",
			Help: "Leaderboard computations, by scope",
		},
		[]string{"scope"}, // week, season
	)

	// Feed API metrics
	FeedCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_feed_calls_total",
			Help: "Odds feed API calls, by status",
		},
		[]string{"status"},
	)

	FeedCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pool_feed_call_duration_seconds",
			Help:    "Duration of odds feed API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pool_cache_hits_total",
			Help: "Team metadata cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pool_cache_misses_total",
			Help: "Team metadata cache misses",
		},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pool_uptime_seconds",
			Help: "Worker uptime in seconds",
		},
	)
)
