package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pool metrics
	PoolCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "swap_engine_pool_count",
		Help: "Number of pools in the current liquidity list",
	})

	PoolRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_engine_pool_refreshes_total",
			Help: "Total number of pool list refreshes",
		},
		[]string{"status"},
	)

	PoolRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swap_engine_pool_refresh_duration_seconds",
		Help:    "Pool list fetch duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	CandidatePools = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swap_engine_candidate_pools",
		Help:    "Number of candidate pools per quote request",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
	})

	// Cache metrics
	PoolStateCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swap_engine_pool_state_cache_hits_total",
		Help: "Total number of pool state cache hits",
	})

	PoolStateCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swap_engine_pool_state_cache_misses_total",
		Help: "Total number of pool state cache misses",
	})

	PoolStatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swap_engine_pool_states_skipped_total",
		Help: "Total number of pools dropped from a state fetch because their accounts could not be decoded",
	})

	// Quote metrics
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_engine_quote_requests_total",
			Help: "Total number of quote requests",
		},
		[]string{"state"},
	)

	QuoteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swap_engine_quote_duration_seconds",
		Help:    "Quote request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	PriceImpact = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swap_engine_price_impact_bps",
		Help:    "Price impact in basis points",
		Buckets: []float64{0, 10, 50, 100, 300, 500, 1000, 5000, 10000},
	})

	// Swap metrics
	SwapRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_engine_swap_requests_total",
			Help: "Total number of swap executions",
		},
		[]string{"status"},
	)

	SwapDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "swap_engine_swap_duration_seconds",
		Help:    "Swap execution duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	SubmittedTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_engine_submitted_transactions_total",
			Help: "Total number of transaction submissions",
		},
		[]string{"label", "status"},
	)

	SigningFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swap_engine_signing_failures_total",
		Help: "Total number of refused or failed batch signings",
	})

	BlockhashFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_engine_blockhash_fetches_total",
			Help: "Total number of recent blockhash lookups",
		},
		[]string{"source"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_engine_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swap_engine_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
