package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API 指标
var (
	// APIRequestsTotal API 请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiplugin_api_requests_total",
			Help: "API 请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration API 请求延迟（秒）
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aiplugin_api_request_duration_seconds",
			Help:    "API 请求延迟分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	APIResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aiplugin_api_response_size_bytes",
			Help:    "API 响应体大小分布",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"method", "path"},
	)
)

// 模型调用指标
var (
	// ModelCallsTotal 模型调用总数，status 为 success 或错误类型
	ModelCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiplugin_model_calls_total",
			Help: "模型调用总数",
		},
		[]string{"vendor", "status"},
	)

	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aiplugin_model_call_duration_seconds",
			Help:    "模型流式调用耗时分布",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"vendor"},
	)

	ModelStreamChunks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiplugin_model_stream_chunks_total",
			Help: "模型返回的增量块总数",
		},
		[]string{"vendor"},
	)

	// ModelCallsRunning 进行中的流式调用
	ModelCallsRunning = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aiplugin_model_calls_running",
			Help: "进行中的模型调用数量",
		},
		[]string{"vendor"},
	)
)

// 模型目录同步指标
var (
	CatalogSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiplugin_catalog_sync_total",
			Help: "模型目录同步次数",
		},
		[]string{"vendor", "status"},
	)

	CatalogSyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aiplugin_catalog_sync_duration_seconds",
			Help:    "模型目录同步耗时分布",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"vendor"},
	)

	CatalogModelsSynced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiplugin_catalog_models_synced_total",
			Help: "同步写入的模型条数",
		},
		[]string{"vendor"},
	)
)

// WebSocket 与缓存指标
var (
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aiplugin_ws_connections",
			Help: "当前 WebSocket 对话连接数",
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiplugin_cache_hits_total",
			Help: "列表缓存命中次数",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aiplugin_cache_misses_total",
			Help: "列表缓存未命中次数",
		},
		[]string{"cache"},
	)
)

// BuildInfo 构建信息
var BuildInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "aiplugin_build_info",
		Help: "构建信息",
	},
	[]string{"version", "go_version"},
)
