// Package metrics 提供基于Prometheus的指标收集
//
// # 核心概念
//
// **1. Counter（计数器）**：只增不减的累计值
//   - 示例：HTTP请求总数、图书操作次数、存储错误次数
//
// **2. Gauge（仪表盘）**：可增可减的瞬时值
//   - 示例：正在处理的请求数、熔断器状态
//
// **3. Histogram（直方图）**：观测值的分布
//   - 示例：HTTP请求耗时、集合存储读写耗时
//
// # 指标一览
//
//	http_requests_total{method,path,status}
//	http_request_duration_seconds{method,path}
//	http_requests_in_progress
//	book_operations_total{operation,result}
//	collection_store_duration_seconds{backend,operation}
//	collection_store_errors_total{backend,operation}
//	circuit_breaker_state{name}
//	circuit_breaker_requests_total{name,result}
//	events_published_total{routing_key,result}
//
// # 使用示例
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	err := repo.ReplaceAll(ctx, books)
//	metrics.ObserveStore("json", "replace_all", time.Since(start), err)
//
// # 标签约定
//
// path标签使用gin的路由模板（/books/:asin），不要使用原始URL，
// 否则每个ASIN都会产生一条时间序列（高基数）。
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/books/:asin）、status（200/404）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// BookOperationsTotal 图书/评论用例执行次数（Counter）
	// 标签：operation（create_book/add_comment...）、result（success/failure）
	BookOperationsTotal *prometheus.CounterVec

	// 存储指标

	// StoreOperationDuration 集合存储读写耗时（Histogram）
	// 标签：backend（json/bolt/redis...）、operation（get_all/replace_all）
	StoreOperationDuration *prometheus.HistogramVec

	// StoreErrorsTotal 集合存储错误次数（Counter）
	StoreErrorsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 事件指标

	// EventsPublishedTotal 领域事件发布次数（Counter）
	// 标签：routing_key（book.created...）、result（success/failure）
	EventsPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 可重复调用，只有第一次会注册到默认Registry
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	BookOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_operations_total",
			Help: "图书与评论用例执行次数",
		},
		[]string{"operation", "result"},
	)

	// 整个集合读写，文件较大时可能到百毫秒级
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collection_store_duration_seconds",
			Help:    "集合存储读写耗时（秒）",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"backend", "operation"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_store_errors_total",
			Help: "集合存储错误次数",
		},
		[]string{"backend", "operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "领域事件发布次数",
		},
		[]string{"routing_key", "result"},
	)
}

// Result 根据err返回result标签值
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordBookOperation 记录一次用例执行结果
func RecordBookOperation(operation string, err error) {
	InitMetrics()
	BookOperationsTotal.WithLabelValues(operation, Result(err)).Inc()
}

// ObserveStore 记录一次存储调用的耗时与错误
func ObserveStore(backend, operation string, elapsed time.Duration, err error) {
	InitMetrics()
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(elapsed.Seconds())
	if err != nil {
		StoreErrorsTotal.WithLabelValues(backend, operation).Inc()
	}
}

// RecordEvent 记录一次事件发布结果
func RecordEvent(routingKey string, err error) {
	InitMetrics()
	EventsPublishedTotal.WithLabelValues(routingKey, Result(err)).Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
