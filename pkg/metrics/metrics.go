package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
// Пример запроса PromQL: rate(http_requests_total{service="recipes-service"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests in seconds",
		// Бакеты от 1ms до 10s
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики (MongoDB и PostgreSQL)
// =============================================================================

// DbQueryDuration - время выполнения запросов к БД
// Label table - коллекция MongoDB или таблица PostgreSQL
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики
// =============================================================================

var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
)

var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// =============================================================================
// Business Метрики (рецепты и социальные взаимодействия)
// =============================================================================

// RecipesCreated - опубликованные рецепты
var RecipesCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "recipes_created_total",
		Help: "Total number of recipes created",
	},
)

// CommentsWritten - комментарии и ответы
var CommentsWritten = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recipe_comments_written_total",
		Help: "Total number of comments and replies written",
	},
	[]string{"kind", "action"}, // kind: comment, reply; action: add, edit, delete
)

// LikesToggled - переключения лайков
var LikesToggled = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recipe_likes_toggled_total",
		Help: "Total number of like toggles",
	},
	[]string{"state"}, // liked, unliked
)

// RatingScores - распределение оценок
var RatingScores = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "recipe_rating_score",
		Help:    "Distribution of submitted recipe rating scores",
		Buckets: []float64{1, 2, 3, 4, 5},
	},
)

// WriteConflicts - конфликты версий документа рецепта (optimistic locking)
var WriteConflicts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recipe_write_conflicts_total",
		Help: "Total number of recipe version conflicts",
	},
	[]string{"outcome"}, // retried, exhausted
)

// IndexSyncFailures - неудачные обновления обратных индексов пользователя
var IndexSyncFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "user_recipe_index_sync_failures_total",
		Help: "Total number of failed user recipe index updates",
	},
	[]string{"kind"}, // liked, created, recipe (каскад при удалении)
)

// IndexRepairs - исправления, внесённые реконсиляцией индексов
var IndexRepairs = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "user_recipe_index_repairs_total",
		Help: "Total number of links repaired by index reconciliation",
	},
	[]string{"kind", "operation"}, // operation: added, removed
)

// IdempotentReplays - повторы запросов, обслуженные из хранилища идемпотентности
var IdempotentReplays = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "idempotent_replays_total",
		Help: "Total number of requests answered from the idempotency store",
	},
	[]string{"outcome"}, // replayed, in_progress
)
