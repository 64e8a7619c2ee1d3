// Package metrics регистрирует прометеевские метрики приложения.
// Метрики отдаются на /metrics через promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubscriptionsCreated считает созданные подписки по статусу оплаты.
	SubscriptionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gym",
		Name:      "subscriptions_created_total",
		Help:      "Number of subscriptions created, by payment status.",
	}, []string{"payment_status"})

	// SubscriptionsCancelled считает отменённые подписки.
	SubscriptionsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gym",
		Name:      "subscriptions_cancelled_total",
		Help:      "Number of subscriptions cancelled.",
	})

	// TransactionsRecorded считает записи журнала по типу.
	TransactionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gym",
		Name:      "transactions_recorded_total",
		Help:      "Number of ledger transactions recorded, by type.",
	}, []string{"type"})

	// NotificationsPublished считает уведомления, отправленные в очередь.
	NotificationsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gym",
		Name:      "notifications_published_total",
		Help:      "Number of expiring-subscription notices published.",
	})

	// TxRetries считает повторы транзакций после конфликта сериализации.
	TxRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gym",
		Name:      "storage_tx_retries_total",
		Help:      "Number of serializable transaction retries.",
	})
)

// HTTPRequests считает обработанные HTTP-запросы по маршруту и статусу.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gym",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Number of HTTP requests, by method, route and status.",
}, []string{"method", "route", "status"})

// HTTPDuration измеряет время обработки запроса.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "gym",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency, by method and route.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})
