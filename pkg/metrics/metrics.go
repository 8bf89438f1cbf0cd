package metrics

import "time"

type Metrics interface {
	// Business
	RecordOrderOpened()
	RecordOrderClosed()
	RecordStockMovement(direction string, units int)
	RecordUseCaseExecution(useCaseName string, success bool, duration time.Duration)

	// Transactions
	RecordTransaction(backend string, committed bool, duration time.Duration)
	IncTransactionConflict(backend string)

	// Infrastructure (HTTP & messaging)
	ObserveHTTPRequestDuration(method, path, statusCode string, duration float64)
	IncEventsPublished(topic, status string)
	IncEventsProcessed(handler, status string)
}

const (
	StockOut = "out"
	StockIn  = "in"
)
