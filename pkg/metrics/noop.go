package metrics

import "time"

// Noop satisfies Metrics without recording anything.
type Noop struct{}

func (Noop) RecordOrderOpened()                                                   {}
func (Noop) RecordOrderClosed()                                                   {}
func (Noop) RecordStockMovement(direction string, units int)                      {}
func (Noop) RecordUseCaseExecution(useCase string, success bool, d time.Duration) {}
func (Noop) RecordTransaction(backend string, committed bool, d time.Duration)    {}
func (Noop) IncTransactionConflict(backend string)                                {}
func (Noop) ObserveHTTPRequestDuration(method, path, code string, d float64)      {}
func (Noop) IncEventsPublished(topic, status string)                              {}
func (Noop) IncEventsProcessed(handler, status string)                            {}
