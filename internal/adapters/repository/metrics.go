package repository

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hmicodes/catalog/internal/domain/entities"
	"github.com/hmicodes/catalog/internal/ports"
)

// InstrumentedRepository records Prometheus metrics around another repository
type InstrumentedRepository struct {
	next       ports.ErrorRecordRepository
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewInstrumentedRepository wraps next and registers its collectors with registerer
func NewInstrumentedRepository(next ports.ErrorRecordRepository, registerer prometheus.Registerer) (*InstrumentedRepository, error) {
	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_store_operations_total",
			Help: "Total number of error catalog store operations",
		},
		[]string{"op", "result"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_store_operation_duration_seconds",
			Help:    "Error catalog store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	if err := registerer.Register(operations); err != nil {
		return nil, err
	}
	if err := registerer.Register(duration); err != nil {
		return nil, err
	}

	return &InstrumentedRepository{next: next, operations: operations, duration: duration}, nil
}

func (r *InstrumentedRepository) ListAll(ctx context.Context) ([]entities.ErrorRecord, error) {
	start := time.Now()
	records, err := r.next.ListAll(ctx)
	r.observe("list", start, resultOf(true, err))
	return records, err
}

func (r *InstrumentedRepository) Add(ctx context.Context, record entities.ErrorRecord) error {
	start := time.Now()
	err := r.next.Add(ctx, record)
	r.observe("add", start, resultOf(true, err))
	return err
}

func (r *InstrumentedRepository) Update(ctx context.Context, code string, record entities.ErrorRecord) (bool, error) {
	start := time.Now()
	found, err := r.next.Update(ctx, code, record)
	r.observe("update", start, resultOf(found, err))
	return found, err
}

func (r *InstrumentedRepository) Delete(ctx context.Context, code string) (bool, error) {
	start := time.Now()
	found, err := r.next.Delete(ctx, code)
	r.observe("delete", start, resultOf(found, err))
	return found, err
}

func (r *InstrumentedRepository) observe(op string, start time.Time, result string) {
	r.operations.WithLabelValues(op, result).Inc()
	r.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func resultOf(found bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case !found:
		return "not_found"
	default:
		return "ok"
	}
}
