// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_operations_total",
		Help: "Catalog operations by name and outcome",
	}, []string{"op", "result"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_operation_duration_seconds",
		Help:    "Time to execute a catalog operation",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"op"})

	subtreeSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_subtree_size",
		Help:    "Number of categories collected per subtree traversal",
		Buckets: []float64{1, 2, 5, 10, 50, 100, 1000},
	})

	pathLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_path_length",
		Help:    "Number of categories on a resolved path to root",
		Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 20},
	})

	productsRepaired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_repaired_total",
		Help: "Products detached from deleted categories",
	})
)

// observe records duration and outcome for op. Use as
// defer observe("create", time.Now(), &err).
func observe(op string, start time.Time, errp *error) {
	operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	operationsTotal.WithLabelValues(op, resultLabel(*errp)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrCycleDetected):
		return "cycle"
	case errors.Is(err, ErrRepairFailed):
		return "repair_failed"
	default:
		return "error"
	}
}
