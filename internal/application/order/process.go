package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	domcatalog "github.com/avril-io/storefront-api/internal/domain/catalog"
	"github.com/avril-io/storefront-api/internal/domain/fulfillment"
	domain "github.com/avril-io/storefront-api/internal/domain/order"
	"github.com/avril-io/storefront-api/internal/pkg/apperrors"
	"github.com/avril-io/storefront-api/internal/pkg/logging"
)

const useCaseProcessOrder = "order.process"

// ErrPersistence marks a failed commit of the fulfillment unit. The order
// stays pending and inventory untouched when it is returned.
var ErrPersistence = fmt.Errorf("order: fulfillment could not be persisted")

// ProcessOrderUseCase drives one process-order request: it validates the
// request, reconciles line items against inventory and applies line-item
// updates, inventory decrements and the completed transition as a single
// atomic unit.
type ProcessOrderUseCase struct {
	atomic Atomic
	orders domain.Repository

	requests  *prometheus.CounterVec   // usecase_requests_total{use_case,outcome}
	durations *prometheus.HistogramVec // usecase_duration_seconds{use_case}
}

// NewProcessOrderUseCase wires the use case. The metric vectors are supplied
// by the caller and may be nil in tests.
func NewProcessOrderUseCase(atomic Atomic, orders domain.Repository, requests *prometheus.CounterVec, durations *prometheus.HistogramVec) *ProcessOrderUseCase {
	return &ProcessOrderUseCase{
		atomic:    atomic,
		orders:    orders,
		requests:  requests,
		durations: durations,
	}
}

type ProcessOrderResult struct {
	OrderID          int64
	AlreadyProcessed bool
	Items            []fulfillment.Allocation
}

// Execute processes one order. Re-processing a completed order is a no-op
// success; it re-runs no reconciliation and touches no inventory.
func (uc *ProcessOrderUseCase) Execute(ctx context.Context, orderID int64, processFlag string) (_ *ProcessOrderResult, err error) {
	logger := logging.FromContext(ctx).With(zap.String("use_case", useCaseProcessOrder))

	ctx, span := otel.Tracer("storefront-api/order").Start(ctx, "UC.ProcessOrder")
	span.SetAttributes(
		attribute.String("use_case", useCaseProcessOrder),
		attribute.Int64("order.id", orderID),
	)
	start := time.Now()
	outcome := "success"

	defer func() {
		lat := time.Since(start).Seconds()
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()

		if uc.requests != nil {
			uc.requests.WithLabelValues(useCaseProcessOrder, outcome).Inc()
		}
		if uc.durations != nil {
			uc.durations.WithLabelValues(useCaseProcessOrder).Observe(lat)
		}

		fields := []zap.Field{
			zap.Int64("order_id", orderID),
			zap.String("outcome", outcome),
			zap.Float64("latency_seconds", lat),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		logger.Info("use_case_done", fields...)
	}()

	// The external contract accepts only a case-insensitive "true" token.
	if !strings.EqualFold(processFlag, "true") {
		return nil, apperrors.ValidationValue("process", processFlag, "must be \"true\"")
	}

	current, err := uc.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if current.Completed {
		span.AddEvent("order.already_processed")
		return &ProcessOrderResult{OrderID: orderID, AlreadyProcessed: true}, nil
	}

	result := &ProcessOrderResult{OrderID: orderID}

	err = uc.atomic.Run(ctx, func(ctx context.Context, products domcatalog.Repository, orders domain.Repository) error {
		// Re-read inside the critical section; a concurrent call may have
		// completed the order since the check above.
		ord, err := orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if ord.Completed {
			result.AlreadyProcessed = true
			return nil
		}

		inventory, err := products.List(ctx)
		if err != nil {
			return fmt.Errorf("load inventory: %w", err)
		}
		snapshot := make(map[string]int, len(inventory))
		byName := make(map[string]*domcatalog.Product, len(inventory))
		for _, p := range inventory {
			snapshot[p.Name] = p.Quantity
			byName[p.Name] = p
		}

		reconciled := fulfillment.Reconcile(ord.Items, snapshot)
		result.Items = reconciled.Items

		for _, alloc := range reconciled.Items {
			if err := orders.UpdateItemQuantity(ctx, orderID, alloc.ProductName, alloc.Fulfilled); err != nil {
				return fmt.Errorf("update line item %q: %w", alloc.ProductName, err)
			}
		}
		for name, consumed := range reconciled.Consumed {
			product := byName[name]
			if err := product.Consume(consumed); err != nil {
				return fmt.Errorf("consume %q: %w", name, err)
			}
			if err := products.Update(ctx, product); err != nil {
				return fmt.Errorf("update inventory %q: %w", name, err)
			}
		}

		return orders.MarkCompleted(ctx, orderID)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if result.AlreadyProcessed {
		span.AddEvent("order.already_processed")
	} else {
		span.AddEvent("order.processed",
			trace.WithAttributes(attribute.Int("order.items", len(result.Items))),
		)
	}
	return result, nil
}
