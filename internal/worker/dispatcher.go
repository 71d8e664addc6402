package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
	"github.com/rl1809/shirt-inventory/internal/platform/metrics"
	"github.com/rl1809/shirt-inventory/internal/port"
)

const defaultPublishTimeout = 5 * time.Second

// Dispatcher drains the stock event queue into a publisher with a fixed pool
// of workers. Workers exit once the queue is closed and empty.
type Dispatcher struct {
	queue     <-chan domain.StockEvent
	publisher port.EventPublisher
	workers   int
	timeout   time.Duration
	logger    *slog.Logger
	wg        sync.WaitGroup
}

func NewDispatcher(queue <-chan domain.StockEvent, publisher port.EventPublisher, workers int, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		queue:     queue,
		publisher: publisher,
		workers:   workers,
		timeout:   defaultPublishTimeout,
		logger:    logger,
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func(id int) {
			defer d.wg.Done()
			d.workerLoop(id)
		}(i)
	}
	d.logger.Info("started event workers", "count", d.workers)
}

// Wait blocks until every worker has returned or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) workerLoop(id int) {
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)

		if err := d.publisher.Publish(ctx, ev); err != nil {
			metrics.EventsPublished.WithLabelValues("error").Inc()
			d.logger.Error("failed to publish stock event",
				"worker", id, "shirt_id", ev.ShirtID, "error", err)
		} else {
			metrics.EventsPublished.WithLabelValues("ok").Inc()
			d.logger.Debug("published stock event", "worker", id, "shirt_id", ev.ShirtID)
		}

		cancel()
	}
}
