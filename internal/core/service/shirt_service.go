package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
	"github.com/rl1809/shirt-inventory/internal/platform/metrics"
	"github.com/rl1809/shirt-inventory/internal/port"
)

const idempotencyKeyPrefix = "idempotency:adjust:"

type Config struct {
	LowStockThreshold int
	QueueSize         int
	// Idempotency is optional; without it request ids are ignored.
	Idempotency port.IdempotencyStore
	Logger      *slog.Logger
}

// ShirtService holds no per-record state. Every adjustment re-reads the
// record and relies on the repository for the atomic floor-checked write.
type ShirtService struct {
	repo        port.ShirtRepository
	idempotency port.IdempotencyStore
	threshold   int
	eventQueue  chan domain.StockEvent
	logger      *slog.Logger
	now         func() time.Time

	// queueMu guards queueClosed; emit holds the read side while sending.
	queueMu     sync.RWMutex
	queueClosed bool
}

func NewShirtService(repo port.ShirtRepository, cfg Config) *ShirtService {
	threshold := cfg.LowStockThreshold
	if threshold <= 0 {
		threshold = domain.DefaultLowStockThreshold
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &ShirtService{
		repo:        repo,
		idempotency: cfg.Idempotency,
		threshold:   threshold,
		logger:      logger,
		now:         time.Now,
	}
	if cfg.QueueSize > 0 {
		s.eventQueue = make(chan domain.StockEvent, cfg.QueueSize)
	}
	return s
}

func (s *ShirtService) LowStockThreshold() int {
	return s.threshold
}

func (s *ShirtService) CreateShirt(ctx context.Context, in domain.NewShirt) (*domain.Shirt, error) {
	if strings.TrimSpace(in.Color) == "" {
		return nil, domain.NewValidationError("color", "is required")
	}
	if strings.TrimSpace(in.Size) == "" {
		return nil, domain.NewValidationError("size", "is required")
	}
	if in.Price < 0 {
		return nil, domain.NewValidationError("price", "must be non-negative")
	}

	now := s.now().UTC()
	shirt := domain.Shirt{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Color:     in.Color,
		Size:      in.Size,
		Price:     in.Price,
		Stock:     in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, shirt); err != nil {
		return nil, fmt.Errorf("create shirt: %w", err)
	}
	return &shirt, nil
}

func (s *ShirtService) GetShirt(ctx context.Context, id string) (*domain.Shirt, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "is required")
	}
	return s.repo.Get(ctx, id)
}

func (s *ShirtService) ListShirts(ctx context.Context) ([]domain.Shirt, error) {
	return s.repo.List(ctx, domain.Filter{})
}

func (s *ShirtService) AvailableShirts(ctx context.Context) ([]domain.Shirt, error) {
	return s.repo.List(ctx, domain.AvailableFilter())
}

func (s *ShirtService) OutOfStockShirts(ctx context.Context) ([]domain.Shirt, error) {
	return s.repo.List(ctx, domain.OutOfStockFilter())
}

func (s *ShirtService) LowStockShirts(ctx context.Context) ([]domain.Shirt, error) {
	return s.repo.List(ctx, domain.LowStockFilter(s.threshold))
}

// ShirtsByView lists one of the derived views, used by transports that take
// the view as a parameter.
func (s *ShirtService) ShirtsByView(ctx context.Context, view domain.StockView) ([]domain.Shirt, error) {
	switch view {
	case domain.ViewAll:
		return s.ListShirts(ctx)
	case domain.ViewAvailable:
		return s.AvailableShirts(ctx)
	case domain.ViewOutOfStock:
		return s.OutOfStockShirts(ctx)
	case domain.ViewLowStock:
		return s.LowStockShirts(ctx)
	}
	return nil, domain.NewValidationError("view", fmt.Sprintf("unknown view %q", view))
}

func (s *ShirtService) SearchShirts(ctx context.Context, color, size string) ([]domain.Shirt, error) {
	return s.repo.List(ctx, domain.Filter{Color: color, Size: size})
}

// AdjustStock applies a signed delta to a shirt's stock. A negative delta
// larger than the current stock fails with domain.ErrInsufficientStock and
// nothing is written. A zero delta still goes through the write.
func (s *ShirtService) AdjustStock(ctx context.Context, adj domain.StockAdjustment) (*domain.Shirt, error) {
	if adj.ShirtID == "" {
		return nil, domain.NewValidationError("id", "is required")
	}

	if adj.RequestID != "" && s.idempotency != nil {
		key := idempotencyKeyPrefix + adj.RequestID
		ok, err := s.idempotency.SetIdempotency(ctx, key)
		if err != nil {
			metrics.StockAdjustments.WithLabelValues(metrics.OutcomeError).Inc()
			return nil, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			metrics.StockAdjustments.WithLabelValues(metrics.OutcomeDuplicate).Inc()
			return nil, domain.ErrDuplicateRequest
		}

		shirt, err := s.adjust(ctx, adj)
		if err != nil {
			if releaseErr := s.idempotency.ReleaseIdempotency(ctx, key); releaseErr != nil {
				s.logger.Warn("failed to release idempotency key",
					"key", key, "error", releaseErr)
			}
			return nil, err
		}
		return shirt, nil
	}

	return s.adjust(ctx, adj)
}

func (s *ShirtService) adjust(ctx context.Context, adj domain.StockAdjustment) (*domain.Shirt, error) {
	current, err := s.repo.Get(ctx, adj.ShirtID)
	if err != nil {
		s.recordOutcome(err)
		return nil, err
	}

	if !domain.CanAdjust(current.Stock, adj.Delta) {
		s.recordOutcome(domain.ErrInsufficientStock)
		return nil, domain.ErrInsufficientStock
	}

	// The repository re-checks the floor atomically, so a concurrent
	// decrement between Get and here surfaces as ErrInsufficientStock.
	updated, err := s.repo.AdjustStock(ctx, adj.ShirtID, adj.Delta)
	if err != nil {
		s.recordOutcome(err)
		return nil, err
	}

	metrics.StockAdjustments.WithLabelValues(metrics.OutcomeApplied).Inc()
	s.logger.Info("stock adjusted",
		"shirt_id", updated.ID, "delta", adj.Delta, "stock", updated.Stock)
	s.emit(domain.NewStockEvent(*updated, adj.Delta, s.threshold, adj.RequestID, s.now().UTC()))
	return updated, nil
}

func (s *ShirtService) recordOutcome(err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		metrics.StockAdjustments.WithLabelValues(metrics.OutcomeNotFound).Inc()
	case errors.Is(err, domain.ErrInvalidAdjustment):
		metrics.StockAdjustments.WithLabelValues(metrics.OutcomeRejected).Inc()
	default:
		metrics.StockAdjustments.WithLabelValues(metrics.OutcomeError).Inc()
	}
}

// emit never blocks the adjustment; a full queue drops the event.
func (s *ShirtService) emit(ev domain.StockEvent) {
	if s.eventQueue == nil {
		return
	}
	s.queueMu.RLock()
	defer s.queueMu.RUnlock()
	if s.queueClosed {
		s.logger.Warn("event queue closed, dropping stock event", "shirt_id", ev.ShirtID)
		return
	}
	select {
	case s.eventQueue <- ev:
	default:
		metrics.EventsDropped.Inc()
		s.logger.Warn("event queue full, dropping stock event", "shirt_id", ev.ShirtID)
	}
}

// EditShirt replaces the supplied fields. Stock given here is absolute and is
// not checked against the non-negative invariant; use AdjustStock for that.
func (s *ShirtService) EditShirt(ctx context.Context, id string, patch domain.ShirtPatch) (*domain.Shirt, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "is required")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, domain.NewValidationError("price", "must be non-negative")
	}
	if patch.Empty() {
		return s.repo.Get(ctx, id)
	}
	return s.repo.Replace(ctx, id, patch)
}

func (s *ShirtService) DeleteShirt(ctx context.Context, id string) error {
	if id == "" {
		return domain.NewValidationError("id", "is required")
	}
	return s.repo.Remove(ctx, id)
}

// Ping reports whether the backing store is reachable.
func (s *ShirtService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// EventQueue is nil when the service was built with QueueSize 0.
func (s *ShirtService) EventQueue() <-chan domain.StockEvent {
	return s.eventQueue
}

func (s *ShirtService) Close() {
	if s.eventQueue == nil {
		return
	}
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	if s.queueClosed {
		return
	}
	s.queueClosed = true
	close(s.eventQueue)
}
