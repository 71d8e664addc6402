package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
	"github.com/rl1809/shirt-inventory/internal/port"
)

type contractRepo = port.ShirtRepository

func newTestShirt(color string, stock int) domain.Shirt {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.Shirt{
		ID:        uuid.New().String(),
		Color:     color,
		Size:      "M",
		Price:     125000,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func containsShirt(list []domain.Shirt, id string) bool {
	for _, s := range list {
		if s.ID == id {
			return true
		}
	}
	return false
}

// runRepositoryContract checks the behavior every ShirtRepository must share.
// newRepo must return an empty store.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) contractRepo) {
	ctx := context.Background()

	t.Run("insert and get", func(t *testing.T) {
		repo := newRepo(t)
		name := "Baju Koko"
		shirt := newTestShirt("white", 12)
		shirt.Name = &name

		if err := repo.Insert(ctx, shirt); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		found, err := repo.Get(ctx, shirt.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if found.ID != shirt.ID || found.Color != "white" || found.Size != "M" {
			t.Errorf("unexpected shirt: %+v", found)
		}
		if found.Price != 125000 || found.Stock != 12 {
			t.Errorf("expected price 125000 stock 12, got %v %d", found.Price, found.Stock)
		}
		if found.Name == nil || *found.Name != name {
			t.Errorf("expected name %q, got %v", name, found.Name)
		}
		if found.CreatedAt.Unix() != shirt.CreatedAt.Unix() {
			t.Errorf("expected created_at %v, got %v", shirt.CreatedAt, found.CreatedAt)
		}
	})

	t.Run("nameless shirt", func(t *testing.T) {
		repo := newRepo(t)
		shirt := newTestShirt("grey", 1)
		if err := repo.Insert(ctx, shirt); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		found, err := repo.Get(ctx, shirt.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if found.Name != nil {
			t.Errorf("expected nil name, got %q", *found.Name)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		repo := newRepo(t)
		if _, err := repo.Get(ctx, uuid.New().String()); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("adjust stock boundary", func(t *testing.T) {
		repo := newRepo(t)
		shirt := newTestShirt("red", 5)
		if err := repo.Insert(ctx, shirt); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		updated, err := repo.AdjustStock(ctx, shirt.ID, -5)
		if err != nil {
			t.Fatalf("AdjustStock(-5) error = %v", err)
		}
		if updated.Stock != 0 {
			t.Errorf("expected stock 0, got %d", updated.Stock)
		}

		if _, err := repo.AdjustStock(ctx, shirt.ID, -1); !errors.Is(err, domain.ErrInsufficientStock) {
			t.Errorf("expected ErrInsufficientStock, got %v", err)
		}
		found, _ := repo.Get(ctx, shirt.ID)
		if found.Stock != 0 {
			t.Errorf("expected stock to remain 0, got %d", found.Stock)
		}

		updated, err = repo.AdjustStock(ctx, shirt.ID, 3)
		if err != nil {
			t.Fatalf("AdjustStock(3) error = %v", err)
		}
		if updated.Stock != 3 || updated.Color != "red" || updated.Price != 125000 {
			t.Errorf("unexpected shirt after adjust: %+v", updated)
		}

		updated, err = repo.AdjustStock(ctx, shirt.ID, 0)
		if err != nil {
			t.Fatalf("AdjustStock(0) error = %v", err)
		}
		if updated.Stock != 3 {
			t.Errorf("expected stock 3 after zero delta, got %d", updated.Stock)
		}
	})

	t.Run("adjust from negative stock", func(t *testing.T) {
		repo := newRepo(t)
		shirt := newTestShirt("blue", -5)
		if err := repo.Insert(ctx, shirt); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		for _, step := range []struct {
			delta int
			want  int
		}{
			{delta: 3, want: -2},
			{delta: 1, want: -1},
		} {
			updated, err := repo.AdjustStock(ctx, shirt.ID, step.delta)
			if err != nil {
				t.Fatalf("AdjustStock(%d) error = %v", step.delta, err)
			}
			if updated.Stock != step.want {
				t.Errorf("AdjustStock(%d) stock = %d, want %d", step.delta, updated.Stock, step.want)
			}
		}

		if _, err := repo.AdjustStock(ctx, shirt.ID, -1); !errors.Is(err, domain.ErrInsufficientStock) {
			t.Errorf("expected ErrInsufficientStock, got %v", err)
		}
		found, err := repo.Get(ctx, shirt.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if found.Stock != -1 {
			t.Errorf("expected stock to remain -1, got %d", found.Stock)
		}
	})

	t.Run("adjust missing", func(t *testing.T) {
		repo := newRepo(t)
		if _, err := repo.AdjustStock(ctx, uuid.New().String(), 1); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list views", func(t *testing.T) {
		repo := newRepo(t)
		empty := newTestShirt("red", 0)
		low := newTestShirt("red", 3)
		low.Size = "L"
		plenty := newTestShirt("blue", 10)
		for _, s := range []domain.Shirt{empty, low, plenty} {
			if err := repo.Insert(ctx, s); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
		}

		tests := []struct {
			name   string
			filter domain.Filter
			want   []string
		}{
			{"all", domain.Filter{}, []string{empty.ID, low.ID, plenty.ID}},
			{"available", domain.AvailableFilter(), []string{low.ID, plenty.ID}},
			{"out of stock", domain.OutOfStockFilter(), []string{empty.ID}},
			{"low stock", domain.LowStockFilter(5), []string{empty.ID, low.ID}},
			{"low stock threshold 11", domain.LowStockFilter(11), []string{empty.ID, low.ID, plenty.ID}},
			{"color", domain.Filter{Color: "red"}, []string{empty.ID, low.ID}},
			{"color and size", domain.Filter{Color: "red", Size: "L"}, []string{low.ID}},
			{"size only", domain.Filter{Size: "M"}, []string{empty.ID, plenty.ID}},
			{"no match", domain.Filter{Color: "green"}, nil},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.List(ctx, tt.filter)
				if err != nil {
					t.Fatalf("List() error = %v", err)
				}
				if len(got) != len(tt.want) {
					t.Fatalf("expected %d shirts, got %d", len(tt.want), len(got))
				}
				for _, id := range tt.want {
					if !containsShirt(got, id) {
						t.Errorf("expected %s in result", id)
					}
				}
			})
		}
	})

	t.Run("views follow adjustments", func(t *testing.T) {
		repo := newRepo(t)
		shirt := newTestShirt("black", 1)
		if err := repo.Insert(ctx, shirt); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		for _, delta := range []int{-1, 4, -2, -3} {
			updated, err := repo.AdjustStock(ctx, shirt.ID, delta)
			if err != nil {
				t.Fatalf("AdjustStock(%d) error = %v", delta, err)
			}
			out, err := repo.List(ctx, domain.OutOfStockFilter())
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if containsShirt(out, shirt.ID) != domain.IsOutOfStock(updated.Stock) {
				t.Errorf("out-of-stock listing disagrees at stock %d", updated.Stock)
			}
			avail, err := repo.List(ctx, domain.AvailableFilter())
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if containsShirt(avail, shirt.ID) != domain.IsAvailable(updated.Stock) {
				t.Errorf("available listing disagrees at stock %d", updated.Stock)
			}
		}
	})

	t.Run("replace", func(t *testing.T) {
		repo := newRepo(t)
		shirt := newTestShirt("red", 4)
		if err := repo.Insert(ctx, shirt); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		name := "Baju Baru"
		color := "navy"
		price := 99000.5
		stock := 40
		updated, err := repo.Replace(ctx, shirt.ID, domain.ShirtPatch{
			Name: &name, Color: &color, Price: &price, Stock: &stock,
		})
		if err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
		if updated.Color != "navy" || updated.Price != 99000.5 || updated.Stock != 40 || updated.Size != "M" {
			t.Errorf("unexpected shirt after replace: %+v", updated)
		}
		if updated.Name == nil || *updated.Name != name {
			t.Errorf("expected name %q, got %v", name, updated.Name)
		}

		if _, err := repo.Replace(ctx, uuid.New().String(), domain.ShirtPatch{Color: &color}); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("remove", func(t *testing.T) {
		repo := newRepo(t)
		shirt := newTestShirt("red", 4)
		if err := repo.Insert(ctx, shirt); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		if err := repo.Remove(ctx, shirt.ID); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if _, err := repo.Get(ctx, shirt.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound after remove, got %v", err)
		}
		if err := repo.Remove(ctx, shirt.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second remove, got %v", err)
		}
		all, _ := repo.List(ctx, domain.Filter{})
		if containsShirt(all, shirt.ID) {
			t.Error("removed shirt still listed")
		}
	})
}

// runConcurrentAdjust fires totalRequests decrements of one at a shirt holding
// initialStock and expects exactly initialStock to succeed.
func runConcurrentAdjust(t *testing.T, repo contractRepo, initialStock, totalRequests int) {
	t.Helper()
	ctx := context.Background()

	shirt := newTestShirt("concurrent-test", initialStock)
	if err := repo.Insert(ctx, shirt); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustStock(ctx, shirt.ID, -1)
			if err == nil {
				successCount.Add(1)
			} else if !errors.Is(err, domain.ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successes, got %d", initialStock, successCount.Load())
	}
	found, err := repo.Get(ctx, shirt.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found.Stock != 0 {
		t.Errorf("expected stock 0, got %d", found.Stock)
	}
}
