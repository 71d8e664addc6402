package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/shirt-inventory/internal/adapter/storage"
	"github.com/rl1809/shirt-inventory/internal/config"
	"github.com/rl1809/shirt-inventory/internal/core/domain"
	"github.com/rl1809/shirt-inventory/internal/core/service"
	"github.com/rl1809/shirt-inventory/internal/platform/logging"
)

const (
	initialStock  = 20
	totalRequests = 50
	queueSize     = 100
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	// Initialize adapter and service
	redisAdapter := storage.NewRedisAdapter(rdb)
	shirtService := service.NewShirtService(redisAdapter, service.Config{
		QueueSize:   queueSize,
		Idempotency: redisAdapter,
		Logger:      logging.Discard(),
	})
	defer shirtService.Close()

	name := "Baju Stress Test"
	shirt, err := shirtService.CreateShirt(ctx, domain.NewShirt{
		Name: &name, Color: "black", Size: "L", Price: 99000, Stock: initialStock,
	})
	if err != nil {
		log.Fatalf("failed to create shirt: %v", err)
	}
	defer redisAdapter.Remove(ctx, shirt.ID)

	// Drain the event queue in background
	go func() {
		for range shirtService.EventQueue() {
		}
	}()

	// Counters
	var successCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()
	runID := time.Now().UnixNano()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			_, err := shirtService.AdjustStock(ctx, domain.StockAdjustment{
				ShirtID:   shirt.ID,
				Delta:     -1,
				RequestID: fmt.Sprintf("stress-%d-%d", runID, n),
			})
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if success == int32(initialStock) && fail == int32(totalRequests-initialStock) {
		fmt.Printf("PASS: Exactly %d adjustments succeeded, %d rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: Expected %d success/%d fail, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, fail)
	}

	// Verify final stock in Redis
	final, err := redisAdapter.Get(ctx, shirt.ID)
	if err != nil {
		log.Fatalf("failed to read final stock: %v", err)
	}
	fmt.Printf("Final Redis Stock: %d\n", final.Stock)

	if final.Stock == 0 {
		fmt.Println("PASS: Stock depleted to 0")
	} else {
		fmt.Printf("FAIL: Expected stock 0, got %d\n", final.Stock)
	}
}
