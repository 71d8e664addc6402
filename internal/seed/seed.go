// Package seed generates sample shirts for local development.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

var (
	adjectives = []string{"Elegant", "Rustic", "Sleek", "Handmade", "Modern", "Classic", "Casual", "Vintage"}
	materials  = []string{"Cotton", "Linen", "Silk", "Denim", "Flannel", "Polyester", "Batik"}
	products   = []string{"Shirt", "Tee", "Polo", "Blouse", "Kemeja", "Tunic"}
	colors     = []string{"red", "blue", "green", "black", "white", "navy", "maroon", "olive", "teal", "yellow", "grey", "pink"}
	sizes      = []string{"S", "M", "L", "XL"}
)

const (
	minPrice = 10000
	maxPrice = 1000000
	minStock = 1
	maxStock = 100
)

type Creator interface {
	CreateShirt(ctx context.Context, in domain.NewShirt) (*domain.Shirt, error)
}

// Generate returns n random shirts. Prices fall in [10000, 1000000] and
// stock in [1, 100].
func Generate(rng *rand.Rand, n int) []domain.NewShirt {
	out := make([]domain.NewShirt, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Baju %s %s %s", pick(rng, adjectives), pick(rng, materials), pick(rng, products))
		out = append(out, domain.NewShirt{
			Name:  &name,
			Color: pick(rng, colors),
			Size:  pick(rng, sizes),
			Price: float64(minPrice + rng.IntN(maxPrice-minPrice+1)),
			Stock: minStock + rng.IntN(maxStock-minStock+1),
		})
	}
	return out
}

// Run generates n shirts and creates them through c, stopping at the first
// failure.
func Run(ctx context.Context, c Creator, rng *rand.Rand, n int) ([]domain.Shirt, error) {
	created := make([]domain.Shirt, 0, n)
	for _, in := range Generate(rng, n) {
		shirt, err := c.CreateShirt(ctx, in)
		if err != nil {
			return created, fmt.Errorf("create shirt %d: %w", len(created)+1, err)
		}
		created = append(created, *shirt)
	}
	return created, nil
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.IntN(len(options))]
}
