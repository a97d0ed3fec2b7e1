package simulation

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"plantsim/pkg/domain"
	"slices"
)

// NoOrders generates nothing.
type NoOrders struct{}

// Generate implements domain.OrderGenerator.
func (NoOrders) Generate(int, domain.RuleView) ([]domain.OrderRequest, error) { return nil, nil }

// GeneratorFunc adapts a function to domain.OrderGenerator.
type GeneratorFunc func(day int, view domain.RuleView) ([]domain.OrderRequest, error)

// Generate implements domain.OrderGenerator.
func (f GeneratorFunc) Generate(day int, view domain.RuleView) ([]domain.OrderRequest, error) {
	return f(day, view)
}

// Schedule replays a fixed list of requests per day.
type Schedule map[int][]domain.OrderRequest

// Generate implements domain.OrderGenerator.
func (s Schedule) Generate(day int, _ domain.RuleView) ([]domain.OrderRequest, error) {
	return slices.Clone(s[day]), nil
}

// RandomGenerator draws between Min and Max orders per day for finished
// products that have a bill of materials. Each day's draw depends only on the
// seed, the day and the catalog, so rolled-back days and resumed runs replay
// the same orders.
type RandomGenerator struct {
	seed        uint64
	min         int
	max         int
	maxQuantity int
}

// NewRandomGenerator validates bounds and records the seed.
func NewRandomGenerator(seed uint64, minOrders, maxOrders, maxQuantity int) (*RandomGenerator, error) {
	if minOrders < 0 || maxOrders < minOrders {
		return nil, fmt.Errorf("invalid daily order range [%d, %d]", minOrders, maxOrders)
	}
	if maxQuantity <= 0 {
		return nil, errors.New("max order quantity must be positive")
	}
	return &RandomGenerator{
		seed:        seed,
		min:         minOrders,
		max:         maxOrders,
		maxQuantity: maxQuantity,
	}, nil
}

// Generate implements domain.OrderGenerator.
func (g *RandomGenerator) Generate(day int, view domain.RuleView) ([]domain.OrderRequest, error) {
	rng := rand.New(rand.NewPCG(g.seed, uint64(day)^0x9e3779b97f4a7c15))
	candidates := buildable(view)
	n := g.min + rng.IntN(g.max-g.min+1)
	if len(candidates) == 0 || n == 0 {
		return nil, nil
	}
	out := make([]domain.OrderRequest, 0, n)
	for range n {
		out = append(out, domain.OrderRequest{
			ProductID: candidates[rng.IntN(len(candidates))],
			Quantity:  1 + rng.IntN(g.maxQuantity),
		})
	}
	return out, nil
}

func buildable(view domain.RuleView) []int {
	withBOM := map[int]bool{}
	for _, e := range view.ListBOM() {
		withBOM[e.FinishedID] = true
	}
	var ids []int
	for _, p := range view.ListProducts() {
		if p.Kind == domain.ProductFinished && withBOM[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
