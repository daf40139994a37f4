// Package generator synthesises plausible random catalog products.
package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/iyhunko/product-catalog/internal/model"
)

const (
	releaseWindow   = 365 * 24 * time.Hour
	maxSKUAttempts  = 32
	maxPriceInCents = 100000
)

// Generator produces unsaved products. It is not safe for concurrent use.
type Generator struct {
	rng    *rand.Rand
	now    func() time.Time
	issued map[string]struct{}
}

// New returns a Generator driven by rng and clock. Equal seeds and clocks give equal output.
func New(rng *rand.Rand, now func() time.Time) *Generator {
	return &Generator{
		rng:    rng,
		now:    now,
		issued: make(map[string]struct{}),
	}
}

// NewDefault returns a Generator with a randomly seeded source and the wall clock.
func NewDefault() *Generator {
	return New(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), time.Now)
}

// Generate returns count products sharing one creation timestamp.
func (g *Generator) Generate(count int) []*model.Product {
	if count <= 0 {
		return []*model.Product{}
	}

	generatedAt := g.now().UTC().Truncate(time.Millisecond)
	products := make([]*model.Product, 0, count)
	for range count {
		products = append(products, g.product(generatedAt))
	}
	return products
}

func (g *Generator) product(generatedAt time.Time) *model.Product {
	category := pick(g.rng, Categories)
	brand := pick(g.rng, Brands)
	vocab := vocabularies[category]

	p := &model.Product{
		Name: fmt.Sprintf("%s %s %d",
			pick(g.rng, vocab.prefixes[:]), pick(g.rng, vocab.nouns[:]), g.rng.IntN(1000)),
		Description: fmt.Sprintf("High-quality %s product featuring %s and exceptional value.",
			strings.ToLower(category), pick(g.rng, vocab.traits[:])),
		Category:           category,
		Brand:              brand,
		Price:              float64(g.rng.IntN(maxPriceInCents)+1) / 100,
		Quantity:           g.rng.IntN(100),
		SKU:                g.NewSKU(brand, category),
		ReleaseDate:        generatedAt.Add(-time.Duration(g.rng.Int64N(releaseWindow.Milliseconds())) * time.Millisecond),
		AvailabilityStatus: pick(g.rng, model.AvailabilityStatuses),
		CustomerRating:     float64(10+g.rng.IntN(41)) / 10,
	}
	p.InitMeta(generatedAt)
	return p
}

// NewSKU draws a BRA-CAT-NNNN code not yet issued by this generator. Once the
// attempts run out the last draw is returned and the store decides.
func (g *Generator) NewSKU(brand, category string) string {
	prefix := code(brand) + "-" + code(category) + "-"
	var sku string
	for range maxSKUAttempts {
		sku = fmt.Sprintf("%s%04d", prefix, g.rng.IntN(10000))
		if _, taken := g.issued[sku]; !taken {
			break
		}
	}
	g.issued[sku] = struct{}{}
	return sku
}

func code(word string) string {
	if len(word) > 3 {
		word = word[:3]
	}
	return strings.ToUpper(word)
}

func pick[T any](rng *rand.Rand, options []T) T {
	return options[rng.IntN(len(options))]
}
