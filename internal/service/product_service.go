package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iyhunko/product-catalog/internal/generator"
	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

const (
	// GenerationBatchSize is the number of records generated and inserted per batch.
	GenerationBatchSize = 100

	maxInsertAttempts = 3
)

// ErrInvalidCount is returned when a negative number of products is requested.
var ErrInvalidCount = errors.New("count must not be negative")

// GenerationError reports a failed generation run. Nothing from the run is persisted.
type GenerationError struct {
	Requested int
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate %d products: %v", e.Requested, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

type ProductService struct {
	products     repository.ProductRepository
	transactor   repository.Transactor
	newGenerator func() *generator.Generator
}

// NewProductService wires the service. newGenerator is called once per
// generation run; nil falls back to a randomly seeded generator.
func NewProductService(products repository.ProductRepository, transactor repository.Transactor, newGenerator func() *generator.Generator) *ProductService {
	if newGenerator == nil {
		newGenerator = generator.NewDefault
	}
	return &ProductService{
		products:     products,
		transactor:   transactor,
		newGenerator: newGenerator,
	}
}

// ListProducts returns the products matching query and, when the page is full,
// the token for the next page.
func (ps *ProductService) ListProducts(ctx context.Context, query repository.Query) ([]*model.Product, string, error) {
	products, err := ps.products.FindAll(ctx, query)
	if err != nil {
		return nil, "", err
	}

	var nextToken string
	if query.Paginated() && len(products) == query.Limit {
		nextToken = repository.Paginator{LastID: products[len(products)-1].ID}.Encode()
	}
	return products, nextToken, nil
}

func (ps *ProductService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return ps.products.FindByID(ctx, id)
}

// CreateProduct stores product and records a product.created event atomically.
func (ps *ProductService) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	var created *model.Product
	err := ps.transactor.WithinTransaction(ctx, func(products repository.ProductRepository, events repository.EventRepository) error {
		var err error
		created, err = products.Create(ctx, product)
		if err != nil {
			return err
		}
		return recordProductEvent(ctx, events, model.EventProductCreated, created)
	})
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()
	return created, nil
}

// UpdateProduct applies patch. An empty patch returns the current product untouched.
func (ps *ProductService) UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	if patch.IsEmpty() {
		return ps.products.FindByID(ctx, id)
	}

	var updated *model.Product
	err := ps.transactor.WithinTransaction(ctx, func(products repository.ProductRepository, events repository.EventRepository) error {
		var err error
		updated, err = products.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		return recordProductEvent(ctx, events, model.EventProductUpdated, updated)
	})
	if err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.Inc()
	return updated, nil
}

// DeleteProduct removes a product and reports whether it existed.
func (ps *ProductService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := ps.transactor.WithinTransaction(ctx, func(products repository.ProductRepository, events repository.EventRepository) error {
		product, err := products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return err
		}

		if deleted, err = products.Delete(ctx, id); err != nil || !deleted {
			return err
		}
		return recordProductEvent(ctx, events, model.EventProductDeleted, product)
	})
	if err != nil {
		return false, err
	}

	if deleted {
		metrics.ProductsDeleted.Inc()
	}
	return deleted, nil
}

// SearchProducts runs a full-text search. The caller validates term.
func (ps *ProductService) SearchProducts(ctx context.Context, term string) ([]*model.Product, error) {
	products, err := ps.products.Search(ctx, term)
	if err != nil {
		metrics.Searches.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.Searches.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return products, nil
}

// GenerateProducts creates count synthetic products in batches inside one
// transaction, then rebuilds the search index. Either every record is stored or none.
func (ps *ProductService) GenerateProducts(ctx context.Context, count int) (err error) {
	if count < 0 {
		return &GenerationError{Requested: count, Err: ErrInvalidCount}
	}
	if count == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeError
		}
		metrics.GenerationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	gen := ps.newGenerator()
	batches := (count + GenerationBatchSize - 1) / GenerationBatchSize

	err = ps.transactor.WithinTransaction(ctx, func(products repository.ProductRepository, events repository.EventRepository) error {
		remaining := count
		for batch := 1; batch <= batches; batch++ {
			size := min(GenerationBatchSize, remaining)
			for _, product := range gen.Generate(size) {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := insertGenerated(ctx, products, gen, product); err != nil {
					return err
				}
			}
			remaining -= size
			slog.Debug("generated batch inserted", slog.Int("batch", batch), slog.Int("batches", batches), slog.Int("size", size))
		}

		event, err := model.NewEvent(model.EventProductsGenerated, model.CatalogEventData{Count: count})
		if err != nil {
			return err
		}
		return events.Create(ctx, event)
	})
	if err != nil {
		slog.Error("product generation rolled back", slog.Int("count", count), slog.Any("err", err))
		return &GenerationError{Requested: count, Err: err}
	}

	// The rows are committed; finish the rebuild even if the caller goes away.
	if err = ps.products.RebuildSearchIndex(context.WithoutCancel(ctx)); err != nil {
		slog.Error("search index rebuild failed", slog.Any("err", err))
		return &GenerationError{Requested: count, Err: err}
	}

	metrics.ProductsGenerated.Add(float64(count))
	slog.Info("products generated", slog.Int("count", count), slog.Int("batches", batches), slog.Duration("took", time.Since(start)))
	return nil
}

// insertGenerated inserts product, drawing a fresh SKU when the store already has it.
func insertGenerated(ctx context.Context, products repository.ProductRepository, gen *generator.Generator, product *model.Product) error {
	for attempt := 1; ; attempt++ {
		_, err := products.Insert(ctx, product)
		if err == nil {
			return nil
		}

		var uniqueErr *repository.UniqueConstraintError
		if !errors.As(err, &uniqueErr) || attempt == maxInsertAttempts {
			return err
		}
		slog.Debug("generated sku already taken", slog.String("sku", product.SKU), slog.Int("attempt", attempt))
		product.SKU = gen.NewSKU(product.Brand, product.Category)
	}
}

func recordProductEvent(ctx context.Context, events repository.EventRepository, eventType string, product *model.Product) error {
	event, err := model.ProductEvent(eventType, product)
	if err != nil {
		return err
	}
	if err := events.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to record %s event: %w", eventType, err)
	}
	return nil
}
