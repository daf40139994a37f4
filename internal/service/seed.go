package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

// SampleProducts returns the catalog used to bootstrap an empty database.
func SampleProducts() []*model.Product {
	return []*model.Product{
		{
			Name:               "iPhone 15 Pro",
			Description:        "Latest flagship smartphone from Apple with advanced camera system",
			Category:           "Electronics",
			Brand:              "Apple",
			Price:              999.99,
			Quantity:           1,
			SKU:                "APL-IP15P-128GB",
			ReleaseDate:        releaseDate(2023, time.September, 22),
			AvailabilityStatus: model.InStock,
			CustomerRating:     4.8,
		},
		{
			Name:               "Samsung Galaxy S24",
			Description:        "Premium Android smartphone with AI-powered features",
			Category:           "Electronics",
			Brand:              "Samsung",
			Price:              899.99,
			Quantity:           1,
			SKU:                "SAM-GS24-256GB",
			ReleaseDate:        releaseDate(2024, time.January, 17),
			AvailabilityStatus: model.InStock,
			CustomerRating:     4.6,
		},
		{
			Name:               "Nike Air Max 270",
			Description:        "Comfortable running shoes with air cushioning",
			Category:           "Footwear",
			Brand:              "Nike",
			Price:              150.00,
			Quantity:           2,
			SKU:                "NIK-AM270-10",
			ReleaseDate:        releaseDate(2023, time.March, 15),
			AvailabilityStatus: model.InStock,
			CustomerRating:     4.4,
		},
		{
			Name:               "MacBook Pro 14-inch",
			Description:        "Professional laptop with M3 chip for developers and creators",
			Category:           "Computers",
			Brand:              "Apple",
			Price:              1999.99,
			Quantity:           1,
			SKU:                "APL-MBP14-M3-512GB",
			ReleaseDate:        releaseDate(2023, time.October, 30),
			AvailabilityStatus: model.LimitedStock,
			CustomerRating:     4.9,
		},
		{
			Name:               "Sony WH-1000XM5",
			Description:        "Wireless noise-canceling headphones with premium sound",
			Category:           "Audio",
			Brand:              "Sony",
			Price:              399.99,
			Quantity:           1,
			SKU:                "SNY-WH1000XM5-BLK",
			ReleaseDate:        releaseDate(2022, time.May, 12),
			AvailabilityStatus: model.InStock,
			CustomerRating:     4.7,
		},
	}
}

func releaseDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Seed inserts SampleProducts when the catalog is empty and rebuilds the
// search index. It returns how many products were inserted.
func (ps *ProductService) Seed(ctx context.Context) (int, error) {
	query := repository.NewQuery()
	query.Limit = 1
	existing, err := ps.products.FindAll(ctx, *query)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing products: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("catalog already has products, skipping seed")
		return 0, nil
	}

	samples := SampleProducts()
	err = ps.transactor.WithinTransaction(ctx, func(products repository.ProductRepository, _ repository.EventRepository) error {
		for _, product := range samples {
			if _, err := products.Insert(ctx, product); err != nil {
				return fmt.Errorf("failed to insert sample product %s: %w", product.SKU, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := ps.products.RebuildSearchIndex(ctx); err != nil {
		return 0, fmt.Errorf("failed to rebuild search index: %w", err)
	}
	slog.Info("catalog seeded", slog.Int("count", len(samples)))
	return len(samples), nil
}
