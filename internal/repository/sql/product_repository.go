package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iyhunko/product-catalog/internal/fts"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

const (
	productColumns = "id, name, description, category, brand, price, quantity, sku, releaseDate, availabilityStatus, customerRating, createdAt, updatedAt"

	insertProductQuery = `INSERT INTO products (name, description, category, brand, price, quantity, sku, releaseDate, availabilityStatus, customerRating, createdAt, updatedAt)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	searchProductsQuery = `SELECT p.id, p.name, p.description, p.category, p.brand, p.price, p.quantity, p.sku, p.releaseDate, p.availabilityStatus, p.customerRating, p.createdAt, p.updatedAt
	          FROM products_fts
	          JOIN products p ON products_fts.rowid = p.id
	          WHERE products_fts MATCH ?
	          ORDER BY rank`

	rebuildSearchIndexQuery = `INSERT INTO products_fts(products_fts) VALUES('rebuild')`
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository stores products in SQLite and keeps the FTS5 index in step.
type ProductRepository struct {
	db  *sql.DB
	txn *sql.Tx
	now func() time.Time
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db, now: time.Now}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *ProductRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// FindAll lists products ordered by id, narrowed by the query filters and cursor.
func (r *ProductRepository) FindAll(ctx context.Context, query repository.Query) ([]*model.Product, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + productColumns + " FROM products WHERE 1=1")

	var args []interface{}
	for _, field := range repository.FilterFields {
		value, ok := query.Values[field]
		if !ok {
			continue
		}
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = ?", field))
		args = append(args, value)
	}

	if query.Paginator != nil {
		queryBuilder.WriteString(" AND id > ?")
		args = append(args, query.Paginator.LastID)
	}

	queryBuilder.WriteString(" ORDER BY id ASC")

	if query.Paginated() {
		queryBuilder.WriteString(" LIMIT ?")
		args = append(args, query.Limit)
	}

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, queryBuilder.String())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// FindByID retrieves a single product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = ?"

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return product, nil
}

// Create stamps the product timestamps, inserts it and returns the stored row.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	product.InitMeta(r.now())

	id, err := r.Insert(ctx, product)
	if err != nil {
		return nil, err
	}

	created, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrCreation
		}
		return nil, err
	}
	return created, nil
}

// Insert writes the product as is and returns the assigned id.
// Timestamps are stamped only when the caller left them empty.
func (r *ProductRepository) Insert(ctx context.Context, product *model.Product) (int64, error) {
	if product.CreatedAt.IsZero() {
		product.InitMeta(r.now())
	}

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, insertProductQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		product.Name,
		product.Description,
		product.Category,
		product.Brand,
		product.Price,
		product.Quantity,
		product.SKU,
		formatTime(product.ReleaseDate),
		string(product.AvailabilityStatus),
		product.CustomerRating,
		formatTime(product.CreatedAt),
		formatTime(product.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("failed to insert product: %w", &repository.UniqueConstraintError{Detail: "sku " + product.SKU})
		}
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}
	product.ID = id

	return id, nil
}

// Update applies the non-nil fields of patch and returns the stored row.
// An empty patch performs no write.
func (r *ProductRepository) Update(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	columns, args := patchAssignments(patch)
	columns = append(columns, "updatedAt = ?")
	args = append(args, formatTime(r.now()), id)

	query := "UPDATE products SET " + strings.Join(columns, ", ") + " WHERE id = ?"

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to update product: %w", &repository.UniqueConstraintError{Detail: "sku " + *patch.SKU})
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, repository.ErrNotFound
	}

	return r.FindByID(ctx, id)
}

func patchAssignments(patch model.ProductPatch) ([]string, []interface{}) {
	var (
		columns []string
		args    []interface{}
	)
	set := func(column string, value interface{}) {
		columns = append(columns, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Brand != nil {
		set("brand", *patch.Brand)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Quantity != nil {
		set("quantity", *patch.Quantity)
	}
	if patch.SKU != nil {
		set("sku", *patch.SKU)
	}
	if patch.ReleaseDate != nil {
		set("releaseDate", formatTime(*patch.ReleaseDate))
	}
	if patch.AvailabilityStatus != nil {
		set("availabilityStatus", string(*patch.AvailabilityStatus))
	}
	if patch.CustomerRating != nil {
		set("customerRating", *patch.CustomerRating)
	}
	return columns, args
}

// Delete removes a product by ID and reports whether a row was removed.
func (r *ProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM products WHERE id = ?`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return false, fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Search runs a prefix full-text query over name, description, category, brand and sku,
// best matches first. A term with nothing searchable left matches nothing.
func (r *ProductRepository) Search(ctx context.Context, term string) ([]*model.Product, error) {
	expr := fts.MatchExpression(term)
	if expr == "" {
		return []*model.Product{}, nil
	}

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, searchProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare search statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, expr)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// RebuildSearchIndex regenerates the full-text index from the products table.
func (r *ProductRepository) RebuildSearchIndex(ctx context.Context) error {
	if _, err := r.getExecutor().ExecContext(ctx, rebuildSearchIndexQuery); err != nil {
		return fmt.Errorf("failed to rebuild search index: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProducts(rows *sql.Rows) ([]*model.Product, error) {
	products := []*model.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var (
		product                           model.Product
		releaseDate, createdAt, updatedAt string
		availabilityStatus                string
	)
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Category,
		&product.Brand,
		&product.Price,
		&product.Quantity,
		&product.SKU,
		&releaseDate,
		&availabilityStatus,
		&product.CustomerRating,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	product.AvailabilityStatus = model.AvailabilityStatus(availabilityStatus)

	if product.ReleaseDate, err = parseTime(releaseDate); err != nil {
		return nil, err
	}
	if product.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if product.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &product, nil
}
