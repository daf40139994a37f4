package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/http/middleware"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
)

const (
	// DefaultGenerateCount is used when the request carries no usable count.
	DefaultGenerateCount = 1000
	// MaxSearchQueryLength is the longest accepted search term, in characters.
	MaxSearchQueryLength = 100

	// NextPageTokenHeader carries the cursor for the next page of a listing.
	NextPageTokenHeader = "X-Next-Page-Token"

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
	dateLayout      = "2006-01-02"
)

// ProductService is the catalog behaviour the HTTP layer depends on.
type ProductService interface {
	ListProducts(ctx context.Context, query repository.Query) ([]*model.Product, string, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)
	SearchProducts(ctx context.Context, term string) ([]*model.Product, error)
	GenerateProducts(ctx context.Context, count int) error
}

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	productService ProductService
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ProductResponse is the JSON shape of a product.
type ProductResponse struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	Category           string  `json:"category"`
	Brand              string  `json:"brand"`
	Price              float64 `json:"price"`
	Quantity           int     `json:"quantity"`
	SKU                string  `json:"sku"`
	ReleaseDate        string  `json:"releaseDate"`
	AvailabilityStatus string  `json:"availabilityStatus"`
	CustomerRating     float64 `json:"customerRating"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// CreateProductRequest represents the request body for creating a product.
type CreateProductRequest struct {
	Name               string                   `json:"name" binding:"required"`
	Description        string                   `json:"description"`
	Category           string                   `json:"category" binding:"required"`
	Brand              string                   `json:"brand" binding:"required"`
	Price              *float64                 `json:"price" binding:"required,gte=0"`
	Quantity           *int                     `json:"quantity" binding:"required,gte=0"`
	SKU                string                   `json:"sku" binding:"required"`
	ReleaseDate        string                   `json:"releaseDate"`
	AvailabilityStatus model.AvailabilityStatus `json:"availabilityStatus" binding:"required,oneof=in_stock out_of_stock limited_stock"`
	CustomerRating     float64                  `json:"customerRating" binding:"gte=0,lte=5"`
}

// UpdateProductRequest represents a partial product update. Absent fields are kept.
type UpdateProductRequest struct {
	Name               *string                   `json:"name" binding:"omitempty,min=1"`
	Description        *string                   `json:"description"`
	Category           *string                   `json:"category" binding:"omitempty,min=1"`
	Brand              *string                   `json:"brand" binding:"omitempty,min=1"`
	Price              *float64                  `json:"price" binding:"omitempty,gte=0"`
	Quantity           *int                      `json:"quantity" binding:"omitempty,gte=0"`
	SKU                *string                   `json:"sku" binding:"omitempty,min=1"`
	ReleaseDate        *string                   `json:"releaseDate"`
	AvailabilityStatus *model.AvailabilityStatus `json:"availabilityStatus" binding:"omitempty,oneof=in_stock out_of_stock limited_stock"`
	CustomerRating     *float64                  `json:"customerRating" binding:"omitempty,gte=0,lte=5"`
}

// ListProductsRequest represents the query parameters for listing products.
type ListProductsRequest struct {
	Category           string `form:"category"`
	Brand              string `form:"brand"`
	AvailabilityStatus string `form:"availabilityStatus"`
	Limit              int32  `form:"limit"`
	Token              string `form:"token"`
}

// ListProducts handles GET /products.
func (pc *ProductController) ListProducts(c *gin.Context) {
	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid query parameters"})
		return
	}

	query := repository.NewQuery().
		With(repository.CategoryField, req.Category).
		With(repository.BrandField, req.Brand).
		With(repository.AvailabilityStatusField, req.AvailabilityStatus)
	if err := query.ApplyPagination(req.Limit, req.Token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid page token"})
		return
	}

	products, nextToken, err := pc.productService.ListProducts(c.Request.Context(), *query)
	if err != nil {
		logError(c, "Error fetching products", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching products"})
		return
	}

	if nextToken != "" {
		c.Header(NextPageTokenHeader, nextToken)
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

// GetProduct handles GET /products/:id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := pc.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		logError(c, "Error fetching product", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching product"})
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// CreateProduct handles POST /products.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product data", "error": err.Error()})
		return
	}

	releaseDate := time.Now().UTC()
	if req.ReleaseDate != "" {
		parsed, err := parseReleaseDate(req.ReleaseDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product data", "error": err.Error()})
			return
		}
		releaseDate = parsed
	}

	product := &model.Product{
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		Brand:              req.Brand,
		Price:              *req.Price,
		Quantity:           *req.Quantity,
		SKU:                req.SKU,
		ReleaseDate:        releaseDate,
		AvailabilityStatus: req.AvailabilityStatus,
		CustomerRating:     req.CustomerRating,
	}

	created, err := pc.productService.CreateProduct(c.Request.Context(), product)
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "Product with this SKU already exists"})
			return
		}
		logError(c, "Error creating product", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating product"})
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(created))
}

// UpdateProduct handles PATCH /products/:id.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product data", "error": err.Error()})
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product data", "error": err.Error()})
		return
	}

	updated, err := pc.productService.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		case isUniqueViolation(err):
			c.JSON(http.StatusConflict, gin.H{"message": "Product with this SKU already exists"})
		default:
			logError(c, "Error updating product", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating product"})
		}
		return
	}

	c.JSON(http.StatusOK, toProductResponse(updated))
}

// DeleteProduct handles DELETE /products/:id.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	deleted, err := pc.productService.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		logError(c, "Error deleting product", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting product"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// SearchProducts handles GET /products/search?q=.
// The raw term is handed to the service, which sanitizes it for the index.
func (pc *ProductController) SearchProducts(c *gin.Context) {
	values := c.QueryArray("q")
	if len(values) != 1 || values[0] == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Query parameter 'q' is required"})
		return
	}
	term := values[0]

	if utf8.RuneCountInString(term) > MaxSearchQueryLength {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Search query too long (max %d characters)", MaxSearchQueryLength)})
		return
	}
	if strings.TrimSpace(term) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Search query cannot be empty"})
		return
	}

	products, err := pc.productService.SearchProducts(c.Request.Context(), term)
	if err != nil {
		logError(c, "Error searching products", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error searching products"})
		return
	}

	c.JSON(http.StatusOK, toProductResponses(products))
}

// GenerateProducts handles POST /products/generate.
// Anything but a positive number in "count" falls back to DefaultGenerateCount.
func (pc *ProductController) GenerateProducts(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	count, err := generateCount(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if err := pc.productService.GenerateProducts(c.Request.Context(), count); err != nil {
		logError(c, "Error generating products", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error generating products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Successfully generated %d products", count)})
}

func generateCount(body []byte) (int, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return DefaultGenerateCount, nil
	}

	var req struct {
		Count any `json:"count"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return 0, err
	}

	count, ok := req.Count.(float64)
	if !ok || count < 1 {
		return DefaultGenerateCount, nil
	}
	return int(count), nil
}

func (r UpdateProductRequest) toPatch() (model.ProductPatch, error) {
	patch := model.ProductPatch{
		Name:               r.Name,
		Description:        r.Description,
		Category:           r.Category,
		Brand:              r.Brand,
		Price:              r.Price,
		Quantity:           r.Quantity,
		SKU:                r.SKU,
		AvailabilityStatus: r.AvailabilityStatus,
		CustomerRating:     r.CustomerRating,
	}
	if r.ReleaseDate != nil {
		releaseDate, err := parseReleaseDate(*r.ReleaseDate)
		if err != nil {
			return model.ProductPatch{}, err
		}
		patch.ReleaseDate = &releaseDate
	}
	return patch, nil
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product ID"})
		return 0, false
	}
	return id, true
}

func parseReleaseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("releaseDate must be an ISO-8601 date: %q", value)
	}
	return t, nil
}

func isUniqueViolation(err error) bool {
	var uniqueErr *repository.UniqueConstraintError
	return errors.As(err, &uniqueErr)
}

func logError(c *gin.Context, msg string, err error) {
	slog.Error(msg,
		slog.Any("err", err),
		slog.String("path", c.Request.URL.Path),
		slog.String("request_id", middleware.RequestID(c)),
	)
}

func toProductResponses(products []*model.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, toProductResponse(product))
	}
	return responses
}

func toProductResponse(product *model.Product) ProductResponse {
	return ProductResponse{
		ID:                 product.ID,
		Name:               product.Name,
		Description:        product.Description,
		Category:           product.Category,
		Brand:              product.Brand,
		Price:              product.Price,
		Quantity:           product.Quantity,
		SKU:                product.SKU,
		ReleaseDate:        product.ReleaseDate.UTC().Format(timestampLayout),
		AvailabilityStatus: string(product.AvailabilityStatus),
		CustomerRating:     product.CustomerRating,
		CreatedAt:          product.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:          product.UpdatedAt.UTC().Format(timestampLayout),
	}
}
