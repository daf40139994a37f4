package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/model"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of controller.ProductService
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListProducts(ctx context.Context, query repository.Query) ([]*model.Product, string, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]*model.Product), args.String(1), args.Error(2)
}

func (m *MockProductService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductService) SearchProducts(ctx context.Context, term string) ([]*model.Product, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductService) GenerateProducts(ctx context.Context, count int) error {
	args := m.Called(ctx, count)
	return args.Error(0)
}

func newTestRouter(svc controller.ProductService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctr := controller.New()
	pc := controller.NewProductController(svc)

	router.GET("/", ctr.Ping)
	router.GET("/products", pc.ListProducts)
	router.POST("/products", pc.CreateProduct)
	router.GET("/products/search", pc.SearchProducts)
	router.POST("/products/generate", pc.GenerateProducts)
	router.GET("/products/:id", pc.GetProduct)
	router.PATCH("/products/:id", pc.UpdateProduct)
	router.DELETE("/products/:id", pc.DeleteProduct)
	router.NoRoute(ctr.NotFound)
	return router
}

func doRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func sampleProduct(id int64) *model.Product {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	return &model.Product{
		ID:                 id,
		Name:               "Premium Smartphone 42",
		Description:        "High-quality electronics product featuring advanced technology and exceptional value.",
		Category:           "Electronics",
		Brand:              "TechCorp",
		Price:              199.99,
		Quantity:           7,
		SKU:                "TEC-ELE-0042",
		ReleaseDate:        time.Date(2023, 9, 22, 0, 0, 0, 0, time.UTC),
		AvailabilityStatus: model.InStock,
		CustomerRating:     4.5,
		CreatedAt:          ts,
		UpdatedAt:          ts,
	}
}

func TestController_Ping(t *testing.T) {
	router := newTestRouter(new(MockProductService))

	w := doRequest(router, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API is running", decodeMessage(t, w))
}

func TestController_NotFound(t *testing.T) {
	router := newTestRouter(new(MockProductService))

	w := doRequest(router, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", decodeMessage(t, w))
}

func TestProductController_ListProducts(t *testing.T) {
	t.Run("returns products with camelCase keys", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("ListProducts", mock.Anything, *repository.NewQuery()).Return([]*model.Product{sampleProduct(1)}, "", nil)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodGet, "/products", "")

		require.Equal(t, http.StatusOK, w.Code)
		var body []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, float64(1), body[0]["id"])
		assert.Equal(t, "TEC-ELE-0042", body[0]["sku"])
		assert.Equal(t, "in_stock", body[0]["availabilityStatus"])
		assert.Equal(t, 4.5, body[0]["customerRating"])
		assert.Equal(t, "2023-09-22T00:00:00.000Z", body[0]["releaseDate"])
		assert.Equal(t, "2024-03-01T12:30:00.000Z", body[0]["createdAt"])
		assert.Empty(t, w.Header().Get(controller.NextPageTokenHeader))
		svc.AssertExpectations(t)
	})

	t.Run("empty catalog is an empty array", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("ListProducts", mock.Anything, mock.Anything).Return([]*model.Product{}, "", nil)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodGet, "/products", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("passes filters and pagination", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("ListProducts", mock.Anything, mock.MatchedBy(func(q repository.Query) bool {
			return q.Values[repository.CategoryField] == "Books" &&
				q.Values[repository.BrandField] == "BookWorld" &&
				q.Values[repository.AvailabilityStatusField] == "limited_stock" &&
				q.Limit == 2 &&
				q.Paginator == nil
		})).Return([]*model.Product{sampleProduct(1), sampleProduct(2)}, "next-token", nil)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodGet, "/products?category=Books&brand=BookWorld&availabilityStatus=limited_stock&limit=2", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "next-token", w.Header().Get(controller.NextPageTokenHeader))
		svc.AssertExpectations(t)
	})

	t.Run("invalid page token", func(t *testing.T) {
		svc := new(MockProductService)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodGet, "/products?token=bad!", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
	})

	t.Run("invalid limit", func(t *testing.T) {
		svc := new(MockProductService)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodGet, "/products?limit=ten", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid query parameters", decodeMessage(t, w))
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("ListProducts", mock.Anything, mock.Anything).Return(nil, "", errors.New("db down"))
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodGet, "/products", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Error fetching products", decodeMessage(t, w))
	})
}

func TestProductController_GetProduct(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setup      func(svc *MockProductService)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "found",
			path: "/products/3",
			setup: func(svc *MockProductService) {
				svc.On("GetProduct", mock.Anything, int64(3)).Return(sampleProduct(3), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not found",
			path: "/products/3",
			setup: func(svc *MockProductService) {
				svc.On("GetProduct", mock.Anything, int64(3)).Return(nil, repository.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Product not found",
		},
		{
			name:       "non numeric id",
			path:       "/products/abc",
			setup:      func(svc *MockProductService) {},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid product ID",
		},
		{
			name:       "zero id",
			path:       "/products/0",
			setup:      func(svc *MockProductService) {},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid product ID",
		},
		{
			name: "service error",
			path: "/products/3",
			setup: func(svc *MockProductService) {
				svc.On("GetProduct", mock.Anything, int64(3)).Return(nil, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Error fetching product",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			tt.setup(svc)
			router := newTestRouter(svc)

			w := doRequest(router, http.MethodGet, tt.path, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeMessage(t, w))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestProductController_CreateProduct(t *testing.T) {
	validBody := `{
		"name": "Classic Novel",
		"description": "A book",
		"category": "Books",
		"brand": "BookWorld",
		"price": 12.5,
		"quantity": 0,
		"sku": "BOO-BOO-0001",
		"releaseDate": "2023-09-22",
		"availabilityStatus": "out_of_stock",
		"customerRating": 4.1
	}`

	t.Run("created", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
			return p.Name == "Classic Novel" &&
				p.Quantity == 0 &&
				p.AvailabilityStatus == model.OutOfStock &&
				p.ReleaseDate.Equal(time.Date(2023, 9, 22, 0, 0, 0, 0, time.UTC))
		})).Return(sampleProduct(9), nil)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodPost, "/products", validBody)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("duplicate sku", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("CreateProduct", mock.Anything, mock.Anything).
			Return(nil, &repository.UniqueConstraintError{Detail: "sku BOO-BOO-0001"})
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodPost, "/products", validBody)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, repository.ErrCreation)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodPost, "/products", validBody)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Error creating product", decodeMessage(t, w))
	})

	invalid := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"missing price", `{"name":"x","category":"Books","brand":"b","quantity":1,"sku":"s","availabilityStatus":"in_stock"}`},
		{"negative quantity", `{"name":"x","category":"Books","brand":"b","price":1,"quantity":-1,"sku":"s","availabilityStatus":"in_stock"}`},
		{"unknown status", `{"name":"x","category":"Books","brand":"b","price":1,"quantity":1,"sku":"s","availabilityStatus":"gone"}`},
		{"rating above five", `{"name":"x","category":"Books","brand":"b","price":1,"quantity":1,"sku":"s","availabilityStatus":"in_stock","customerRating":5.5}`},
		{"bad release date", `{"name":"x","category":"Books","brand":"b","price":1,"quantity":1,"sku":"s","availabilityStatus":"in_stock","releaseDate":"yesterday"}`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			router := newTestRouter(svc)

			w := doRequest(router, http.MethodPost, "/products", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid product data", decodeMessage(t, w))
			svc.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
		})
	}
}

func TestProductController_UpdateProduct(t *testing.T) {
	t.Run("applies only supplied fields", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("UpdateProduct", mock.Anything, int64(4), mock.MatchedBy(func(p model.ProductPatch) bool {
			return p.Price != nil && *p.Price == 5 &&
				p.Name == nil && p.SKU == nil && p.ReleaseDate == nil
		})).Return(sampleProduct(4), nil)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodPatch, "/products/4", `{"price":5}`)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("empty body object is a no-op patch", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("UpdateProduct", mock.Anything, int64(4), model.ProductPatch{}).Return(sampleProduct(4), nil)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodPatch, "/products/4", `{}`)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("UpdateProduct", mock.Anything, int64(4), mock.Anything).
			Return(nil, repository.ErrNotFound)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodPatch, "/products/4", `{"name":"New"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Product not found", decodeMessage(t, w))
	})

	t.Run("duplicate sku", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("UpdateProduct", mock.Anything, int64(4), mock.Anything).
			Return(nil, &repository.UniqueConstraintError{Detail: "sku X"})
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodPatch, "/products/4", `{"sku":"X"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		svc := new(MockProductService)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodPatch, "/products/4", `{"name":""}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductController_DeleteProduct(t *testing.T) {
	tests := []struct {
		name       string
		deleted    bool
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"deleted", true, nil, http.StatusOK, "Product deleted successfully"},
		{"missing", false, nil, http.StatusNotFound, "Product not found"},
		{"service error", false, errors.New("boom"), http.StatusInternalServerError, "Error deleting product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			svc.On("DeleteProduct", mock.Anything, int64(11)).Return(tt.deleted, tt.err)
			router := newTestRouter(svc)

			w := doRequest(router, http.MethodDelete, "/products/11", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, decodeMessage(t, w))
		})
	}
}

func TestProductController_SearchProducts(t *testing.T) {
	rejections := []struct {
		name    string
		target  string
		wantMsg string
	}{
		{"missing q", "/products/search", "Query parameter 'q' is required"},
		{"empty q", "/products/search?q=", "Query parameter 'q' is required"},
		{"repeated q", "/products/search?q=a&q=b", "Query parameter 'q' is required"},
		{"blank q", "/products/search?q=%20%20%20", "Search query cannot be empty"},
		{"too long", "/products/search?q=" + strings.Repeat("a", 101), "Search query too long (max 100 characters)"},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			router := newTestRouter(svc)

			w := doRequest(router, http.MethodGet, tt.target, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, decodeMessage(t, w))
			svc.AssertNotCalled(t, "SearchProducts", mock.Anything, mock.Anything)
		})
	}

	t.Run("exactly 100 characters is accepted", func(t *testing.T) {
		term := strings.Repeat("b", 100)
		svc := new(MockProductService)
		svc.On("SearchProducts", mock.Anything, term).Return([]*model.Product{}, nil)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodGet, "/products/search?q="+term, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("raw term is passed through", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("SearchProducts", mock.Anything, " iphone (pro) ").Return([]*model.Product{sampleProduct(2)}, nil)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodGet, "/products/search?q=%20iphone%20(pro)%20", "")

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("SearchProducts", mock.Anything, "phone").Return(nil, errors.New("fts5: syntax error"))
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodGet, "/products/search?q=phone", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Error searching products", decodeMessage(t, w))
	})
}

func TestProductController_GenerateProducts(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
	}{
		{"explicit count", `{"count": 5}`, 5},
		{"fractional count is truncated", `{"count": 2.7}`, 2},
		{"no body", ``, controller.DefaultGenerateCount},
		{"no count", `{}`, controller.DefaultGenerateCount},
		{"null count", `{"count": null}`, controller.DefaultGenerateCount},
		{"string count", `{"count": "invalid"}`, controller.DefaultGenerateCount},
		{"zero count", `{"count": 0}`, controller.DefaultGenerateCount},
		{"negative count", `{"count": -1}`, controller.DefaultGenerateCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			svc.On("GenerateProducts", mock.Anything, tt.wantCount).Return(nil)
			router := newTestRouter(svc)

			w := doRequest(router, http.MethodPost, "/products/generate", tt.body)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, decodeMessage(t, w), "Successfully generated")
			svc.AssertExpectations(t)
		})
	}

	t.Run("message reports the count", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("GenerateProducts", mock.Anything, 5).Return(nil)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodPost, "/products/generate", `{"count":5}`)

		assert.Equal(t, "Successfully generated 5 products", decodeMessage(t, w))
	})

	t.Run("malformed json", func(t *testing.T) {
		svc := new(MockProductService)
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodPost, "/products/generate", `{"count":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GenerateProducts", mock.Anything, mock.Anything)
	})

	t.Run("generation failure", func(t *testing.T) {
		svc := new(MockProductService)
		svc.On("GenerateProducts", mock.Anything, 10).Return(errors.New("disk I/O error"))
		router := newTestRouter(svc)

		w := doRequest(router, http.MethodPost, "/products/generate", `{"count":10}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Error generating products", decodeMessage(t, w))
	})
}
