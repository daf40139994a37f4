package integration

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/config"
	httpAPI "github.com/iyhunko/product-catalog/internal/http"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	reposql "github.com/iyhunko/product-catalog/internal/repository/sql"
	"github.com/iyhunko/product-catalog/internal/service"
	"github.com/stretchr/testify/require"
)

// TestEnv is a fully wired catalog backed by a private in-memory database.
type TestEnv struct {
	DB       *sql.DB
	Products *reposql.ProductRepository
	Events   *reposql.EventRepository
	Service  *service.ProductService
	Router   *gin.Engine
}

// SetupTestEnv opens and migrates an in-memory database and builds the HTTP stack on top of it.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	db, err := reposql.StartDB(context.Background(), config.DB{Path: config.InMemoryDBPath})
	require.NoError(t, err, "could not start in-memory database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("could not close database: %s", err)
		}
	})

	products := reposql.NewProductRepository(db)
	productService := service.NewProductService(products, reposql.NewTransactionalRepository(db), nil)

	gin.SetMode(gin.TestMode)
	router := httpAPI.InitRouter(gin.New(), controller.New(), controller.NewProductController(productService))

	return &TestEnv{
		DB:       db,
		Products: products,
		Events:   reposql.NewEventRepository(db),
		Service:  productService,
		Router:   router,
	}
}

// Do sends a request through the router. A non-empty body is sent as JSON.
func (env *TestEnv) Do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	return w
}
