package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/http/middleware"
)

// InitRouter registers middleware and catalog routes on server.
func InitRouter(server *gin.Engine, ctr *controller.Controller, productCtr *controller.ProductController) *gin.Engine {
	// Recovery goes first so panics anywhere in the chain become a 500.
	server.Use(middleware.Recovery(), middleware.Logger(), middleware.CORS())

	server.GET("/", ctr.Ping)

	products := server.Group("/products")
	{
		products.GET("", productCtr.ListProducts)
		products.POST("", productCtr.CreateProduct)
		products.GET("/search", productCtr.SearchProducts)
		products.POST("/generate", productCtr.GenerateProducts)
		products.GET("/:id", productCtr.GetProduct)
		products.PATCH("/:id", productCtr.UpdateProduct)
		products.DELETE("/:id", productCtr.DeleteProduct)
	}

	server.NoRoute(ctr.NotFound)

	return server
}
