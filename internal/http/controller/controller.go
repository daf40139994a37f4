package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controller handles requests that are not tied to a resource.
type Controller struct{}

// New creates a new Controller.
func New() *Controller {
	return &Controller{}
}

// Ping handles the liveness check on the root path.
func (con *Controller) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "API is running",
	})
}

// NotFound answers every unknown route.
func (con *Controller) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"message": "Not found",
	})
}
