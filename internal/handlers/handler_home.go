package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// homeHandler serves the unauthenticated service endpoints.
type homeHandler struct{}

// registerHomeRoutes sets up the root and health probes.
func registerHomeRoutes(r *gin.Engine) {
	h := &homeHandler{}
	r.GET("/", h.home)
	r.GET("/health", h.health)
}

func (h *homeHandler) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "cleanops-backend"})
}

func (h *homeHandler) health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
