package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports liveness. The core is fully in-memory, so there are no
// downstream dependencies to probe.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
