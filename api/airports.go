package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/travelplanner/internal/airports"
)

var errUnresolved = errors.New("request rejected")

type AirportHandler struct {
	resolver *airports.Resolver
}

func NewAirportHandler(resolver *airports.Resolver) *AirportHandler {
	return &AirportHandler{resolver: resolver}
}

func (h *AirportHandler) Register(router *gin.RouterGroup) {
	router.GET("/resolve", h.resolve)
}

// resolve is the disambiguation endpoint: candidates when the query matched,
// a preview of near-miss reference rows when it did not.
func (h *AirportHandler) resolve(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	candidates := h.resolver.Resolve(query)
	response := gin.H{"query": query, "candidates": candidates}
	if len(candidates) == 0 {
		response["preview"] = h.resolver.Preview(query)
	}

	c.JSON(http.StatusOK, response)
}
