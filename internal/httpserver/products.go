package httpserver

import (
	"errors"
	"net/http"

	"kickslab/internal/catalog"
	"kickslab/internal/domain"
	"kickslab/internal/events"

	"github.com/gin-gonic/gin"
)

func listProductsHandler(cat *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"products": cat.Products()})
	}
}

func listFeaturedHandler(cat *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		featured := cat.Featured()
		if featured == nil {
			featured = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": featured})
	}
}

func getProductHandler(cat *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := cat.BySlug(c.Param("slug"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func listEventsHandler(ev *events.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"events": ev.List()})
	}
}
