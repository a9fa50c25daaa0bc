package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"kickslab/internal/catalog"
	"kickslab/internal/domain"
	"kickslab/internal/events"
	"kickslab/internal/snapshot"
	"kickslab/internal/syncer"

	"github.com/gin-gonic/gin"
)

// adminAuth guards admin routes with a shared token. An unconfigured token
// disables the admin surface explicitly instead of leaving it open.
func adminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin token not configured"})
			return
		}
		got := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func addProductHandler(cat *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft domain.ProductDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		p, err := cat.Add(draft)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func deleteProductHandler(cat *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		// The interactive confirmation travels as an explicit query flag.
		confirmed := c.Query("confirm") == "true"
		err = cat.Delete(id, catalog.ConfirmerFunc(func(string) bool { return confirmed }))
		switch {
		case err == nil:
			c.Status(http.StatusNoContent)
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, domain.ErrNotConfirmed):
			c.JSON(http.StatusConflict, gin.H{"error": "deletion requires confirm=true"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}

func toggleFeaturedHandler(cat *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		p, err := cat.ToggleFeatured(id)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, p)
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, domain.ErrFeaturedLimit):
			c.JSON(http.StatusConflict, gin.H{"error": "only 3 products can be featured at a time"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}

// pushSnapshotHandler serializes the current catalog and events and commits
// them through the snapshot writer. Write failures surface to the admin for
// manual retry; nothing retries automatically.
func pushSnapshotHandler(cat *catalog.Store, ev *events.Store, writer snapshot.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if writer == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot writer not configured"})
			return
		}

		datasets := []struct {
			name    string
			payload interface{}
		}{
			{domain.DatasetProducts, cat.Products()},
			{domain.DatasetEvents, ev.List()},
		}
		for _, ds := range datasets {
			content, err := json.Marshal(ds.payload)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if err := writer.Write(c.Request.Context(), ds.name, content, "admin sync: "+ds.name); err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "dataset": ds.name})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "synced"})
	}
}

func refreshHandler(sched *syncer.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sched == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "syncer not running"})
			return
		}
		sched.Refresh()
		c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled"})
	}
}
