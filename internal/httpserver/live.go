package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"kickslab/internal/domain"
	snapshotrepo "kickslab/internal/repository/snapshotdoc"

	"github.com/gin-gonic/gin"
)

// getSnapshotHandler serves a live dataset from the versioned document
// store with caching disabled, so cache-busted readers always see the
// latest committed state.
func getSnapshotHandler(repo snapshotrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if repo == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "snapshot store not configured"})
			return
		}
		doc, err := repo.Get(c.Request.Context(), c.Param("dataset"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "dataset not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("X-Snapshot-Version", strconv.FormatInt(doc.Version, 10))
		c.Data(http.StatusOK, "application/json", doc.Content)
	}
}

// putSnapshotHandler writes a dataset against the version the caller read
// (X-Snapshot-Version header, 0 for a first write). A stale version is a
// conflict, not a silent overwrite.
func putSnapshotHandler(repo snapshotrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if repo == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot store not configured"})
			return
		}
		version, err := strconv.ParseInt(c.GetHeader("X-Snapshot-Version"), 10, 64)
		if err != nil || version < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "X-Snapshot-Version header required"})
			return
		}
		content, err := io.ReadAll(io.LimitReader(c.Request.Body, 4<<20))
		if err != nil || len(content) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body required"})
			return
		}

		doc, err := repo.Put(c.Request.Context(), c.Param("dataset"), content, version)
		if err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				c.JSON(http.StatusConflict, gin.H{"error": "snapshot version conflict"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"name": doc.Name, "version": doc.Version})
	}
}
