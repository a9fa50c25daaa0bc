package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kickslab/internal/cart"
	"kickslab/internal/catalog"
	"kickslab/internal/domain"
	"kickslab/internal/pricing"

	"github.com/gin-gonic/gin"
)

func cartView(store *cart.Store) gin.H {
	lines := store.Lines()
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return gin.H{
		"lines":      lines,
		"totalCents": store.TotalCents(),
		"itemCount":  store.ItemCount(),
	}
}

func getCartHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cartView(store))
	}
}

type addItemRequest struct {
	ProductID int64               `json:"productId"`
	Size      string              `json:"size"`
	Quantity  int                 `json:"quantity"`
	Custom    *domain.CustomOrder `json:"custom,omitempty"`
}

func addCartItemHandler(store *cart.Store, cat *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		line := domain.CartLine{
			Size:     req.Size,
			Quantity: req.Quantity,
			Custom:   req.Custom,
		}
		base, _ := pricing.ForToken(req.Size)
		line.UnitPriceCents = base

		if req.Custom != nil {
			if strings.TrimSpace(req.Custom.Design) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "custom design description required"})
				return
			}
			line.Name = "Custom Order"
			line.Slug = "custom-order"
		} else {
			p, err := cat.ByID(req.ProductID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			line.ProductID = p.ID
			line.Slug = p.Slug
			line.Name = p.Name
			if len(p.Images) > 0 {
				line.Image = p.Images[0]
			}
		}

		if err := store.Add(line); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartView(store))
	}
}

type setQuantityRequest struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

func setCartQuantityHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		key := domain.LineKey{ProductID: req.ProductID, Size: req.Size}
		if err := store.SetQuantity(key, req.Quantity); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartView(store))
	}
}

func removeCartItemHandler(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseInt(c.Query("productId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
			return
		}
		size := c.Query("size")
		if size == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size required"})
			return
		}
		if err := store.Remove(domain.LineKey{ProductID: productID, Size: size}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartView(store))
	}
}
