package httpserver

import (
	"log"

	"kickslab/internal/cart"
	"kickslab/internal/catalog"
	"kickslab/internal/checkout"
	"kickslab/internal/events"
	snapshotrepo "kickslab/internal/repository/snapshotdoc"
	"kickslab/internal/snapshot"
	"kickslab/internal/syncer"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the wired stores and collaborators for the routes.
type Deps struct {
	Catalog    *catalog.Store
	Events     *events.Store
	Cart       *cart.Store
	Checkout   *checkout.Flow
	Snapshots  snapshotrepo.Repository
	Writer     snapshot.Writer
	Sync       *syncer.Scheduler
	AdminToken string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	{
		api.GET("/products", listProductsHandler(deps.Catalog))
		api.GET("/products/:slug", getProductHandler(deps.Catalog))
		api.GET("/featured", listFeaturedHandler(deps.Catalog))
		api.GET("/events", listEventsHandler(deps.Events))

		api.GET("/cart", getCartHandler(deps.Cart))
		api.POST("/cart/items", addCartItemHandler(deps.Cart, deps.Catalog))
		api.PATCH("/cart/items", setCartQuantityHandler(deps.Cart))
		api.DELETE("/cart/items", removeCartItemHandler(deps.Cart))

		api.GET("/checkout", getCheckoutHandler(deps.Checkout))
		api.POST("/checkout/begin", beginCheckoutHandler(deps.Checkout))
		api.POST("/checkout/payment-sent", paymentSentHandler(deps.Checkout))
		api.POST("/checkout/submit", submitCheckoutHandler(deps.Checkout))

		admin := api.Group("/admin", adminAuth(deps.AdminToken))
		{
			admin.POST("/products", addProductHandler(deps.Catalog))
			admin.DELETE("/products/:id", deleteProductHandler(deps.Catalog))
			admin.POST("/products/:id/feature", toggleFeaturedHandler(deps.Catalog))
			admin.POST("/sync", pushSnapshotHandler(deps.Catalog, deps.Events, deps.Writer))
			admin.POST("/refresh", refreshHandler(deps.Sync))
		}
	}

	live := router.Group("/live")
	{
		live.GET("/:dataset", getSnapshotHandler(deps.Snapshots))
		live.PUT("/:dataset", adminAuth(deps.AdminToken), putSnapshotHandler(deps.Snapshots))
	}

	return router
}
