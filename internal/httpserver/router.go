package httpserver

import (
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires storefront and back-office routes.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) (*gin.Engine, error) {
	if deps.CatalogSvc == nil || deps.Carts == nil {
		return nil, errors.New("httpserver: catalog service and cart sessions are required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = allowedOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", cartSessionHeader)
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	{
		api.GET("/products", listProductsHandler(deps.CatalogSvc))
		api.GET("/products/:idOrSlug", getProductHandler(deps.CatalogSvc))
		api.GET("/categories", categoriesHandler(deps.CatalogSvc))
		api.GET("/product-types", productTypesHandler(deps.CatalogSvc))
		api.GET("/filters", filterMetaHandler(deps.CatalogSvc))

		api.POST("/cart/session", cartSessionHandler(deps.Carts))
		withCart := api.Group("", cartMiddleware(deps.Carts))
		{
			withCart.GET("/cart", getCartHandler())
			withCart.POST("/cart/lines", addCartLineHandler(deps.CatalogSvc))
			withCart.PATCH("/cart/lines/:lineID", updateCartLineHandler())
			withCart.DELETE("/cart/lines/:lineID", removeCartLineHandler())
			withCart.DELETE("/cart", clearCartHandler())
			withCart.PUT("/cart/drawer", cartDrawerHandler())
		}
	}

	if deps.AuthSvc != nil {
		router.POST("/admin/login", loginHandler(deps.AuthSvc))

		admin := router.Group("/admin", adminAuthMiddleware(deps.AuthSvc))
		{
			admin.POST("/logout", logoutHandler(deps.AuthSvc))
			admin.POST("/register", registerHandler(deps.AuthSvc))

			admin.POST("/products", upsertProductHandler(deps.CatalogSvc))
			admin.DELETE("/products/:id", deleteProductHandler(deps.CatalogSvc))
			admin.POST("/categories", upsertCategoryHandler(deps.CatalogSvc))
			admin.DELETE("/categories/:id", deleteCategoryHandler(deps.CatalogSvc))
			admin.POST("/product-types", upsertProductTypeHandler(deps.CatalogSvc))
			admin.DELETE("/product-types/:id", deleteProductTypeHandler(deps.CatalogSvc))

			if deps.MediaSvc != nil {
				admin.POST("/media/upload", uploadMediaHandler(deps.MediaSvc))
				admin.POST("/media/import", importMediaHandler(deps.MediaSvc, deps.CatalogImages))
				admin.GET("/media", listMediaHandler(deps.MediaSvc))
				admin.DELETE("/media/*object", deleteMediaHandler(deps.MediaSvc))
			}
		}
	}

	return router, nil
}
