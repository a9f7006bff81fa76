// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/carousel"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/media"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every API route under the given group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	gate := media.NewHTTPGate(cfg, log)
	mediaService := media.NewService(db, gate, log)

	catalogStore := catalog.NewStore(db, log)
	catalogService := catalog.NewService(db, catalogStore, gate, cfg, log)

	cartService := cart.NewService(db, catalogStore, log)
	guestCache := cart.NewGuestCache(redisClient)
	reconciler := cart.NewReconciler(cartService, guestCache, log)

	userService := user.NewService(db, cfg, gate, log)
	carouselService := carousel.NewService(db, gate, log)

	authHandler := handlers.NewAuthHandler(userService, cartService, reconciler, cfg)
	productHandler := handlers.NewProductHandler(catalogService, mediaService, cfg)
	cartHandler := handlers.NewCartHandler(cartService)
	guestCartHandler := handlers.NewGuestCartHandler(guestCache)
	carouselHandler := handlers.NewCarouselHandler(carouselService)
	mediaHandler := handlers.NewMediaHandler(mediaService)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.DELETE("/profile/photo", authHandler.DeletePhoto)
		}
	}

	products := rg.Group("/products")
	products.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		products.GET("", productHandler.List)
		products.GET("/search", productHandler.Search)
		products.GET("/categories", productHandler.Categories)
		products.GET("/brands", productHandler.Brands)
		products.GET("/:id", productHandler.Get)

		admin := products.Group("")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
		{
			admin.POST("", productHandler.Create)
			admin.PUT("/:id", productHandler.Update)
			admin.DELETE("/:id", productHandler.Delete)
		}
	}

	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.AuthMiddleware(cfg))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("", cartHandler.AddToCart)
		cartGroup.PUT("/:productId", cartHandler.UpdateQuantity)
		cartGroup.DELETE("/:productId", cartHandler.RemoveFromCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
	}

	guestCart := rg.Group("/guest-cart")
	{
		guestCart.GET("", guestCartHandler.GetCart)
		guestCart.PUT("", guestCartHandler.SaveCart)
		guestCart.DELETE("", guestCartHandler.ClearCart)
	}

	carouselGroup := rg.Group("/carousel-images")
	{
		carouselGroup.GET("", carouselHandler.List)

		admin := carouselGroup.Group("")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
		{
			admin.POST("", carouselHandler.Create)
			admin.DELETE("/:id", carouselHandler.Delete)
		}
	}

	mediaGroup := rg.Group("/media")
	mediaGroup.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		mediaGroup.GET("", mediaHandler.List)
		mediaGroup.DELETE("/:id", mediaHandler.Delete)
	}
}
