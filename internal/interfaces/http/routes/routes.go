// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	SetupAuthRoutes(rg, db, cfg)
	SetupUserRoutes(rg, db, cfg)
	SetupProductRoutes(rg, db, cfg)
	SetupCartRoutes(rg, db, cfg)
	SetupOrderRoutes(rg, db, cfg)
	SetupAdminRoutes(rg, db, redisClient, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	auth.Use(middleware.SessionCart())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
		}
	}
}

// SetupUserRoutes sets up routes for the signed-in user's profile
func SetupUserRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	profileHandler := handlers.NewUserProfileHandler(db, cfg)

	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(cfg))
	{
		users.GET("/me", profileHandler.GetProfile)
		users.PUT("/me", profileHandler.UpdateProfile)
		users.PUT("/me/address", profileHandler.UpdateAddress)
		users.PUT("/me/payment-method", profileHandler.UpdatePaymentMethod)
	}
}

// SetupProductRoutes sets up storefront catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	reviewHandler := handlers.NewReviewHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/latest", productHandler.GetLatest)
		products.GET("/featured", productHandler.GetFeatured)
		products.GET("/categories", productHandler.GetCategories)
		products.GET("/slug/:slug", productHandler.GetProductBySlug)
		products.GET("/:id/reviews", reviewHandler.GetProductReviews)

		protected := products.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/:id/reviews/me", reviewHandler.GetMyReview)
			protected.DELETE("/:id/reviews/me", reviewHandler.DeleteMyReview)
		}
	}

	reviews := rg.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(cfg))
	{
		reviews.POST("", reviewHandler.UpsertReview)
	}
}

// SetupCartRoutes sets up cart routes. Guests shop with the session
// cart cookie, so auth is optional here
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, cfg)

	carts := rg.Group("/cart")
	carts.Use(middleware.SessionCart())
	carts.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		carts.GET("", cartHandler.GetCart)
		carts.POST("/items", cartHandler.AddItem)
		carts.DELETE("/items", cartHandler.RemoveItem)
	}
}

// SetupOrderRoutes sets up order and payment routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, cfg)
	paymentHandler := handlers.NewPaymentHandler(db, cfg)
	invoiceHandler := handlers.NewInvoiceHandler(db, cfg)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.GetMyOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/invoice", invoiceHandler.DownloadInvoice)

		orders.POST("/:id/paypal", paymentHandler.CreatePayPalOrder)
		orders.POST("/:id/paypal/capture", paymentHandler.ApprovePayPalOrder)
	}
}

// SetupAdminRoutes sets up the admin dashboard routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg)
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(db, redisClient, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/overview", analyticsHandler.GetOrderSummary)

		admin.GET("/products/:id", productHandler.GetProduct)
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		admin.GET("/orders", orderHandler.GetAllOrders)
		admin.DELETE("/orders/:id", orderHandler.DeleteOrder)
		admin.PUT("/orders/:id/pay", orderHandler.MarkPaidCOD)
		admin.PUT("/orders/:id/deliver", orderHandler.MarkDelivered)

		admin.GET("/users", userAdminHandler.GetUsers)
		admin.PUT("/users/:id", userAdminHandler.UpdateUser)
		admin.DELETE("/users/:id", userAdminHandler.DeleteUser)
	}
}
