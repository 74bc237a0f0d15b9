package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/example/shopweve/internal/config"
	"github.com/example/shopweve/internal/handlers"
	"github.com/example/shopweve/internal/middleware"
	"github.com/example/shopweve/internal/services"
	"github.com/example/shopweve/internal/store"
	"github.com/example/shopweve/internal/token"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	users := store.NewUserStore(db)
	razorpayService := services.NewRazorpayService(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	imagekitService := services.NewImageKitService(cfg.ImageKitPublicKey, cfg.ImageKitPrivateKey, cfg.ImageKitURLEndpoint)

	authHandler := handlers.NewAuthHandler(users, tokens, cfg)
	profileHandler := handlers.NewProfileHandler(users)
	cartHandler := handlers.NewCartHandler(users)
	productHandler := handlers.NewProductHandler(db, rdb)
	orderHandler := handlers.NewOrderHandler(db)
	adminHandler := handlers.NewAdminHandler(db)
	paymentHandler := handlers.NewPaymentHandler(razorpayService)
	uploadHandler := handlers.NewUploadHandler(imagekitService)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh-token", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	// Catalog routes, cached reads and admin-only writes
	products := api.Group("/products")
	products.Get("/", middleware.ResponseCache(rdb, cfg.ProductCacheTTL), productHandler.ListProducts)
	products.Get("/:idOrSlug", middleware.ResponseCache(rdb, cfg.ProductCacheTTL), productHandler.GetProduct)
	products.Post("/", middleware.AuthMiddleware(tokens), middleware.RequireAdmin(), productHandler.CreateProduct)
	products.Put("/:id", middleware.AuthMiddleware(tokens), middleware.RequireAdmin(), productHandler.UpdateProduct)
	products.Delete("/:id", middleware.AuthMiddleware(tokens), middleware.RequireAdmin(), productHandler.DeleteProduct)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(tokens))

	// Profile and address book, keyed by phone and owner-guarded
	profile := protected.Group("/profile/:phone", middleware.RequireOwnerPhone())
	profile.Get("/", profileHandler.GetProfile)
	profile.Put("/", profileHandler.UpdateProfile)
	profile.Get("/addresses", profileHandler.ListAddresses)
	profile.Post("/addresses", profileHandler.AddAddress)
	profile.Patch("/addresses/:addressId/default", profileHandler.SetDefaultAddress)
	profile.Put("/addresses/:addressId", profileHandler.UpdateAddress)
	profile.Delete("/addresses/:addressId", profileHandler.DeleteAddress)

	// Cart and wishlist
	cart := protected.Group("/cart/:phone", middleware.RequireOwnerPhone())
	cart.Post("/", cartHandler.UpdateCart)
	cart.Delete("/:productId", cartHandler.RemoveFromCart)

	wishlist := protected.Group("/wishlist/:phone", middleware.RequireOwnerPhone())
	wishlist.Post("/", cartHandler.AddToWishlist)
	wishlist.Delete("/:productId", cartHandler.RemoveFromWishlist)

	// Orders; the /user/:userId route must precede /:id
	orders := protected.Group("/orders")
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/user/:userId", orderHandler.ListUserOrders)
	orders.Get("/", middleware.RequireAdmin(), orderHandler.ListAllOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Patch("/:id/status", middleware.RequireAdmin(), orderHandler.UpdateStatus)

	// Admin dashboard
	admin := protected.Group("/users", middleware.RequireAdmin())
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/new", adminHandler.ListNewUsers)
	admin.Get("/", adminHandler.ListAllUsers)

	// Payments
	razorpay := protected.Group("/razorpay")
	razorpay.Post("/order", paymentHandler.CreatePaymentOrder)
	razorpay.Post("/verify", paymentHandler.VerifyPayment)

	// Image uploads
	protected.Get("/imagekit/auth", uploadHandler.AuthParams)
}
