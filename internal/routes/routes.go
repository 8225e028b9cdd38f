package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/achievepack/internal/cart"
	"github.com/example/achievepack/internal/config"
	"github.com/example/achievepack/internal/handlers"
	"github.com/example/achievepack/internal/middleware"
	"github.com/example/achievepack/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cartStore *cart.Store, cfg *config.Config) {
	mailer := services.NewEmailService(cfg.BrevoAPIKey, cfg.SenderEmail, cfg.SenderName, cfg.AdminEmail)
	gateway := services.NewStripeService(cfg.StripeSecretKey, cfg.BaseURL)
	repo := services.NewGormOrderRepository(db)
	checkoutService := services.NewCheckoutService(repo, gateway, mailer)
	confirmationService := services.NewConfirmationService(repo)

	authHandler := handlers.NewAuthHandler(db, cfg)
	passwordResetHandler := handlers.NewPasswordResetHandler(db, cfg, mailer)
	productHandler := handlers.NewProductHandler(db)
	cartHandler := handlers.NewCartHandler(cartStore)
	checkoutHandler := handlers.NewCheckoutHandler(db, checkoutService, cartStore)
	confirmationHandler := handlers.NewConfirmationHandler(db, confirmationService, cartStore)
	orderHandler := handlers.NewOrderHandler(db)
	quoteHandler := handlers.NewQuoteHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	auth.Post("/forgot-password", passwordResetHandler.ForgotPassword)
	auth.Post("/reset-password", passwordResetHandler.ResetPassword)

	// Store catalog
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:slug", productHandler.GetProduct)
	products.Post("/", middleware.AuthMiddleware(cfg), productHandler.CreateProduct)
	products.Put("/:slug", middleware.AuthMiddleware(cfg), productHandler.UpdateProduct)
	products.Delete("/:slug", middleware.AuthMiddleware(cfg), productHandler.DeleteProduct)

	// Session cart (anonymous visitors allowed)
	cartGroup := api.Group("/cart", middleware.SessionMiddleware())
	cartGroup.Get("/", cartHandler.GetCart)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:id", cartHandler.UpdateItem)
	cartGroup.Delete("/items/:id", cartHandler.RemoveItem)
	cartGroup.Post("/clear", cartHandler.ClearCart)
	cartGroup.Put("/mode", cartHandler.SetMode)
	cartGroup.Put("/close", cartHandler.CloseCart)

	// Checkout: purchases require a signed-in user, quote requests do not.
	api.Post("/checkout", middleware.SessionMiddleware(), middleware.AuthMiddleware(cfg), checkoutHandler.SubmitCart)
	api.Post("/rfq", middleware.SessionMiddleware(), middleware.OptionalAuthMiddleware(cfg), checkoutHandler.SubmitRFQ)

	// Gateway return / confirmation pages
	api.Get("/checkout/confirmation", middleware.SessionMiddleware(), confirmationHandler.OrderConfirmation)
	api.Get("/rfq/confirmation", confirmationHandler.RFQConfirmation)

	// Customer order history
	protected := api.Group("", middleware.AuthMiddleware(cfg))
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:number", orderHandler.GetOrder)

	// Back office
	protected.Get("/quotes", quoteHandler.ListQuotes)
	protected.Get("/admin/stats", adminHandler.DashboardStats)
}
