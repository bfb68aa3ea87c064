package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/brritto/internal/apiclient"
	"github.com/example/brritto/internal/config"
	"github.com/example/brritto/internal/handlers"
	"github.com/example/brritto/internal/middleware"
	"github.com/example/brritto/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, cfg *config.Config, log *zap.SugaredLogger) {
	api := apiclient.New(cfg.APIBaseURL)

	authService := services.NewAuthService(api, log)
	studentService := services.NewStudentService(api, log)
	courseService := services.NewCourseService(api, log)
	paymentService := services.NewPaymentService(api, log)
	blogService := services.NewBlogService(cfg.BlogAPIURL, cfg.BlogAPIKey, log)
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat, log)

	authHandler := handlers.NewAuthHandler(cfg, authService, studentService, log)
	catalogHandler := handlers.NewCatalogHandler(cfg, courseService, studentService)
	blogHandler := handlers.NewBlogHandler(blogService)
	paymentHandler := handlers.NewPaymentHandler(cfg, paymentService)
	contactHandler := handlers.NewContactHandler(telegramService, log)

	app.Use(middleware.RequestID())
	app.Use(middleware.RouteGuard(cfg))

	apiGroup := app.Group("/api")

	// Auth wizard
	auth := apiGroup.Group("/auth")
	auth.Get("/flow", authHandler.GetFlow)
	auth.Post("/phone", authHandler.SubmitPhone)
	auth.Post("/otp", authHandler.SubmitOtp)
	auth.Post("/resend", authHandler.ResendOtp)
	auth.Post("/back", authHandler.Back)
	auth.Post("/registration", authHandler.SubmitRegistration)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/session", authHandler.GetSession)
	auth.Post("/refresh", authHandler.RefreshSession)
	auth.Get("/profile", authHandler.GetProfile)

	// Public catalog
	apiGroup.Get("/classes", catalogHandler.ListClasses)
	apiGroup.Get("/courses", catalogHandler.ListCourses)
	apiGroup.Get("/courses/:id", catalogHandler.GetCourse)

	// Registration form lookups (authenticated)
	apiGroup.Get("/institutions", catalogHandler.SearchInstitutions)
	apiGroup.Get("/districts", catalogHandler.SearchDistricts)
	apiGroup.Get("/classes/options", catalogHandler.ListClassOptions)

	// Blog
	blog := apiGroup.Group("/blog")
	blog.Get("/posts", blogHandler.ListPosts)
	blog.Get("/posts/recent", blogHandler.ListRecentPosts)
	blog.Get("/posts/:slug", blogHandler.GetPost)
	blog.Get("/categories", blogHandler.ListCategories)
	blog.Get("/categories/:slug/posts", blogHandler.ListPostsByCategory)
	blog.Get("/tags/:slug/posts", blogHandler.ListPostsByTag)

	// Payments
	apiGroup.Post("/checkout/:courseId", paymentHandler.Checkout)
	apiGroup.Get("/payments/history", paymentHandler.History)

	// Contact
	apiGroup.Get("/contact", contactHandler.GetInfo)
	apiGroup.Post("/contact", contactHandler.Submit)
}
