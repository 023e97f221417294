package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Mirzamurod/flowers-backend/config"
	"github.com/Mirzamurod/flowers-backend/database"
	"github.com/Mirzamurod/flowers-backend/internal/bot"
	"github.com/Mirzamurod/flowers-backend/internal/handler"
	"github.com/Mirzamurod/flowers-backend/internal/helper"
	customMiddleware "github.com/Mirzamurod/flowers-backend/internal/middleware"
	"github.com/Mirzamurod/flowers-backend/internal/service"
	"github.com/Mirzamurod/flowers-backend/internal/ws"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

func main() {

	// Load .env (ignore the error when the file is absent, e.g. in production)
	_ = godotenv.Load()

	appDbURL := os.Getenv("APP_DATABASE_URL")
	if appDbURL == "" {
		log.Fatal("APP_DATABASE_URL is not set")
	}
	database.InitAppDB(appDbURL)

	config.WebAppBaseURL = os.Getenv("WEBAPP_BASE_URL")
	if config.WebAppBaseURL == "" {
		log.Fatal("WEBAPP_BASE_URL is not set")
	}
	config.WebAppBaseURL = strings.TrimSuffix(config.WebAppBaseURL, "/")

	config.ImageBaseURL = os.Getenv("IMAGE_BASE_URL")
	if config.ImageBaseURL != "" && !strings.HasSuffix(config.ImageBaseURL, "/") {
		config.ImageBaseURL += "/"
	}

	config.BotReconcileSeconds = helper.GetEnvAsInt("BOT_RECONCILE_SECONDS", 10)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Println("JWT_SECRET is not set")
	}
	service.InitAuthConfig(jwtSecret)

	runCreateSchema := false
	if len(os.Args) > 1 && os.Args[1] == "--createschema" {
		runCreateSchema = true
	}
	if runCreateSchema { // create/ensure schema first
		helper.InitCustomSchema()
	}

	if err := os.MkdirAll("./images", 0o755); err != nil {
		log.Fatalf("failed to create images directory: %v", err)
	}

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Bot manager: keeps one Telegram session per vendor credential.
	registry := bot.NewRegistry()
	reconciler := &bot.Reconciler{
		Store:     &bot.PGStore{DB: database.AppDB},
		Registry:  registry,
		Transport: bot.TelegramTransport{},
		Handler:   &bot.Handler{WebAppBaseURL: config.WebAppBaseURL},
		Interval:  time.Duration(config.BotReconcileSeconds) * time.Second,
		Realtime:  hub,
	}
	go reconciler.Run(context.Background())

	// Setup Echo
	e := echo.New()
	e.Use(middleware.Recover())

	originsEnv := os.Getenv("CORS_ALLOW_ORIGINS")
	if originsEnv == "" {
		log.Println("CORS_ALLOW_ORIGINS is not set")
	}
	allowOrigins := strings.Split(originsEnv, ",")
	for i, o := range allowOrigins {
		allowOrigins[i] = strings.TrimSpace(o)
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{
			echo.GET,
			echo.POST,
			echo.PUT,
			echo.PATCH,
			echo.DELETE,
			echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderXRequestedWith,
			echo.HeaderAuthorization,
		},
		AllowCredentials: true,
	}))
	e.OPTIONS("/*", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// Rate limiter configuration from env
	rateLimit := helper.GetEnvAsInt("RATE_LIMIT_PER_SECOND", 10)
	rateBurst := helper.GetEnvAsInt("RATE_LIMIT_BURST", 10)
	rateWindow := helper.GetEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 3)

	e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(rateLimit),
				Burst:     rateBurst,
				ExpiresIn: time.Duration(rateWindow) * time.Minute,
			},
		),
	}))

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		message := "Internal Server Error"

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			message = fmt.Sprintf("%v", he.Message)
		}
		response := map[string]interface{}{
			"success": false,
			"error":   message,
		}
		switch code {
		case http.StatusUnauthorized:
			response["message"] = "Authentication required. Please login first."
		case http.StatusMethodNotAllowed:
			response["message"] = "Method not allowed for this endpoint"
		case http.StatusNotFound:
			response["message"] = "Endpoint not found"
		}

		c.JSON(code, response)
	}

	// =====================================================
	// PUBLIC ROUTES (No authentication required)
	// =====================================================

	e.POST("/register", handler.Register)
	e.POST("/login", handler.LoginUser)
	e.POST("/refresh", handler.RefreshToken)

	// Customer web-app catalog and checkout
	e.GET("/bouquets/public/:userId", handler.ListPublicBouquets)
	e.GET("/flowers/public/:userId", handler.ListPublicFlowers)
	e.POST("/orders/:userId", handler.CreateOrderHandler(hub))

	// Stored catalog images
	e.Static("/images", "./images")

	// WebSocket and health check
	e.GET("/ws", handler.WebSocketHandler(hub))
	e.GET("/", func(c echo.Context) error { // Health check
		return c.JSON(200, map[string]interface{}{
			"success": true,
			"message": "Flowers API is running",
			"version": "1.0.0",
		})
	})

	// Routes below require a JWT
	api := e.Group("/api", customMiddleware.JWTAuthMiddleware())

	// =====================================================
	// USER PROFILE ROUTES (JWT required)
	// =====================================================
	api.GET("/me", handler.GetCurrentUser)
	api.PUT("/me", handler.UpdateCurrentUser)
	api.PUT("/me/password", handler.ChangePassword)
	api.POST("/logout", handler.LogoutUser)

	// =====================================================
	// ADMIN ROUTES
	// =====================================================
	api.GET("/users", handler.ListUsers, customMiddleware.RequireAdmin)
	api.PATCH("/users/block/:id", handler.BlockUser, customMiddleware.RequireAdmin)

	// =====================================================
	// CATALOG ROUTES (JWT required)
	// =====================================================
	api.GET("/category", handler.ListCategories)
	api.POST("/category", handler.AddCategory)
	api.GET("/category/:id", handler.GetCategory)
	api.PUT("/category/:id", handler.EditCategory)
	api.DELETE("/category/:id", handler.DeleteCategory)

	api.GET("/bouquets", handler.ListBouquets)
	api.POST("/bouquets", handler.AddBouquet)
	api.GET("/bouquets/:id", handler.GetBouquet)
	api.PUT("/bouquets/:id", handler.EditBouquet)
	api.PATCH("/bouquets/block/:id", handler.BlockBouquet)
	api.DELETE("/bouquets/:id", handler.DeleteBouquet)

	api.GET("/flowers", handler.ListFlowers)
	api.POST("/flowers", handler.AddFlower)
	api.GET("/flowers/:id", handler.GetFlower)
	api.PUT("/flowers/:id", handler.EditFlower)
	api.PATCH("/flowers/block/:id", handler.BlockFlower)
	api.DELETE("/flowers/:id", handler.DeleteFlower)

	// =====================================================
	// ORDER ROUTES (JWT required)
	// =====================================================
	// Specific route must come before the parameterized one
	api.GET("/orders/export", handler.ExportOrders)
	api.GET("/orders", handler.ListOrders)
	api.PATCH("/orders/:id", handler.UpdateOrderStatus)
	api.DELETE("/orders/:id", handler.DeleteOrder)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	log.Printf("Server starting on port %s, webAppBaseURL=%s", port, config.WebAppBaseURL)

	// bind to every interface, not only 127.0.0.1
	log.Fatal(e.Start(":" + port))

}
