package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/gigflow/gigflow_be/internal/config"
	"github.com/gigflow/gigflow_be/internal/db"
	"github.com/gigflow/gigflow_be/internal/handlers"
	"github.com/gigflow/gigflow_be/internal/middleware"
	"github.com/gigflow/gigflow_be/internal/models"
	"github.com/gigflow/gigflow_be/internal/realtime"
	"github.com/gigflow/gigflow_be/internal/services/bids"
	"github.com/gigflow/gigflow_be/internal/services/gigs"
	"github.com/gigflow/gigflow_be/internal/services/notify"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Println("Redis not reachable, cross-instance notifications disabled:", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	bridge := realtime.NewBridge(rdb, hub)
	go bridge.Run(context.Background())

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Gig{},
		&models.Bid{},
		&models.Notification{},
	); err != nil {
		log.Fatal(err)
	}

	gigSvc := gigs.NewService(gdb)
	bidSvc := bids.NewService(gdb, gigSvc)
	notifySvc := notify.NewService(gdb, bridge)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	gigH := handlers.NewGigHandler(gigSvc)
	bidH := handlers.NewBidHandler(gdb, bidSvc, notifySvc)
	notifH := handlers.NewNotificationHandler(gdb, hub)
	adminH := handlers.NewAdminHandler(gdb)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)
	api.Get("/gigs", gigH.ListPublic)

	// protected (JWT cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachPrincipal(gdb),
	)

	protected.Get("/auth/me", authH.Me)

	protected.Post("/gigs", gigH.Create)
	protected.Get("/gigs/my-gigs", gigH.ListMine)

	protected.Post("/bids", bidH.Create)
	protected.Get("/bids/my/bids", bidH.ListMine)
	protected.Get("/bids/:gigId", bidH.ListForGig)
	protected.Patch("/bids/:bidId/hire", bidH.Hire)

	protected.Get("/notifications", notifH.List)
	protected.Patch("/notifications/:id/read", notifH.MarkRead)

	admin := protected.Group("/admin", middleware.RequireRoles("admin"))
	admin.Get("/users", adminH.ListUsers)
	admin.Patch("/users/:id/active", adminH.SetUserActive)

	// WebSocket endpoint (auth via query param)
	app.Get("/ws/notifications", websocket.New(notifH.WebSocketHandler))

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
