package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/talentlink-app/talentlink_be/internal/config"
	"github.com/talentlink-app/talentlink_be/internal/db"
	"github.com/talentlink-app/talentlink_be/internal/handlers"
	"github.com/talentlink-app/talentlink_be/internal/middleware"
	"github.com/talentlink-app/talentlink_be/internal/models"
	"github.com/talentlink-app/talentlink_be/internal/realtime"
	"github.com/talentlink-app/talentlink_be/internal/repository"
	"github.com/talentlink-app/talentlink_be/internal/services/admin"
	"github.com/talentlink-app/talentlink_be/internal/services/code"
	"github.com/talentlink-app/talentlink_be/internal/services/match"
	"github.com/talentlink-app/talentlink_be/internal/services/notification"
	"github.com/talentlink-app/talentlink_be/internal/services/token"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Expert{},
		&models.Recruiter{},
		&models.Administrator{},
		&models.Skill{},
		&models.Interest{},
		&models.Match{},
		&models.Notification{},
		&models.Code{},
		&models.Conversation{},
		&models.Message{},
	); err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis not reachable:", err)
	}

	hub := realtime.NewHub()
	go hub.Run()
	notifier := realtime.NewNotifier(hub, rdb)

	repos := repository.NewRepositories(gdb)

	tokenSvc := token.NewService(repos.User, token.Options{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		AccessTTL:  time.Duration(cfg.AccessTokenMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.RefreshTokenDay) * 24 * time.Hour,
	})
	codeSvc := code.NewService(repos.Code)
	matchSvc := match.NewService(repos.Match, repos.Notification, notifier)
	notifSvc := notification.NewService(repos.Notification, repos.User, notifier)
	adminSvc := admin.NewService(repos.User)

	authH := &handlers.AuthHandler{
		Users:           repos.User,
		Tokens:          tokenSvc,
		Codes:           codeSvc,
		AccessTokenMin:  cfg.AccessTokenMin,
		RefreshTokenDay: cfg.RefreshTokenDay,
	}
	googleH := &handlers.GoogleOAuthHandler{
		Users:           repos.User,
		Tokens:          tokenSvc,
		Auth:            authH,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	matchH := handlers.NewMatchHandler(matchSvc)
	notifH := handlers.NewNotificationHandler(notifSvc)
	chatH := handlers.NewChatHandler(repos.Chat, notifSvc, notifier, hub, cfg.JWTSecret)
	adminH := handlers.NewAdminHandler(adminSvc)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/admin/login", authH.AdminLogin)
	api.Post("/auth/logout", authH.Logout)
	api.Post("/auth/refresh", authH.Refresh)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	// protected
	protected := api.Group("/",
		middleware.Authenticate(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/me", authH.Me)
	protected.Post("/auth/confirm-email", authH.ConfirmEmail)
	protected.Post("/auth/confirm-email/resend", authH.ResendConfirmation)

	protected.Post("/matches", matchH.Create)
	protected.Get("/matches/pending/expert",
		middleware.RequireRoles(string(models.RoleExpert)),
		matchH.PendingAsExpert,
	)
	protected.Get("/matches/pending/recruiter",
		middleware.RequireRoles(string(models.RoleRecruiter)),
		matchH.PendingAsRecruiter,
	)
	protected.Patch("/matches/:id/respond", matchH.Respond)
	protected.Patch("/matches/:id/complete", matchH.Complete)

	protected.Get("/notifications", notifH.List)
	protected.Patch("/notifications/:id/read", notifH.MarkAsRead)
	protected.Delete("/notifications/:id", notifH.Delete)

	chat := protected.Group("/chat")
	chat.Post("/conversations", chatH.CreateOrGetConversation)
	chat.Get("/conversations", chatH.GetConversations)
	chat.Get("/conversations/unread", chatH.GetUnreadTotal)
	chat.Get("/conversations/:id/messages", chatH.GetMessages)
	chat.Post("/conversations/:id/messages", chatH.SendMessage)
	chat.Patch("/conversations/:id/read", chatH.MarkAsRead)

	// admin only
	adminGroup := protected.Group("/admin",
		middleware.RequireRoles(string(models.RoleAdministrator)))
	adminGroup.Get("/matches", matchH.Latest)
	adminGroup.Get("/matches/completed/count", matchH.CompletedCount)
	adminGroup.Get("/users", adminH.LatestUsers)
	adminGroup.Get("/users/active/count", adminH.ActiveUsersCount)
	adminGroup.Get("/users/banned", adminH.LastBannedUsers)
	adminGroup.Patch("/users/:id/ban", adminH.BanUser)
	adminGroup.Patch("/users/:id/unban", adminH.UnbanUser)
	adminGroup.Post("/administrators", adminH.CreateAdmin)

	// websocket: token arrives as query param, validated inside the handler
	app.Get("/ws", websocket.New(chatH.WebSocketHandler))

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
