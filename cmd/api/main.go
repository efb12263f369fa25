package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/samsil2/Real-Time-Chat-App/internal/config"
	"github.com/samsil2/Real-Time-Chat-App/internal/database"
	"github.com/samsil2/Real-Time-Chat-App/internal/http/handlers"
	"github.com/samsil2/Real-Time-Chat-App/internal/http/middleware"
	"github.com/samsil2/Real-Time-Chat-App/internal/media"
	"github.com/samsil2/Real-Time-Chat-App/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if cfg.DBDSN == "" || cfg.JWTSecret == "" {
		slog.Error("DB_DSN and JWT_SECRET must be set")
		os.Exit(1)
	}

	db, err := database.ConnectMySQL(cfg.DBDSN)
	if err != nil {
		slog.Error("connect db", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migrate", "error", err)
		os.Exit(1)
	}

	uploader, err := media.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		slog.Error("init cloudinary", "error", err)
		os.Exit(1)
	}

	hub := ws.NewHub()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	authH := &handlers.AuthHandler{DB: db, JWTSecret: cfg.JWTSecret, Uploader: uploader}
	r.POST("/api/auth/signup", authH.Signup)
	r.POST("/api/auth/login", authH.Login)
	r.POST("/api/auth/logout", authH.Logout)

	wsH := &handlers.WSHandler{Hub: hub, WSInsecureSkipVerify: cfg.WSInsecureSkipVerify}
	r.GET("/ws", wsH.Handle)

	authed := r.Group("/api")
	authed.Use(middleware.AuthMiddleware(db, cfg.JWTSecret))

	authed.PUT("/auth/update-profile", authH.UpdateProfile)
	authed.GET("/auth/check", authH.Check)

	msgH := &handlers.MessageHandler{DB: db, Hub: hub, Uploader: uploader}
	authed.GET("/messages/users", msgH.ListUsers)
	authed.GET("/messages/:id", msgH.ListMessages)
	authed.POST("/messages/:id", msgH.SendMessage)

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("listening", "addr", addr)
	if err := r.Run(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
