package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/marina-keet/MiaTech-sub000/internal/chat"
	"github.com/marina-keet/MiaTech-sub000/internal/database"
	"github.com/marina-keet/MiaTech-sub000/internal/handlers"
	"github.com/marina-keet/MiaTech-sub000/internal/services"
	"github.com/marina-keet/MiaTech-sub000/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *chat.Hub
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			logrus.Info(".env not found, using environment variables")
		}
	}

	dbConn, err := database.Connect()
	if err != nil {
		logrus.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		logrus.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
	)

	identitySvc := services.NewIdentityService(jwtMgr, rdb, dbConn)
	projectSvc := services.NewProjectService(dbConn)
	hub := chat.NewHub(identitySvc, chat.NewAccessPolicy(projectSvc))

	authH := handlers.NewAuthHandler(dbConn, jwtMgr, rdb)
	userH := handlers.NewUserHandler(dbConn)
	projectH := handlers.NewProjectHandler(dbConn)
	chatH := handlers.NewChatHandler(hub, dbConn)

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, authH, userH, projectH, chatH)

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
	}
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logrus.Infof("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		logrus.Fatalf("Server run error: %v", err)
	}
}
