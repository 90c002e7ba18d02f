package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/marina-keet/MiaTech-sub000/internal/handlers"
	"github.com/marina-keet/MiaTech-sub000/internal/middleware"
	jwtauth "github.com/marina-keet/MiaTech-sub000/pkg/auth"
)

func APIEndpoints(r *gin.Engine, jwtMgr *jwtauth.JWTManager, rdb *redis.Client,
	authH *handlers.AuthHandler, userH *handlers.UserHandler,
	projectH *handlers.ProjectHandler, chatH *handlers.ChatHandler) {

	// Auth endpoints
	auth := r.Group("/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.POST("/logout", middleware.AuthMiddleware(jwtMgr, rdb), authH.Logout)
	}

	// API endpoints
	api := r.Group("/api/v1", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.GET("/users/me", userH.GetMe)
		api.PUT("/users/me", userH.UpdateMe)
		api.POST("/projects", projectH.CreateProject)
		api.GET("/projects/:id", projectH.GetProject)
		api.POST("/projects/:id/team", projectH.AddTeamMember)
		api.GET("/rooms/:id/history", chatH.GetRoomHistory)
		api.GET("/presence", chatH.GetPresence)
	}

	// Websocket: аутентификация внутри соединения
	r.GET("/ws", chatH.HandleWebSocket)
}
