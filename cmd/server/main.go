package main

import (
	"fmt"
	"log"
	"net/http"

	"mafia/backend/internal/auth"
	"mafia/backend/internal/config"
	"mafia/backend/internal/database"
	"mafia/backend/internal/game"
	"mafia/backend/internal/handler"
	"mafia/backend/internal/hub"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "mafia/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Mafia API
// @version         1.0
// @description     This is the API for the Mafia game service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	db := database.Connect(config.AppConfig.DatabaseURL)

	eventHub := hub.NewHub()
	service := game.NewService(db, eventHub)

	userHandler := handler.NewUserHandler(db)
	roomHandler := handler.NewRoomHandler(service)
	gameHandler := handler.NewGameHandler(service)
	wsHandler := handler.NewWSHandler(eventHub)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", userHandler.Register)
			authRoutes.POST("/login", userHandler.Login)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", userHandler.GetMe)
		}

		// Sharing the join code only needs a valid code, not a login.
		apiV1.GET("/join/:code/qr", auth.OptionalAuthMiddleware(), roomHandler.RoomQR)

		// Room routes (protected)
		roomRoutes := apiV1.Group("/rooms")
		roomRoutes.Use(auth.AuthMiddleware())
		{
			roomRoutes.GET("", roomHandler.ListRooms)
			roomRoutes.POST("/join", roomHandler.JoinRoom)
			roomRoutes.POST("/reconnect", roomHandler.Reconnect)

			roomRoutes.POST("/:id/start", gameHandler.StartGame)
			roomRoutes.POST("/:id/stage", gameHandler.AdvanceStage)
			roomRoutes.POST("/:id/status", gameHandler.EvaluateStatus)
			roomRoutes.GET("/:id/players", gameHandler.PlayerStatuses)
			roomRoutes.GET("/:id/players/public", gameHandler.PlayerStatusesPublic)

			roomRoutes.POST("/:id/votes/mafia", gameHandler.MafiaVote)
			roomRoutes.POST("/:id/votes/doctor", gameHandler.DoctorVote)
			roomRoutes.POST("/:id/votes/seductress", gameHandler.SeductressVote)
			roomRoutes.POST("/:id/votes/investigator", gameHandler.InvestigatorVote)
			roomRoutes.POST("/:id/votes/day", gameHandler.DayVote)
		}

		// Room administration (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminRoutes.POST("/rooms", roomHandler.CreateRoom)
			adminRoutes.PUT("/rooms/players/:playerID/disable", roomHandler.DisablePlayer)
		}

		// Realtime events (protected)
		apiV1.GET("/ws", auth.AuthMiddleware(), wsHandler.Connect)
	}

	fmt.Println("Server is running on " + config.AppConfig.ServerAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}
