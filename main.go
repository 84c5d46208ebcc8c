package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizproctor/config"
	"quizproctor/internal/constants"
	"quizproctor/internal/handlers"
	"quizproctor/internal/middleware"
	"quizproctor/internal/service"
	"quizproctor/internal/session"
	ws "quizproctor/internal/websocket"
	"quizproctor/pkg/cache"
	"quizproctor/pkg/database"
	"quizproctor/pkg/email"
	"quizproctor/pkg/messaging"
	"quizproctor/pkg/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	log.Println("Configuration loaded")

	pgClient, err := database.NewPostgresClient(&cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("Connected to PostgreSQL")
	defer pgClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgClient.InitSchema(ctx); err != nil {
		log.Printf("Warning: Failed to initialize PostgreSQL schema: %v", err)
	} else {
		log.Println("PostgreSQL schema initialized")
	}
	cancel()

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")
	defer redisClient.Close()

	rabbitClient, err := messaging.NewRabbitMQClient(&cfg.RabbitMQ)
	if err != nil {
		log.Printf("Warning: Failed to connect to RabbitMQ: %v", err)
		rabbitClient = nil
	} else {
		log.Println("Connected to RabbitMQ")
		defer rabbitClient.Close()
	}

	s3Client, err := storage.NewS3Client(&cfg.S3)
	if err != nil {
		log.Printf("Warning: Failed to connect to object storage: %v", err)
		s3Client = nil
	} else {
		log.Println("Connected to object storage")
		bucketCtx, bucketCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Client.CreateBucket(bucketCtx, cfg.S3.ReportsBucket); err != nil {
			log.Printf("Warning: Failed to ensure reports bucket: %v", err)
		}
		bucketCancel()
	}

	smtpClient := email.NewSMTPClient(&cfg.SMTP)

	db := pgClient.GetDB()

	authService := service.NewAuthService(redisClient, db, rabbitClient, cfg.JWT.Secret)
	userService := service.NewUserService(db)
	quizService := service.NewQuizService(db, rabbitClient)
	progressService := service.NewProgressService(db)
	gradingService := service.NewGradingService(db, rabbitClient, s3Client, cfg.S3.ReportsBucket)
	leaderboardService := service.NewLeaderboardService(db)
	analyticsService := service.NewAnalyticsService(db)
	notificationService := service.NewNotificationService(smtpClient)

	deadlineStore := session.NewRedisDeadlineStore(redisClient)
	defaultDuration := time.Duration(cfg.Quiz.DefaultDurationMinutes) * time.Minute

	hub := ws.NewHub(quizService, progressService, gradingService, deadlineStore, defaultDuration)
	go hub.Run()

	authHandler := handlers.NewAuthHandler(authService, userService)
	quizHandler := handlers.NewQuizHandler(quizService)
	progressHandler := handlers.NewProgressHandler(progressService)
	resultsHandler := handlers.NewResultsHandler(gradingService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	adminHandler := handlers.NewAdminHandler(quizService, userService, analyticsService, s3Client, cfg.S3.ReportsBucket)
	attemptHandler := handlers.NewAttemptHandler(hub, quizService, authService, cfg.JWT.Secret)

	if rabbitClient != nil {
		startConsumers(rabbitClient, notificationService)
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "quizproctor",
		})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/verify", authHandler.VerifyCode)
		authGroup.POST("/refresh", authHandler.RefreshToken)
	}

	authProtected := router.Group("/auth")
	authProtected.Use(middleware.JWTAuth(authService, cfg.JWT.Secret))
	{
		authProtected.POST("/logout", authHandler.Logout)
	}

	usersGroup := router.Group("/users")
	usersGroup.Use(middleware.JWTAuth(authService, cfg.JWT.Secret))
	{
		usersGroup.GET("/me", authHandler.GetProfile)
		usersGroup.PUT("/me", authHandler.UpdateProfile)
	}

	quizzesGroup := router.Group("/quizzes")
	quizzesGroup.Use(middleware.JWTAuth(authService, cfg.JWT.Secret))
	{
		quizzesGroup.GET("", quizHandler.GetQuizzes)
		quizzesGroup.GET("/topics", quizHandler.GetTopics)
		quizzesGroup.GET("/:topic/:difficulty", quizHandler.GetQuiz)
	}

	progressGroup := router.Group("/progress")
	progressGroup.Use(middleware.JWTAuth(authService, cfg.JWT.Secret))
	{
		progressGroup.GET("", progressHandler.GetProgress)
		progressGroup.POST("", progressHandler.SaveProgress)
		progressGroup.DELETE("", progressHandler.DeleteProgress)
	}

	resultsGroup := router.Group("/results")
	resultsGroup.Use(middleware.JWTAuth(authService, cfg.JWT.Secret))
	{
		resultsGroup.GET("/:quiz_id", resultsHandler.GetResult)
		resultsGroup.GET("", resultsHandler.GetSubmissions)
	}

	leaderboardGroup := router.Group("/leaderboard")
	leaderboardGroup.Use(middleware.JWTAuth(authService, cfg.JWT.Secret))
	{
		leaderboardGroup.GET("", leaderboardHandler.GetLeaderboard)
	}

	adminGroup := router.Group("/admin")
	adminGroup.Use(middleware.JWTAuth(authService, cfg.JWT.Secret), middleware.AdminOnly())
	{
		adminGroup.POST("/quizzes", adminHandler.CreateQuiz)
		adminGroup.PATCH("/quizzes/:quiz_id/active", adminHandler.SetQuizActive)
		adminGroup.GET("/users", adminHandler.GetUsers)
		adminGroup.GET("/analytics", adminHandler.GetAnalytics)
		adminGroup.GET("/analytics/topics", adminHandler.GetPopularTopics)
		adminGroup.GET("/analytics/questions", adminHandler.GetQuestionAccuracy)
		adminGroup.GET("/reports/:user_id/:submission_id", adminHandler.DownloadReport)
	}

	router.GET("/ws/attempt", attemptHandler.HandleAttempt)

	addr := ":" + cfg.Server.HTTPPort
	log.Printf("QuizProctor starting on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("QuizProctor stopped")
}

func startConsumers(rabbitClient *messaging.RabbitMQClient, notificationService *service.NotificationService) {
	ctx := context.Background()

	go consumeQueue(ctx, rabbitClient, constants.QueueSendAuthCode, notificationService.HandleSendAuthCode)
	go consumeQueue(ctx, rabbitClient, constants.QueueQuizCreated, notificationService.HandleQuizCreated)
	go consumeQueue(ctx, rabbitClient, constants.QueueQuizSubmitted, notificationService.HandleQuizSubmitted)

	log.Println("All RabbitMQ consumers started")
}

func consumeQueue(ctx context.Context, rabbitClient *messaging.RabbitMQClient, queueName string, handler func(context.Context, []byte) error) {
	msgs, err := rabbitClient.Consume(queueName)
	if err != nil {
		log.Printf("Failed to start consumer for queue %s: %v", queueName, err)
		return
	}

	log.Printf("Started consumer for queue: %s", queueName)

	for msg := range msgs {
		if err := handler(ctx, msg.Body); err != nil {
			log.Printf("Error handling message from %s: %v", queueName, err)
			msg.Nack(false, true)
		} else {
			msg.Ack(false)
		}
	}
}
