package main

import (
	"context"
	"log"
	"time"

	"exam-service/internal/catalog"
	"exam-service/internal/config"
	"exam-service/internal/db"
	"exam-service/internal/event"
	"exam-service/internal/handlers"
	"exam-service/internal/history"
	"exam-service/internal/selection"
	"exam-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()
	if cfg.Mongo.URI == "" {
		log.Fatal("MONGO_URI is required")
	}

	// Question catalog is parsed once at startup; a broken catalog is a
	// deployment error, not something to limp along without.
	loader := catalog.NewLoader(cfg.Catalog.Path)
	cat, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load question catalog: %v", err)
	}
	log.Printf("Loaded %d questions from %s", cat.Len(), cfg.Catalog.Path)

	client, err := db.Connect(context.Background(), cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	database := client.Database(cfg.Mongo.Database)

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.Rabbit.URI != "" && cfg.Rabbit.Exchange != "" {
		publisher, err = event.NewEventPublisher(cfg.Rabbit.URI, cfg.Rabbit.Exchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	attempts := history.NewMongoStore(database)
	engine := selection.NewEngine(cat, attempts, nil)
	examService := service.NewExamService(cat, attempts, attempts, engine)

	examHandler := handlers.NewExamHandler(examService)
	answerHandler := handlers.NewAnswerHandler(examService)
	statsHandler := handlers.NewStatsHandler(examService)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "X-User-ID", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	publicExam := r.Group("/public/exam")
	{
		publicExam.GET("/questions", func(c *gin.Context) {
			examHandler.SelectQuestions(c)
			if publisher != nil {
				publisher.Publish(event.QuestionsSelected, gin.H{
					"user_id": c.GetHeader("X-User-ID"),
					"mode":    c.Query("mode"),
					"topic":   c.Query("topic"),
				})
			}
		})
		publicExam.GET("/questions/:id", examHandler.GetQuestion)
		publicExam.GET("/topics", examHandler.ListTopics)
		publicExam.GET("/stats", statsHandler.GetGlobalStats)
		publicExam.GET("/users/:id/stats", func(c *gin.Context) {
			statsHandler.GetUserStats(c)
			if publisher != nil {
				publisher.Publish(event.StatsRequested, gin.H{"user_id": c.Param("id")})
			}
		})
	}

	protectedExam := r.Group("/protected/exam")
	{
		protectedExam.POST("/answers", func(c *gin.Context) {
			answerHandler.SubmitAnswer(c)
			if publisher != nil {
				publisher.Publish(event.AnswerRecorded, gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
	}

	r.Run(":" + cfg.Server.Port)
}
