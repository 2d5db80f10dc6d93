package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nutrition-tracker-system/handlers"
	"nutrition-tracker-system/models"
	"nutrition-tracker-system/services"
	"nutrition-tracker-system/utils"
	"nutrition-tracker-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — meal photos
	})

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.FoodLogEntry{},
		&models.StreakState{},
		&models.UnlockedAchievement{},
		&models.AchievementNotification{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	// R2 is optional — without it, meal photos land in ./uploads
	if os.Getenv("CLOUDFLARE_ACCOUNT_ID") != "" {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		log.Println("✅ R2 photo storage initialized")
	} else {
		log.Println("⚠️  CLOUDFLARE_ACCOUNT_ID not set — storing meal photos locally")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Println("⚠️  JWT_SECRET not set — using insecure development secret")
		jwtSecret = "dev-secret-change-me"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Vision classifier is optional — without it, analysis answers the
	// low-confidence fallback estimate
	var classifier services.Classifier
	if os.Getenv("GOOGLE_PROJECT_ID") != "" {
		gemini, err := services.NewGeminiClassifier(ctx)
		if err != nil {
			log.Printf("⚠️  Vision classifier unavailable: %v", err)
		} else {
			classifier = gemini
			defer gemini.Close()
			log.Println("✅ Gemini vision classifier initialized")
		}
	} else {
		log.Println("⚠️  GOOGLE_PROJECT_ID not set — food analysis will use fallback estimates")
	}

	authService := services.NewAuthService(db, jwtSecret)
	profileService := services.NewProfileService(db)
	streakService := services.NewStreakService(db)
	achievementService := services.NewAchievementService(db)
	analyticsService := services.NewAnalyticsService(db)
	logService := services.NewFoodLogService(db, streakService, achievementService, classifier)

	// Notification delivery is optional — unlocks still land in the outbox
	// either way
	if os.Getenv("NOTIFY_SERVICE_URL") != "" {
		notifier := workers.NewAchievementNotifier(db)
		go workers.PollNotifications(ctx, notifier, 15*time.Second)
		log.Println("✅ Achievement notification delivery running (every 15s)")
	} else {
		log.Println("⚠️  NOTIFY_SERVICE_URL not set — achievement notifications stay queued")
	}

	streakService.StartIntegritySweep()

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupProfileRoutes(app, profileService, authService)
	handlers.SetupNutritionRoutes(app, logService, authService)
	handlers.SetupGamificationRoutes(app, streakService, achievementService, authService)
	handlers.SetupAnalyticsRoutes(app, analyticsService, authService)

	app.Static("/uploads", "./uploads")

	app.Get("/api", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "NutriTrack API - Your Personal Nutrition Assistant"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Streak integrity sweep running (every 1h)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
