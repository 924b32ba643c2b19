package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/api/handler"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/chathub"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/config"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/localization"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/models"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/storage"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/telegram"
)

// setupStorage wires the optional Postgres archive and Redis flood control.
// Both are opt-in; without DATABASE_DSN the hub runs purely in memory.
func setupStorage() *storage.Service {
	dsn := os.Getenv("DATABASE_DSN")
	addr := os.Getenv("REDIS_ADDR")
	if dsn == "" && addr == "" {
		return nil
	}

	var db *gorm.DB
	if dsn != "" {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect PostgreSQL: %v", err)
		}
		if err := db.AutoMigrate(
			&models.ArchivedConversation{},
			&models.ArchivedMessage{},
		); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Transcript archive enabled.")
	}

	var rdb *redis.Client
	if addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		})
		log.Println("Flood control enabled.")
	}

	svc := storage.NewService(db, rdb)
	if db == nil {
		// Redis-only deployments still need a nil-safe archive path.
		log.Println("Warning: Redis configured without DATABASE_DSN, transcripts are discarded on removal.")
	}
	return svc
}

func main() {
	log.Println("Starting karate-club chat service...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set!")
	}
	adminUser := os.Getenv("ADMIN_USER")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminUser == "" || adminPassword == "" {
		log.Fatal("ADMIN_USER and ADMIN_PASSWORD are not set!")
	}

	lang := os.Getenv("CHAT_LANG")
	if lang == "" {
		lang = config.DefaultLang
	}

	localizer, err := localization.New()
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}

	hub := chathub.NewHub(chathub.NewMemoryStore(), localizer, lang)
	hub.Authorize = func(token string) error {
		_, err := handler.ValidateAdminToken([]byte(jwtSecret), token)
		return err
	}
	if svc := setupStorage(); svc != nil {
		hub.Storage = svc
	}

	if botToken := os.Getenv("TELEGRAM_BOT_TOKEN"); botToken != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_ADMIN_CHAT_ID"), 10, 64)
		if err != nil {
			log.Fatalf("TELEGRAM_ADMIN_CHAT_ID is missing or invalid: %v", err)
		}
		notifier, err := telegram.NewNotifier(botToken, chatID, hub, localizer, lang)
		if err != nil {
			log.Fatalf("Failed to start Telegram notifier: %v", err)
		}
		hub.Notifier = notifier
		go notifier.Run()
	}

	go hub.Run()

	r := gin.Default()
	h := handler.NewHandler(hub, []byte(jwtSecret), adminUser, adminPassword)

	r.POST("/auth/token", h.Login) // dashboard login, also gates the admin channel
	r.GET("/ws", h.ServeWebSocket) // widget channel (admin and visitor)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	server := &http.Server{
		Addr:           addr,
		Handler:        r,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
