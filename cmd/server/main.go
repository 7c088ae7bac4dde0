package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"symptom-check-bot/internal/conversation"
	"symptom-check-bot/internal/diagnosis"
	"symptom-check-bot/internal/llm"
	"symptom-check-bot/internal/platform/whatsapp"
	"symptom-check-bot/internal/report"
	"symptom-check-bot/internal/session"
	"symptom-check-bot/internal/webhook"
)

func main() {
	// 1. Diagnosis engine. A missing or empty training corpus is fatal: the
	// bot must never serve predictions without a fitted model.
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "Data"
	}
	engine, err := diagnosis.NewEngine(dataDir)
	if err != nil {
		log.Fatalf("Could not initialize diagnosis engine: %v", err)
	}
	log.Printf("Diagnosis engine ready: %d symptoms in catalog.", engine.Catalog().Size())

	// 2. Session store: postgres when configured, in-memory otherwise.
	var store session.Store
	if dbConnStr := os.Getenv("DATABASE_URL"); dbConnStr != "" {
		var db *sql.DB
		for i := 0; i < 10; i++ {
			db, err = sql.Open("postgres", dbConnStr)
			if err == nil {
				err = db.Ping()
			}
			if err == nil {
				break
			}
			fmt.Printf("Waiting for DB... (%d/10)\n", i+1)
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			log.Fatalf("Could not connect to DB: %v", err)
		}
		log.Println("Connected to Database.")

		m, err := migrate.New("file://migrations", dbConnStr)
		if err != nil {
			log.Printf("Migration init failed: %v", err)
		} else {
			if err := m.Up(); err != nil && err != migrate.ErrNoChange {
				log.Printf("Migration up failed: %v", err)
			} else {
				log.Println("Migrations applied successfully!")
			}
		}
		store = session.NewPostgresStore(db)
	} else {
		log.Println("DATABASE_URL not set, using in-memory session store.")
		store = session.NewMemoryStore(24*time.Hour, time.Hour)
	}

	// 3. Clients
	var chat conversation.ChatClient
	if apiKey := os.Getenv("OPENROUTER_API_KEY"); apiKey != "" {
		chat = llm.NewOpenRouterClient(apiKey, os.Getenv("OPENROUTER_MODEL"))
	} else {
		log.Println("Warning: OPENROUTER_API_KEY not set, general chat fallback disabled.")
	}

	waToken := os.Getenv("WHATSAPP_TOKEN")
	phoneNumberID := os.Getenv("PHONE_NUMBER_ID")
	if waToken == "" || phoneNumberID == "" {
		log.Println("Warning: WHATSAPP_TOKEN or PHONE_NUMBER_ID missing. Ensure they are set in production.")
	}
	waClient := whatsapp.NewClient(waToken, phoneNumberID)

	verifyToken := os.Getenv("VERIFY_TOKEN")
	if verifyToken == "" {
		verifyToken = "Shivang"
	}

	// 4. Services
	svc := conversation.NewService(engine, store, chat, os.Getenv("PUBLIC_BASE_URL"))
	reportSvc := report.NewService()
	handler := webhook.NewHandler(svc, waClient, reportSvc, verifyToken)

	// 5. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", handler.Health)
	r.Route("/api", func(r chi.Router) {
		webhook.RegisterRoutes(r, handler)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("Server starting on port %s...\n", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
