package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"glowspa-backend/internal/api"
	"glowspa-backend/internal/auth"
	"glowspa-backend/internal/database"
	"glowspa-backend/internal/mailer"
	"glowspa-backend/internal/models"
)

func main() {
	// Get database path from environment or default
	dbPath := os.Getenv("GLOWSPA_DB_PATH")
	if dbPath == "" {
		// Default to current directory for development
		dbPath = "./glowspa.db"
	}

	// Ensure absolute path
	if !filepath.IsAbs(dbPath) {
		cwd, _ := os.Getwd()
		dbPath = filepath.Join(cwd, dbPath)
	}

	// Initialize database
	log.Printf("Initializing database at %s", dbPath)
	db, err := database.Open(database.Config{Path: dbPath})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	production := os.Getenv("GLOWSPA_ENV") == "production"

	baseURL := os.Getenv("GLOWSPA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	// Create default admin staff account if none exist
	if err := createDefaultAdminIfNeeded(db); err != nil {
		log.Printf("Warning: failed to create default admin: %v", err)
	}

	// Outbound mail: SMTP when configured, otherwise log links locally
	var mail mailer.Mailer
	if host := os.Getenv("GLOWSPA_SMTP_HOST"); host != "" {
		port := 587
		if v := os.Getenv("GLOWSPA_SMTP_PORT"); v != "" {
			if p, err := strconv.Atoi(v); err == nil {
				port = p
			}
		}
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     host,
			Port:     port,
			Username: os.Getenv("GLOWSPA_SMTP_USER"),
			Password: os.Getenv("GLOWSPA_SMTP_PASSWORD"),
			From:     os.Getenv("GLOWSPA_SMTP_FROM"),
			SiteName: "Glow Atelier",
		})
	} else {
		if production {
			log.Println("Warning: no SMTP relay configured, login links will only be logged")
		}
		mail = &mailer.LogMailer{}
	}

	// Initialize auth service
	authSvc := auth.NewService(db, mail, auth.Config{
		BaseURL:    baseURL,
		Production: production,
	})

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{baseURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	// API routes
	apiGroup := e.Group("/api")
	api.RegisterRoutes(apiGroup, db, authSvc)

	// Get port from environment or default
	port := os.Getenv("GLOWSPA_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Glow Atelier backend on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}

// createDefaultAdminIfNeeded creates a default admin staff user if no
// staff users exist
func createDefaultAdminIfNeeded(db *sql.DB) error {
	staffRepo := database.NewStaffRepo(db)

	count, err := staffRepo.Count()
	if err != nil {
		return err
	}

	if count > 0 {
		return nil // Staff already exist
	}

	password := os.Getenv("GLOWSPA_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
		log.Println("Creating default admin staff (admin@glowatelier.local / changeme) - CHANGE THIS PASSWORD!")
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.Staff{
		Email:        "admin@glowatelier.local",
		DisplayName:  "Administrator",
		PasswordHash: passwordHash,
		Role:         models.StaffAdmin,
	}

	return staffRepo.Create(admin)
}
