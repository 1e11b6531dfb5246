package api

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"glowspa-backend/internal/auth"
	"glowspa-backend/internal/database"
	"glowspa-backend/internal/models"
)

// Package-level handles set up once by RegisterRoutes
var (
	authService      *auth.Service
	documentRepo     *database.DocumentRepo
	notificationRepo *database.NotificationRepo
	accessLogRepo    *database.AccessLogRepo
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api *echo.Group, db *sql.DB, authSvc *auth.Service) {
	authService = authSvc
	documentRepo = database.NewDocumentRepo(db)
	notificationRepo = database.NewNotificationRepo(db)
	accessLogRepo = database.NewAccessLogRepo(db)

	// Health check (public)
	api.GET("/health", healthCheck)

	// Concern-to-service suggestions (public, marketing funnel)
	api.POST("/concerns/suggest", suggestServices)

	// Portal auth routes (public)
	portalAuth := api.Group("/portal/auth")
	portalAuth.POST("/request-link", requestLoginLink, auth.LoginLinkRateLimiter.Middleware())
	portalAuth.POST("/verify", verifyLoginLink)
	portalAuth.GET("/session", getCurrentSession)
	portalAuth.POST("/logout", portalLogout)

	// Portal routes (require a valid client session)
	portal := api.Group("/portal")
	portal.Use(auth.RequireClient(authSvc))
	portal.GET("/documents", listDocuments)
	portal.POST("/documents/:id/sign", signDocument)
	portal.GET("/notifications", listNotifications)
	portal.POST("/notifications/:id/read", markNotificationRead)

	// Back-office auth routes (public)
	adminAuth := api.Group("/admin/auth")
	adminAuth.POST("/login", staffLogin, auth.StaffLoginRateLimiter.Middleware())
	adminAuth.POST("/logout", staffLogout)

	// Back-office routes (require a valid staff session); the audit trail
	// itself is admin-only
	admin := api.Group("/admin")
	admin.Use(auth.RequireStaff(authSvc))
	admin.GET("/access-logs", listAccessLogs, auth.RequireStaffRole(models.StaffAdmin))
	admin.GET("/access-logs/actions", listAccessLogActions, auth.RequireStaffRole(models.StaffAdmin))
}
