package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"glowspa-backend/internal/auth"
	"glowspa-backend/internal/database"
)

// listDocuments handles GET /api/portal/documents
func listDocuments(c echo.Context) error {
	client := auth.GetClientFromContext(c)
	session := auth.GetSessionFromContext(c)
	if client == nil || session == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "unauthorized",
		})
	}

	docs, err := documentRepo.ListForClient(client.ID)
	if err != nil {
		c.Logger().Error("list documents error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to load documents",
		})
	}

	authService.RecordAccess(session, "documents", "", c.RealIP())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"documents": docs,
	})
}

// signDocument handles POST /api/portal/documents/:id/sign
func signDocument(c echo.Context) error {
	client := auth.GetClientFromContext(c)
	session := auth.GetSessionFromContext(c)
	if client == nil || session == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "unauthorized",
		})
	}

	docID := c.Param("id")
	if err := documentRepo.MarkSigned(docID, client.ID); err != nil {
		if errors.Is(err, database.ErrDocumentNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "document not found",
			})
		}
		c.Logger().Error("sign document error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to sign document",
		})
	}

	authService.RecordAccess(session, "document", docID, c.RealIP())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// listNotifications handles GET /api/portal/notifications
func listNotifications(c echo.Context) error {
	client := auth.GetClientFromContext(c)
	session := auth.GetSessionFromContext(c)
	if client == nil || session == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "unauthorized",
		})
	}

	notifications, err := notificationRepo.ListForClient(client.ID)
	if err != nil {
		c.Logger().Error("list notifications error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to load notifications",
		})
	}

	unread, err := notificationRepo.CountUnreadForClient(client.ID)
	if err != nil {
		c.Logger().Error("count unread error: ", err)
	}

	authService.RecordAccess(session, "notifications", "", c.RealIP())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread":        unread,
	})
}

// markNotificationRead handles POST /api/portal/notifications/:id/read
func markNotificationRead(c echo.Context) error {
	client := auth.GetClientFromContext(c)
	if client == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "unauthorized",
		})
	}

	notifID := c.Param("id")
	if err := notificationRepo.MarkRead(notifID, client.ID); err != nil {
		if errors.Is(err, database.ErrNotificationNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "notification not found",
			})
		}
		c.Logger().Error("mark notification read error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to update notification",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
