package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"glowspa-backend/internal/concerns"
)

// healthCheck handles GET /api/health
func healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// suggestServices handles POST /api/concerns/suggest
func suggestServices(c echo.Context) error {
	var req struct {
		Concern string `json:"concern"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.Concern == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "concern is required",
		})
	}

	suggestions := concerns.Suggest(req.Concern)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}
