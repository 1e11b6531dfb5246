package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"glowspa-backend/internal/auth"
	"glowspa-backend/internal/models"
)

// staffLogin handles POST /api/admin/auth/login
func staffLogin(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "email and password are required",
		})
	}

	result, err := authService.StaffLogin(req.Email, req.Password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid email or password",
			})
		case errors.Is(err, auth.ErrStaffDisabled):
			return c.JSON(http.StatusForbidden, map[string]string{
				"error": "account is disabled",
			})
		default:
			c.Logger().Error("staff login error: ", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "authentication failed",
			})
		}
	}

	cfg := authService.Config()
	auth.SetStaffCookie(c, result.SessionToken, cfg.SessionTTL, cfg.Production)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    result.Staff,
	})
}

// staffLogout handles POST /api/admin/auth/logout
func staffLogout(c echo.Context) error {
	token := auth.CookieValue(c, auth.CookieStaffSession)

	if err := authService.Logout(token, c.RealIP(), c.Request().UserAgent()); err != nil {
		c.Logger().Error("staff logout error: ", err)
	}

	auth.ClearStaffCookie(c, authService.Config().Production)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// listAccessLogs handles GET /api/admin/access-logs
func listAccessLogs(c echo.Context) error {
	filter := models.AccessLogFilter{
		Action:       c.QueryParam("action"),
		ActionPrefix: c.QueryParam("action_prefix"),
		Limit:        50,
	}

	if v := c.QueryParam("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 && limit <= 500 {
			filter.Limit = limit
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	if v := c.QueryParam("start"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.StartTime = t
		}
	}
	if v := c.QueryParam("end"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.EndTime = t
		}
	}

	entries, total, err := accessLogRepo.List(filter)
	if err != nil {
		c.Logger().Error("list access logs error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to load access logs",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// listAccessLogActions handles GET /api/admin/access-logs/actions
func listAccessLogActions(c echo.Context) error {
	actions, err := accessLogRepo.GetActions()
	if err != nil {
		c.Logger().Error("list access log actions error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to load actions",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"actions": actions,
	})
}
