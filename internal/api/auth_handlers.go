package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"glowspa-backend/internal/auth"
)

// requestLoginLink handles POST /api/portal/auth/request-link.
// The response is identical whether or not the email matched a client.
func requestLoginLink(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "email is required",
		})
	}

	devLink, err := authService.RequestLoginLink(req.Email, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		c.Logger().Error("request login link error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "something went wrong",
		})
	}

	resp := map[string]interface{}{
		"success": true,
		"message": "If that email is on file, a sign-in link is on its way. Check your inbox.",
	}
	// Local-testing convenience only; RequestLoginLink returns "" in production
	if devLink != "" {
		resp["dev_link"] = devLink
	}

	return c.JSON(http.StatusOK, resp)
}

// verifyLoginLink handles POST /api/portal/auth/verify
func verifyLoginLink(c echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if req.Token == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "token is required",
		})
	}

	result, err := authService.VerifyLoginToken(req.Token, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid or expired link",
			})
		}
		c.Logger().Error("verify login link error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "something went wrong",
		})
	}

	cfg := authService.Config()
	auth.SetPortalCookies(c, result.SessionToken, result.RefreshToken, cfg.SessionTTL, cfg.Production)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    result.Client.PortalUser(),
	})
}

// getCurrentSession handles GET /api/portal/auth/session
func getCurrentSession(c echo.Context) error {
	token := auth.CookieValue(c, auth.CookiePortalSession)

	client, session, err := authService.ValidateSession(token)
	if err != nil {
		// Stale cookie is worthless to the browser, clear it
		if token != "" {
			auth.ClearPortalCookies(c, authService.Config().Production)
		}
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"authenticated": false,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          client.PortalUser(),
		"session_id":    session.PublicID,
	})
}

// portalLogout handles POST /api/portal/auth/logout. Idempotent: always
// succeeds and always clears cookies.
func portalLogout(c echo.Context) error {
	token := auth.CookieValue(c, auth.CookiePortalSession)

	if err := authService.Logout(token, c.RealIP(), c.Request().UserAgent()); err != nil {
		c.Logger().Error("logout error: ", err)
	}

	auth.ClearPortalCookies(c, authService.Config().Production)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
