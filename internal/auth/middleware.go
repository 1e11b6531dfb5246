package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"glowspa-backend/internal/models"
)

// Context keys for storing identities resolved by the middleware
const (
	ContextKeyClient  = "client"
	ContextKeyStaff   = "staff"
	ContextKeySession = "session"
)

// RequireClient resolves the portal session cookie to a client identity.
// Requests without a valid session get a 401 and a cookie clear; the
// wrapped handler performs no data access in that case.
func RequireClient(authSvc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := CookieValue(c, CookiePortalSession)

			client, session, err := authSvc.ValidateSession(token)
			if err != nil {
				// Invalid cookie is worthless to the browser, clear it
				if token != "" {
					ClearPortalCookies(c, authSvc.cfg.Production)
				}
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "unauthorized",
				})
			}

			c.Set(ContextKeyClient, client)
			c.Set(ContextKeySession, session)

			return next(c)
		}
	}
}

// RequireStaff resolves the back-office session cookie to a staff identity
func RequireStaff(authSvc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := CookieValue(c, CookieStaffSession)

			staff, session, err := authSvc.ValidateStaffSession(token)
			if err != nil {
				if token != "" {
					ClearStaffCookie(c, authSvc.cfg.Production)
				}
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "unauthorized",
				})
			}

			c.Set(ContextKeyStaff, staff)
			c.Set(ContextKeySession, session)

			return next(c)
		}
	}
}

// RequireStaffRole checks for specific staff roles.
// Must be used after RequireStaff.
func RequireStaffRole(roles ...models.StaffRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			staff, ok := c.Get(ContextKeyStaff).(*models.Staff)
			if !ok || staff == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "unauthorized",
				})
			}

			for _, role := range roles {
				if staff.Role == role {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, map[string]string{
				"error": "insufficient permissions",
			})
		}
	}
}

// GetClientFromContext retrieves the authenticated client from the context
func GetClientFromContext(c echo.Context) *models.Client {
	client, ok := c.Get(ContextKeyClient).(*models.Client)
	if !ok {
		return nil
	}
	return client
}

// GetStaffFromContext retrieves the authenticated staff user from the context
func GetStaffFromContext(c echo.Context) *models.Staff {
	staff, ok := c.Get(ContextKeyStaff).(*models.Staff)
	if !ok {
		return nil
	}
	return staff
}

// GetSessionFromContext retrieves the current session from the context
func GetSessionFromContext(c echo.Context) *models.Session {
	session, ok := c.Get(ContextKeySession).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
