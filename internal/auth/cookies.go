package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Cookie names used by the portal and back-office
const (
	CookiePortalSession = "portal_session"
	CookiePortalRefresh = "portal_refresh"
	CookieStaffSession  = "staff_session"
)

func newCookie(name, value string, maxAge int, production bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// SetPortalCookies sets the session and refresh cookies after a
// successful login-link verification
func SetPortalCookies(c echo.Context, sessionToken, refreshToken string, ttl time.Duration, production bool) {
	maxAge := int(ttl.Seconds())
	c.SetCookie(newCookie(CookiePortalSession, sessionToken, maxAge, production))
	if refreshToken != "" {
		c.SetCookie(newCookie(CookiePortalRefresh, refreshToken, maxAge, production))
	}
}

// ClearPortalCookies unconditionally expires both portal cookies
func ClearPortalCookies(c echo.Context, production bool) {
	c.SetCookie(newCookie(CookiePortalSession, "", -1, production))
	c.SetCookie(newCookie(CookiePortalRefresh, "", -1, production))
}

// SetStaffCookie sets the back-office session cookie
func SetStaffCookie(c echo.Context, sessionToken string, ttl time.Duration, production bool) {
	c.SetCookie(newCookie(CookieStaffSession, sessionToken, int(ttl.Seconds()), production))
}

// ClearStaffCookie expires the back-office session cookie
func ClearStaffCookie(c echo.Context, production bool) {
	c.SetCookie(newCookie(CookieStaffSession, "", -1, production))
}

// CookieValue returns the named cookie's value, or "" when absent
func CookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}
