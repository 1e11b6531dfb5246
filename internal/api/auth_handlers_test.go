package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"glowspa-backend/internal/auth"
	"glowspa-backend/internal/database"
	"glowspa-backend/internal/models"
)

var testIPCounter int

// nextTestIP hands out a fresh client IP per request so the global rate
// limiters never interfere across tests
func nextTestIP() string {
	testIPCounter++
	return fmt.Sprintf("198.51.100.%d", testIPCounter%250+1)
}

type silentMailer struct{}

func (silentMailer) SendLoginLink(to, link string, ttl time.Duration) error { return nil }

func setupAPI(t *testing.T, production bool) (*echo.Echo, *sql.DB, *auth.Service) {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	svc := auth.NewService(db, silentMailer{}, auth.Config{
		BaseURL:    "http://localhost:3000",
		Production: production,
	})

	e := echo.New()
	RegisterRoutes(e.Group("/api"), db, svc)
	return e, db, svc
}

func seedClient(t *testing.T, db *sql.DB, email string) *models.Client {
	t.Helper()
	client := &models.Client{Email: email, FirstName: "Jane", LastName: "Doe"}
	if err := database.NewClientRepo(db).Create(client); err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func doJSON(e *echo.Echo, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(echo.HeaderXForwardedFor, nextTestIP())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// loginThroughAPI runs the full request-link/verify flow in dev mode and
// returns the portal session cookie
func loginThroughAPI(t *testing.T, e *echo.Echo, email string) *http.Cookie {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/api/portal/auth/request-link", `{"email":"`+email+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("request-link returned %d: %s", rec.Code, rec.Body.String())
	}
	link, _ := decodeBody(t, rec)["dev_link"].(string)
	if link == "" {
		t.Fatal("expected dev_link outside production")
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("failed to parse dev link: %v", err)
	}
	token := u.Query().Get("token")

	rec = doJSON(e, http.MethodPost, "/api/portal/auth/verify", `{"token":"`+token+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify returned %d: %s", rec.Code, rec.Body.String())
	}
	cookie := findCookie(rec, auth.CookiePortalSession)
	if cookie == nil {
		t.Fatal("verify did not set a session cookie")
	}
	return cookie
}

func TestRequestLoginLink_MissingEmail(t *testing.T) {
	e, _, _ := setupAPI(t, false)

	rec := doJSON(e, http.MethodPost, "/api/portal/auth/request-link", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRequestLoginLink_IdenticalResponseShape(t *testing.T) {
	e, db, _ := setupAPI(t, true)
	seedClient(t, db, "jane@example.com")

	known := doJSON(e, http.MethodPost, "/api/portal/auth/request-link", `{"email":"jane@example.com"}`)
	unknown := doJSON(e, http.MethodPost, "/api/portal/auth/request-link", `{"email":"nobody@example.com"}`)

	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("expected 200/200, got %d/%d", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Errorf("responses differ:\n%s\n%s", known.Body.String(), unknown.Body.String())
	}
	if _, leaked := decodeBody(t, known)["dev_link"]; leaked {
		t.Error("production response leaked a login link")
	}
}

func TestVerifyLoginLink_CookieAttributes(t *testing.T) {
	e, db, _ := setupAPI(t, false)
	seedClient(t, db, "jane@example.com")

	rec := doJSON(e, http.MethodPost, "/api/portal/auth/request-link", `{"email":"jane@example.com"}`)
	link, _ := decodeBody(t, rec)["dev_link"].(string)
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("failed to parse dev link: %v", err)
	}

	rec = doJSON(e, http.MethodPost, "/api/portal/auth/verify", `{"token":"`+u.Query().Get("token")+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify returned %d: %s", rec.Code, rec.Body.String())
	}

	session := findCookie(rec, auth.CookiePortalSession)
	if session == nil {
		t.Fatal("missing session cookie")
	}
	if !session.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if session.SameSite != http.SameSiteLaxMode {
		t.Error("session cookie must be SameSite=Lax")
	}
	if session.Secure {
		t.Error("session cookie must not be Secure outside production")
	}
	if session.Path != "/" {
		t.Errorf("session cookie path must be /, got %q", session.Path)
	}
	if session.MaxAge != int(auth.DefaultSessionTTL.Seconds()) {
		t.Errorf("session cookie max-age %d does not match session lifetime", session.MaxAge)
	}

	if refresh := findCookie(rec, auth.CookiePortalRefresh); refresh == nil {
		t.Error("missing refresh cookie")
	}

	body := decodeBody(t, rec)
	user, _ := body["user"].(map[string]interface{})
	if user == nil || user["email"] != "jane@example.com" {
		t.Errorf("unexpected user payload: %v", body["user"])
	}
}

func TestVerifyLoginLink_SecureCookieInProduction(t *testing.T) {
	e, db, _ := setupAPI(t, true)
	client := seedClient(t, db, "jane@example.com")

	// Production never echoes links, so seed the token directly
	raw, hash, err := auth.GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret failed: %v", err)
	}
	err = database.NewLoginTokenRepo(db).Create(&models.LoginToken{
		ClientID:  client.ID,
		TokenHash: hash,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(15 * time.Minute),
	})
	if err != nil {
		t.Fatalf("failed to seed token: %v", err)
	}

	rec := doJSON(e, http.MethodPost, "/api/portal/auth/verify", `{"token":"`+raw+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify returned %d: %s", rec.Code, rec.Body.String())
	}

	session := findCookie(rec, auth.CookiePortalSession)
	if session == nil {
		t.Fatal("missing session cookie")
	}
	if !session.Secure {
		t.Error("session cookie must be Secure in production")
	}
}

func TestVerifyLoginLink_Invalid(t *testing.T) {
	e, _, _ := setupAPI(t, false)

	rec := doJSON(e, http.MethodPost, "/api/portal/auth/verify", `{"token":"not-a-real-token"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "invalid or expired link" {
		t.Errorf("unexpected error body: %s", rec.Body.String())
	}

	rec = doJSON(e, http.MethodPost, "/api/portal/auth/verify", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing token, got %d", rec.Code)
	}
}

func TestGetCurrentSession(t *testing.T) {
	e, db, _ := setupAPI(t, false)
	seedClient(t, db, "jane@example.com")
	cookie := loginThroughAPI(t, e, "jane@example.com")

	rec := doJSON(e, http.MethodGet, "/api/portal/auth/session", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["authenticated"] != true {
		t.Error("expected authenticated: true")
	}
	if body["session_id"] == "" || body["session_id"] == nil {
		t.Error("expected a session id")
	}
}

func TestGetCurrentSession_NoCookie(t *testing.T) {
	e, _, _ := setupAPI(t, false)

	rec := doJSON(e, http.MethodGet, "/api/portal/auth/session", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if decodeBody(t, rec)["authenticated"] != false {
		t.Errorf("expected authenticated: false, got %s", rec.Body.String())
	}
}

func TestGetCurrentSession_StaleCookieCleared(t *testing.T) {
	e, _, _ := setupAPI(t, false)

	stale := &http.Cookie{Name: auth.CookiePortalSession, Value: "stale-token"}
	rec := doJSON(e, http.MethodGet, "/api/portal/auth/session", "", stale)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	cleared := findCookie(rec, auth.CookiePortalSession)
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Error("expected the stale cookie to be cleared")
	}
}

func TestLogout_IdempotentOverHTTP(t *testing.T) {
	e, db, _ := setupAPI(t, false)
	seedClient(t, db, "jane@example.com")
	cookie := loginThroughAPI(t, e, "jane@example.com")

	// Logged in, no cookie, twice with the same cookie: always 200
	for _, cookies := range [][]*http.Cookie{
		{cookie},
		nil,
		{cookie},
	} {
		rec := doJSON(e, http.MethodPost, "/api/portal/auth/logout", "", cookies...)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if decodeBody(t, rec)["success"] != true {
			t.Errorf("expected success: true, got %s", rec.Body.String())
		}
		if c := findCookie(rec, auth.CookiePortalSession); c == nil || c.MaxAge >= 0 {
			t.Error("expected session cookie to be cleared")
		}
		if c := findCookie(rec, auth.CookiePortalRefresh); c == nil || c.MaxAge >= 0 {
			t.Error("expected refresh cookie to be cleared")
		}
	}

	// The session is genuinely dead afterwards
	rec := doJSON(e, http.MethodGet, "/api/portal/auth/session", "", cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rec.Code)
	}
}
