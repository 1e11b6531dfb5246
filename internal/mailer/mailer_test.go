package mailer

import (
	"strings"
	"testing"
	"time"
)

func TestRenderLoginLink(t *testing.T) {
	link := "http://localhost:3000/portal/login/verify?token=abc123"

	body, err := RenderLoginLink("Glow Atelier", link, 15*time.Minute)
	if err != nil {
		t.Fatalf("RenderLoginLink failed: %v", err)
	}

	if !strings.Contains(body, link) {
		t.Error("rendered email does not contain the login link")
	}
	if !strings.Contains(body, "Glow Atelier") {
		t.Error("rendered email does not contain the site name")
	}
	if !strings.Contains(body, "15 minutes") {
		t.Error("rendered email does not state the link lifetime")
	}
}

func TestRenderLoginLink_EscapesSiteName(t *testing.T) {
	body, err := RenderLoginLink("<script>alert(1)</script>", "http://example.com", 15*time.Minute)
	if err != nil {
		t.Fatalf("RenderLoginLink failed: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Error("site name was not HTML-escaped")
	}
}

func TestLogMailer(t *testing.T) {
	m := &LogMailer{}
	if err := m.SendLoginLink("jane@example.com", "http://example.com", 15*time.Minute); err != nil {
		t.Errorf("LogMailer should never fail, got %v", err)
	}
}
