package database

import (
	"errors"
	"testing"
	"time"

	"glowspa-backend/internal/models"
)

func createSession(t *testing.T, repo *SessionRepo, clientID int64, hash string, expiresAt time.Time) *models.Session {
	t.Helper()
	session := &models.Session{
		Kind:      models.SessionClient,
		ClientID:  &clientID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	}
	if err := repo.Create(session); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return session
}

func TestSessionGetActive(t *testing.T) {
	db := setupTestDB(t)
	client := createClient(t, db, "jane@example.com")
	repo := NewSessionRepo(db)
	created := createSession(t, repo, client.ID, "sess-1", time.Now().Add(7*24*time.Hour))

	if created.PublicID == "" {
		t.Error("expected a generated public id")
	}

	session, err := repo.GetActiveByTokenHash("sess-1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if session.ClientID == nil || *session.ClientID != client.ID {
		t.Error("session not bound to the owning client")
	}
}

func TestSessionGetActive_Expired(t *testing.T) {
	db := setupTestDB(t)
	client := createClient(t, db, "jane@example.com")
	repo := NewSessionRepo(db)
	createSession(t, repo, client.ID, "sess-old", time.Now().Add(-time.Minute))

	if _, err := repo.GetActiveByTokenHash("sess-old"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for expired session, got %v", err)
	}
}

func TestSessionRevoke(t *testing.T) {
	db := setupTestDB(t)
	client := createClient(t, db, "jane@example.com")
	repo := NewSessionRepo(db)
	createSession(t, repo, client.ID, "sess-1", time.Now().Add(7*24*time.Hour))

	if err := repo.Revoke("sess-1"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	// Revoked sessions are invisible to the active lookup
	if _, err := repo.GetActiveByTokenHash("sess-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for revoked session, got %v", err)
	}
	// But the row keeps its revocation timestamp
	session, err := repo.GetByTokenHash("sess-1")
	if err != nil {
		t.Fatalf("raw lookup failed: %v", err)
	}
	if session.RevokedAt == nil {
		t.Error("expected revocation timestamp to be set")
	}

	// Second revoke reports not-found; callers treat that as success
	if err := repo.Revoke("sess-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on double revoke, got %v", err)
	}
}

func TestSessionTouch(t *testing.T) {
	db := setupTestDB(t)
	client := createClient(t, db, "jane@example.com")
	repo := NewSessionRepo(db)
	session := createSession(t, repo, client.ID, "sess-1", time.Now().Add(7*24*time.Hour))

	before := session.LastSeenAt
	time.Sleep(10 * time.Millisecond)

	if err := repo.Touch(session.ID); err != nil {
		t.Fatalf("touch failed: %v", err)
	}

	after, err := repo.GetByTokenHash("sess-1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !after.LastSeenAt.After(before) {
		t.Error("expected last-activity time to advance")
	}
}

func TestSessionRevokeAllForClient(t *testing.T) {
	db := setupTestDB(t)
	jane := createClient(t, db, "jane@example.com")
	kate := createClient(t, db, "kate@example.com")
	repo := NewSessionRepo(db)

	expiry := time.Now().Add(7 * 24 * time.Hour)
	createSession(t, repo, jane.ID, "sess-jane-1", expiry)
	createSession(t, repo, jane.ID, "sess-jane-2", expiry)
	createSession(t, repo, kate.ID, "sess-kate-1", expiry)

	if err := repo.RevokeAllForClient(jane.ID); err != nil {
		t.Fatalf("revoke all failed: %v", err)
	}

	count, err := repo.CountActiveForClient(jane.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 active sessions for jane, got %d", count)
	}

	count, err = repo.CountActiveForClient(kate.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected kate's session to survive, got %d", count)
	}
}

func TestSessionDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	client := createClient(t, db, "jane@example.com")
	repo := NewSessionRepo(db)

	createSession(t, repo, client.ID, "sess-live", time.Now().Add(time.Hour))
	createSession(t, repo, client.ID, "sess-dead", time.Now().Add(-time.Hour))

	n, err := repo.DeleteExpired()
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted row, got %d", n)
	}
}
