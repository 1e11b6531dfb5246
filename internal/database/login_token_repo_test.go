package database

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"glowspa-backend/internal/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createClient(t *testing.T, db *sql.DB, email string) *models.Client {
	t.Helper()
	client := &models.Client{Email: email, FirstName: "Test", LastName: "Client"}
	if err := NewClientRepo(db).Create(client); err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func createToken(t *testing.T, repo *LoginTokenRepo, clientID int64, hash string, expiresAt time.Time) *models.LoginToken {
	t.Helper()
	token := &models.LoginToken{
		ClientID:  clientID,
		TokenHash: hash,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := repo.Create(token); err != nil {
		t.Fatalf("failed to create token: %v", err)
	}
	return token
}

func TestLoginTokenConsume_Once(t *testing.T) {
	db := setupTestDB(t)
	client := createClient(t, db, "jane@example.com")
	repo := NewLoginTokenRepo(db)
	createToken(t, repo, client.ID, "hash-1", time.Now().Add(15*time.Minute))

	token, err := repo.Consume("hash-1")
	if err != nil {
		t.Fatalf("first consume failed: %v", err)
	}
	if token.ConsumedAt == nil {
		t.Error("expected consumption timestamp to be set")
	}

	// The conditional update rejects the second consume
	if _, err := repo.Consume("hash-1"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound on second consume, got %v", err)
	}
}

func TestLoginTokenConsume_Expired(t *testing.T) {
	db := setupTestDB(t)
	client := createClient(t, db, "jane@example.com")
	repo := NewLoginTokenRepo(db)
	createToken(t, repo, client.ID, "hash-old", time.Now().Add(-time.Second))

	if _, err := repo.Consume("hash-old"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound for expired token, got %v", err)
	}

	// Row still exists, merely unusable
	if _, err := repo.GetByHash("hash-old"); err != nil {
		t.Errorf("expected expired row to remain until swept: %v", err)
	}
}

func TestLoginTokenConsume_Unknown(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLoginTokenRepo(db)

	if _, err := repo.Consume("no-such-hash"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestLoginTokenInvalidateForClient(t *testing.T) {
	db := setupTestDB(t)
	jane := createClient(t, db, "jane@example.com")
	kate := createClient(t, db, "kate@example.com")
	repo := NewLoginTokenRepo(db)

	expiry := time.Now().Add(15 * time.Minute)
	createToken(t, repo, jane.ID, "hash-jane-1", expiry)
	createToken(t, repo, kate.ID, "hash-kate-1", expiry)

	// Consumed tokens are left alone (audit trail), unconsumed ones go
	if _, err := repo.Consume("hash-jane-1"); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	createToken(t, repo, jane.ID, "hash-jane-2", expiry)

	if err := repo.InvalidateForClient(jane.ID); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	if _, err := repo.GetByHash("hash-jane-2"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected unconsumed token to be removed, got %v", err)
	}
	if _, err := repo.GetByHash("hash-jane-1"); err != nil {
		t.Errorf("expected consumed token to survive: %v", err)
	}
	if _, err := repo.GetByHash("hash-kate-1"); err != nil {
		t.Errorf("expected other client's token to survive: %v", err)
	}
}

func TestLoginTokenDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	client := createClient(t, db, "jane@example.com")
	repo := NewLoginTokenRepo(db)

	createToken(t, repo, client.ID, "hash-live", time.Now().Add(15*time.Minute))
	createToken(t, repo, client.ID, "hash-dead", time.Now().Add(-time.Minute))

	n, err := repo.DeleteExpired()
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted row, got %d", n)
	}
	if _, err := repo.GetByHash("hash-live"); err != nil {
		t.Errorf("live token should survive the sweep: %v", err)
	}
}
