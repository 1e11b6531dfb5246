package database

import (
	"database/sql"
	"errors"
	"time"

	"glowspa-backend/internal/models"
)

var ErrTokenNotFound = errors.New("login token not found")

// LoginTokenRepo handles login token database operations
type LoginTokenRepo struct {
	db *sql.DB
}

// NewLoginTokenRepo creates a new login token repository
func NewLoginTokenRepo(db *sql.DB) *LoginTokenRepo {
	return &LoginTokenRepo{db: db}
}

// Create inserts a new login token row. Only the hash of the secret is
// stored; the caller keeps the raw value for the emailed link.
func (r *LoginTokenRepo) Create(token *models.LoginToken) error {
	result, err := r.db.Exec(`
		INSERT INTO login_tokens (client_id, token_hash, created_at, expires_at, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?, ?)
	`, token.ClientID, token.TokenHash, token.CreatedAt, token.ExpiresAt, token.IPAddress, token.UserAgent)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	token.ID = id

	return nil
}

// InvalidateForClient removes all unconsumed tokens for a client.
// Issuing a new link always calls this first, so at most one usable
// token exists per client.
func (r *LoginTokenRepo) InvalidateForClient(clientID int64) error {
	_, err := r.db.Exec(`
		DELETE FROM login_tokens WHERE client_id = ? AND consumed_at IS NULL
	`, clientID)
	return err
}

// Consume atomically marks the token matching tokenHash as consumed and
// returns it. The conditional UPDATE is the single point that decides the
// winner when two requests race on the same secret: exactly one caller
// sees an affected row, the other gets ErrTokenNotFound.
func (r *LoginTokenRepo) Consume(tokenHash string) (*models.LoginToken, error) {
	now := time.Now()

	result, err := r.db.Exec(`
		UPDATE login_tokens SET consumed_at = ?
		WHERE token_hash = ? AND consumed_at IS NULL AND expires_at > ?
	`, now, tokenHash, now)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrTokenNotFound
	}

	return r.getByHash(tokenHash)
}

// GetByHash retrieves a token by its hash regardless of state
func (r *LoginTokenRepo) GetByHash(tokenHash string) (*models.LoginToken, error) {
	return r.getByHash(tokenHash)
}

func (r *LoginTokenRepo) getByHash(tokenHash string) (*models.LoginToken, error) {
	token := &models.LoginToken{}
	var consumedAt sql.NullTime
	var ipAddress, userAgent sql.NullString

	err := r.db.QueryRow(`
		SELECT id, client_id, token_hash, created_at, expires_at, consumed_at, ip_address, user_agent
		FROM login_tokens WHERE token_hash = ?
	`, tokenHash).Scan(
		&token.ID, &token.ClientID, &token.TokenHash,
		&token.CreatedAt, &token.ExpiresAt, &consumedAt, &ipAddress, &userAgent,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	if consumedAt.Valid {
		token.ConsumedAt = &consumedAt.Time
	}
	if ipAddress.Valid {
		token.IPAddress = ipAddress.String
	}
	if userAgent.Valid {
		token.UserAgent = userAgent.String
	}

	return token, nil
}

// DeleteExpired removes all expired tokens
func (r *LoginTokenRepo) DeleteExpired() (int64, error) {
	result, err := r.db.Exec("DELETE FROM login_tokens WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
