package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"glowspa-backend/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepo handles session database operations
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a new session. The caller supplies the hashes of the
// session and refresh secrets; raw values never reach this layer.
func (r *SessionRepo) Create(session *models.Session) error {
	if session.PublicID == "" {
		session.PublicID = uuid.NewString()
	}
	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.LastSeenAt.IsZero() {
		session.LastSeenAt = now
	}

	result, err := r.db.Exec(`
		INSERT INTO sessions (public_id, kind, client_id, staff_id, token_hash, refresh_token_hash,
			created_at, expires_at, last_seen_at, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, session.PublicID, session.Kind, session.ClientID, session.StaffID,
		session.TokenHash, session.RefreshTokenHash,
		session.CreatedAt, session.ExpiresAt, session.LastSeenAt,
		session.IPAddress, session.UserAgent)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	session.ID = id

	return nil
}

// GetActiveByTokenHash retrieves a session that is neither revoked nor
// expired. Expired or revoked rows are reported as ErrSessionNotFound so
// callers cannot distinguish why a lookup failed.
func (r *SessionRepo) GetActiveByTokenHash(tokenHash string) (*models.Session, error) {
	session, err := r.getByTokenHash(tokenHash)
	if err != nil {
		return nil, err
	}
	if !session.Valid() {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetByTokenHash retrieves a session by its hashed token regardless of state
func (r *SessionRepo) GetByTokenHash(tokenHash string) (*models.Session, error) {
	return r.getByTokenHash(tokenHash)
}

func (r *SessionRepo) getByTokenHash(tokenHash string) (*models.Session, error) {
	session := &models.Session{}
	var clientID, staffID sql.NullInt64
	var refreshHash, ipAddress, userAgent sql.NullString
	var revokedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, public_id, kind, client_id, staff_id, token_hash, refresh_token_hash,
			created_at, expires_at, last_seen_at, revoked_at, ip_address, user_agent
		FROM sessions WHERE token_hash = ?
	`, tokenHash).Scan(
		&session.ID, &session.PublicID, &session.Kind, &clientID, &staffID,
		&session.TokenHash, &refreshHash,
		&session.CreatedAt, &session.ExpiresAt, &session.LastSeenAt,
		&revokedAt, &ipAddress, &userAgent,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if clientID.Valid {
		session.ClientID = &clientID.Int64
	}
	if staffID.Valid {
		session.StaffID = &staffID.Int64
	}
	if refreshHash.Valid {
		session.RefreshTokenHash = refreshHash.String
	}
	if revokedAt.Valid {
		session.RevokedAt = &revokedAt.Time
	}
	if ipAddress.Valid {
		session.IPAddress = ipAddress.String
	}
	if userAgent.Valid {
		session.UserAgent = userAgent.String
	}

	return session, nil
}

// Touch refreshes a session's last-activity timestamp. Best-effort;
// callers may ignore the error.
func (r *SessionRepo) Touch(id int64) error {
	_, err := r.db.Exec("UPDATE sessions SET last_seen_at = ? WHERE id = ?", time.Now(), id)
	return err
}

// Revoke sets the revocation timestamp on the session matching tokenHash.
// Revoking an already-revoked or missing session returns ErrSessionNotFound,
// which callers treat as success for idempotent logout.
func (r *SessionRepo) Revoke(tokenHash string) error {
	result, err := r.db.Exec(`
		UPDATE sessions SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL
	`, time.Now(), tokenHash)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// RevokeAllForClient revokes every active session belonging to a client
func (r *SessionRepo) RevokeAllForClient(clientID int64) error {
	_, err := r.db.Exec(`
		UPDATE sessions SET revoked_at = ? WHERE client_id = ? AND revoked_at IS NULL
	`, time.Now(), clientID)
	return err
}

// DeleteExpired removes all expired sessions
func (r *SessionRepo) DeleteExpired() (int64, error) {
	result, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountActiveForClient returns the number of live sessions for a client
func (r *SessionRepo) CountActiveForClient(clientID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM sessions
		WHERE client_id = ? AND revoked_at IS NULL AND expires_at > ?
	`, clientID, time.Now()).Scan(&count)
	return count, err
}
