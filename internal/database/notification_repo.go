package database

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"glowspa-backend/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepo handles portal notification database operations
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo creates a new notification repository
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create creates a new notification
func (r *NotificationRepo) Create(n *models.Notification) error {
	if n.PublicID == "" {
		n.PublicID = uuid.NewString()
	}

	result, err := r.db.Exec(`
		INSERT INTO notifications (public_id, client_id, title, body)
		VALUES (?, ?, ?, ?)
	`, n.PublicID, n.ClientID, n.Title, n.Body)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = id

	return nil
}

// ListForClient retrieves all notifications for a client, newest first
func (r *NotificationRepo) ListForClient(clientID int64) ([]*models.Notification, error) {
	rows, err := r.db.Query(`
		SELECT id, public_id, client_id, title, body, read_at, created_at
		FROM notifications WHERE client_id = ? ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		var readAt sql.NullTime

		err := rows.Scan(
			&n.ID, &n.PublicID, &n.ClientID, &n.Title, &n.Body, &readAt, &n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if readAt.Valid {
			n.ReadAt = &readAt.Time
		}

		notifications = append(notifications, n)
	}

	return notifications, nil
}

// MarkRead sets the read timestamp, scoped to the owning client.
// Marking an already-read notification is a no-op success.
func (r *NotificationRepo) MarkRead(publicID string, clientID int64) error {
	result, err := r.db.Exec(`
		UPDATE notifications SET read_at = CURRENT_TIMESTAMP
		WHERE public_id = ? AND client_id = ? AND read_at IS NULL
	`, publicID, clientID)
	if err != nil {
		return err
	}

	// Distinguish "not yours / missing" from "already read"
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var count int
		err := r.db.QueryRow(`
			SELECT COUNT(*) FROM notifications WHERE public_id = ? AND client_id = ?
		`, publicID, clientID).Scan(&count)
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotificationNotFound
		}
	}

	return nil
}

// CountUnreadForClient returns the number of unread notifications
func (r *NotificationRepo) CountUnreadForClient(clientID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM notifications WHERE client_id = ? AND read_at IS NULL
	`, clientID).Scan(&count)
	return count, err
}
