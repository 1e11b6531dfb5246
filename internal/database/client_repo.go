package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"glowspa-backend/internal/models"
)

var ErrClientNotFound = errors.New("client not found")

// ClientRepo handles client database operations
type ClientRepo struct {
	db *sql.DB
}

// NewClientRepo creates a new client repository
func NewClientRepo(db *sql.DB) *ClientRepo {
	return &ClientRepo{db: db}
}

// NormalizeEmail canonicalizes an email address for lookup and storage
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create creates a new client
func (r *ClientRepo) Create(client *models.Client) error {
	if client.PublicID == "" {
		client.PublicID = uuid.NewString()
	}
	if client.Status == "" {
		client.Status = models.ClientActive
	}
	client.Email = NormalizeEmail(client.Email)

	result, err := r.db.Exec(`
		INSERT INTO clients (public_id, email, first_name, last_name, phone, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, client.PublicID, client.Email, client.FirstName, client.LastName, client.Phone, client.Status)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	client.ID = id

	return nil
}

// GetByID retrieves a client by internal ID
func (r *ClientRepo) GetByID(id int64) (*models.Client, error) {
	return r.get("id = ?", id)
}

// GetByEmail retrieves a client by normalized email
func (r *ClientRepo) GetByEmail(email string) (*models.Client, error) {
	return r.get("email = ?", NormalizeEmail(email))
}

// GetByPublicID retrieves a client by its public UUID
func (r *ClientRepo) GetByPublicID(publicID string) (*models.Client, error) {
	return r.get("public_id = ?", publicID)
}

func (r *ClientRepo) get(where string, arg interface{}) (*models.Client, error) {
	client := &models.Client{}
	var phone sql.NullString

	err := r.db.QueryRow(`
		SELECT id, public_id, email, first_name, last_name, phone, status, created_at, updated_at
		FROM clients WHERE `+where,
		arg,
	).Scan(
		&client.ID, &client.PublicID, &client.Email, &client.FirstName, &client.LastName,
		&phone, &client.Status, &client.CreatedAt, &client.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		client.Phone = phone.String
	}

	return client, nil
}

// UpdateStatus changes a client's account status
func (r *ClientRepo) UpdateStatus(id int64, status models.ClientStatus) error {
	result, err := r.db.Exec(`
		UPDATE clients SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrClientNotFound
	}

	return nil
}

// Count returns the total number of clients
func (r *ClientRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM clients").Scan(&count)
	return count, err
}
