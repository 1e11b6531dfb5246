package database

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"glowspa-backend/internal/models"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepo handles portal document database operations
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new document repository
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Create creates a new document record
func (r *DocumentRepo) Create(doc *models.Document) error {
	if doc.PublicID == "" {
		doc.PublicID = uuid.NewString()
	}

	result, err := r.db.Exec(`
		INSERT INTO documents (public_id, client_id, kind, title, url)
		VALUES (?, ?, ?, ?, ?)
	`, doc.PublicID, doc.ClientID, doc.Kind, doc.Title, doc.URL)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	doc.ID = id

	return nil
}

// ListForClient retrieves all documents belonging to a client
func (r *DocumentRepo) ListForClient(clientID int64) ([]*models.Document, error) {
	rows, err := r.db.Query(`
		SELECT id, public_id, client_id, kind, title, url, signed_at, created_at
		FROM documents WHERE client_id = ? ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		var signedAt sql.NullTime

		err := rows.Scan(
			&doc.ID, &doc.PublicID, &doc.ClientID, &doc.Kind,
			&doc.Title, &doc.URL, &signedAt, &doc.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if signedAt.Valid {
			doc.SignedAt = &signedAt.Time
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// MarkSigned records a consent signature timestamp, scoped to the owning
// client so one client can never sign another's document.
func (r *DocumentRepo) MarkSigned(publicID string, clientID int64) error {
	result, err := r.db.Exec(`
		UPDATE documents SET signed_at = CURRENT_TIMESTAMP
		WHERE public_id = ? AND client_id = ? AND signed_at IS NULL
	`, publicID, clientID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDocumentNotFound
	}

	return nil
}
