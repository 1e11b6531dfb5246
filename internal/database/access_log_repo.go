package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"glowspa-backend/internal/models"
)

// AccessLogRepo handles access log database operations.
// Entries are append-only; nothing in this repo mutates or deletes them.
type AccessLogRepo struct {
	db *sql.DB
}

// NewAccessLogRepo creates a new access log repository
func NewAccessLogRepo(db *sql.DB) *AccessLogRepo {
	return &AccessLogRepo{db: db}
}

// Create creates a new access log entry
func (r *AccessLogRepo) Create(entry *models.AccessLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	result, err := r.db.Exec(`
		INSERT INTO access_logs (timestamp, client_id, staff_id, session_id, action,
			resource_type, resource_id, ip_address, user_agent, details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.Timestamp, entry.ClientID, entry.StaffID, entry.SessionID, entry.Action,
		entry.ResourceType, entry.ResourceID, entry.IPAddress, entry.UserAgent, entry.Details)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

// Log is a convenience method to record an action with optional free-form details
func (r *AccessLogRepo) Log(entry models.AccessLogEntry, details interface{}) error {
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			entry.Details = "{}"
		} else {
			entry.Details = string(b)
		}
	}
	return r.Create(&entry)
}

// List retrieves access logs with pagination and optional filters
func (r *AccessLogRepo) List(filter models.AccessLogFilter) ([]*models.AccessLogEntry, int, error) {
	// Build query
	baseQuery := "FROM access_logs WHERE 1=1"
	args := []interface{}{}

	if filter.ClientID != nil {
		baseQuery += " AND client_id = ?"
		args = append(args, *filter.ClientID)
	}
	if filter.Action != "" {
		baseQuery += " AND action = ?"
		args = append(args, filter.Action)
	}
	if filter.ActionPrefix != "" {
		baseQuery += " AND action LIKE ?"
		args = append(args, filter.ActionPrefix+"%")
	}
	if !filter.StartTime.IsZero() {
		baseQuery += " AND timestamp >= ?"
		args = append(args, filter.StartTime)
	}
	if !filter.EndTime.IsZero() {
		baseQuery += " AND timestamp <= ?"
		args = append(args, filter.EndTime)
	}

	// Get total count
	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	err := r.db.QueryRow(countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	// Get paginated results
	query := "SELECT id, timestamp, client_id, staff_id, session_id, action, resource_type, resource_id, ip_address, user_agent, details " + baseQuery
	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []*models.AccessLogEntry
	for rows.Next() {
		entry := &models.AccessLogEntry{}
		var clientID, staffID sql.NullInt64
		var sessionID, resourceType, resourceID, ipAddress, userAgent, details sql.NullString

		err := rows.Scan(
			&entry.ID, &entry.Timestamp, &clientID, &staffID, &sessionID,
			&entry.Action, &resourceType, &resourceID, &ipAddress, &userAgent, &details,
		)
		if err != nil {
			return nil, 0, err
		}

		if clientID.Valid {
			entry.ClientID = &clientID.Int64
		}
		if staffID.Valid {
			entry.StaffID = &staffID.Int64
		}
		if sessionID.Valid {
			entry.SessionID = sessionID.String
		}
		if resourceType.Valid {
			entry.ResourceType = resourceType.String
		}
		if resourceID.Valid {
			entry.ResourceID = resourceID.String
		}
		if ipAddress.Valid {
			entry.IPAddress = ipAddress.String
		}
		if userAgent.Valid {
			entry.UserAgent = userAgent.String
		}
		if details.Valid {
			entry.Details = details.String
		}

		entries = append(entries, entry)
	}

	return entries, total, nil
}

// GetActions returns a list of unique actions in the access log
func (r *AccessLogRepo) GetActions() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT action FROM access_logs ORDER BY action")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []string
	for rows.Next() {
		var action string
		if err := rows.Scan(&action); err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}

	return actions, nil
}
