package database

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"glowspa-backend/internal/models"
)

var ErrStaffNotFound = errors.New("staff user not found")

// StaffRepo handles staff user database operations
type StaffRepo struct {
	db *sql.DB
}

// NewStaffRepo creates a new staff repository
func NewStaffRepo(db *sql.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

// Create creates a new staff user
func (r *StaffRepo) Create(staff *models.Staff) error {
	if staff.PublicID == "" {
		staff.PublicID = uuid.NewString()
	}
	staff.Email = NormalizeEmail(staff.Email)

	result, err := r.db.Exec(`
		INSERT INTO staff_users (public_id, email, display_name, password_hash, role, disabled)
		VALUES (?, ?, ?, ?, ?, ?)
	`, staff.PublicID, staff.Email, staff.DisplayName, staff.PasswordHash, staff.Role, staff.Disabled)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	staff.ID = id

	return nil
}

// GetByID retrieves a staff user by internal ID
func (r *StaffRepo) GetByID(id int64) (*models.Staff, error) {
	return r.get("id = ?", id)
}

// GetByEmail retrieves a staff user by normalized email
func (r *StaffRepo) GetByEmail(email string) (*models.Staff, error) {
	return r.get("email = ?", NormalizeEmail(email))
}

func (r *StaffRepo) get(where string, arg interface{}) (*models.Staff, error) {
	staff := &models.Staff{}
	var lastLogin sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, public_id, email, display_name, password_hash, role, disabled,
			created_at, updated_at, last_login
		FROM staff_users WHERE `+where,
		arg,
	).Scan(
		&staff.ID, &staff.PublicID, &staff.Email, &staff.DisplayName, &staff.PasswordHash,
		&staff.Role, &staff.Disabled, &staff.CreatedAt, &staff.UpdatedAt, &lastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}

	if lastLogin.Valid {
		staff.LastLogin = lastLogin.Time
	}

	return staff, nil
}

// UpdateLastLogin records a successful staff login
func (r *StaffRepo) UpdateLastLogin(id int64) error {
	_, err := r.db.Exec("UPDATE staff_users SET last_login = CURRENT_TIMESTAMP WHERE id = ?", id)
	return err
}

// Count returns the total number of staff users
func (r *StaffRepo) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM staff_users").Scan(&count)
	return count, err
}
