package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/dive-booking/internal/auth"
	"github.com/iliyamo/dive-booking/internal/model"
)

// UserRepo persists and loads rows of the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password, inserts the user and returns its ID.  The
// email is normalized to lower case so the unique index is effectively
// case-insensitive.  An empty license number is stored as NULL.
func (r *UserRepo) Create(ctx context.Context, fullName, email, password, licenseNumber, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var license sql.NullString
	if licenseNumber != "" {
		license = sql.NullString{String: licenseNumber, Valid: true}
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (full_name, email, password_hash, license_number, role) VALUES (?,?,?,?,?)",
		fullName, email, hash, license, role)
	if err != nil {
		// MySQL 1062 = duplicate entry for the unique email index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx,
		"SELECT id,full_name,email,password_hash,license_number,role,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx,
		"SELECT id,full_name,email,password_hash,license_number,role,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id)
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var (
		u       model.User
		license sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &license, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if license.Valid {
		u.LicenseNumber = license.String
	}
	return u, nil
}
