package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"learnhub/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	insertUserSQL = `INSERT INTO users (username, password_hash, bio, created_at, updated_at) VALUES (?, ?, '', ?, ?)`

	selectUserByUsernameSQL = `SELECT id, username, password_hash, bio, created_at, updated_at FROM users WHERE username = ?`

	selectUserByIDSQL = `SELECT id, username, password_hash, bio, created_at, updated_at FROM users WHERE id = ?`

	updateUserSQL = `UPDATE users SET username = ?, password_hash = ?, bio = ?, updated_at = ? WHERE id = ?`
)

// SQLITE_CONSTRAINT_UNIQUE extended result code.
const sqliteConstraintUnique = 2067

// isUniqueViolation matches the modernc sqlite driver error for a violated
// UNIQUE constraint without binding this package to the driver type.
func isUniqueViolation(err error) bool {
	var coded interface{ Code() int }
	return errors.As(err, &coded) && coded.Code() == sqliteConstraintUnique
}

// Create inserts a new user and returns its ID. A violated username
// uniqueness constraint surfaces as ErrDuplicateUsername.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (int, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, insertUserSQL, username, passwordHash, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := r.scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

// GetByID fetches a user by identifier. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := r.scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

// UpdateProfile applies the non-nil patch fields and returns the updated
// user, or (nil, nil) if the user no longer exists.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int, patch ProfilePatch) (*models.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()

	if _, err := r.db.ExecContext(ctx, updateUserSQL, u.Username, u.PasswordHash, u.Bio, u.UpdatedAt, id); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return u, nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Bio, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
