package repository

import (
	"context"
	"database/sql"
	"errors"

	"learnhub/internal/models"
	"learnhub/internal/repository/db"
)

// ErrDuplicateUsername maps the store's username uniqueness violation to a
// condition callers can classify without inspecting driver errors.
var ErrDuplicateUsername = errors.New("username already taken")

// Users persists accounts. Lookups return (nil, nil) when nothing matched.
type Users interface {
	Create(ctx context.Context, username, passwordHash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	UpdateProfile(ctx context.Context, id int, patch ProfilePatch) (*models.User, error)
}

// ProfilePatch carries optional profile mutations; nil fields stay untouched.
type ProfilePatch struct {
	Username     *string
	Bio          *string
	PasswordHash *string
}

// Courses persists course metadata and each course's ordered step set.
type Courses interface {
	Create(ctx context.Context, c models.Course) (int, error)
	GetByID(ctx context.Context, id int) (*models.Course, error)
	ListPublished(ctx context.Context) ([]models.Course, error)
	ListByInstructor(ctx context.Context, instructorID int) ([]models.CourseSummary, error)
	// ReplaceSteps deletes a course's existing steps, inserts the given set
	// and marks the course published, all in one transaction.
	ReplaceSteps(ctx context.Context, courseID int, steps []models.Step) error
}

type Repository struct {
	Users   Users
	Courses Courses
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Users:   NewUserRepository(sqlDB),
		Courses: NewCourseRepository(sqlDB),
	}
}

// InitDB opens the backing SQLite database and ensures the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
