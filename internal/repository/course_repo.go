package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"learnhub/internal/models"
)

type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

var _ Courses = (*CourseRepository)(nil)

const (
	insertCourseSQL = `INSERT INTO courses (title, description, level, instructor_id, is_published, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectCourseByIDSQL = `SELECT c.id, c.title, c.description, c.level, c.instructor_id, c.is_published, c.created_at, c.updated_at, u.username
		FROM courses c JOIN users u ON u.id = c.instructor_id
		WHERE c.id = ?`

	selectPublishedCoursesSQL = `SELECT c.id, c.title, c.description, c.level, c.instructor_id, c.is_published, c.created_at, c.updated_at, u.username
		FROM courses c JOIN users u ON u.id = c.instructor_id
		WHERE c.is_published = 1
		ORDER BY c.created_at DESC`

	selectCoursesByInstructorSQL = `SELECT id, title, description, level, instructor_id, is_published, created_at, updated_at
		FROM courses WHERE instructor_id = ? ORDER BY created_at DESC`

	selectStepsByCourseSQL = `SELECT id, course_id, title, step_order, content_blocks, created_at, updated_at
		FROM steps WHERE course_id = ? ORDER BY step_order ASC`

	selectStepIDsByCourseSQL = `SELECT id FROM steps WHERE course_id = ? ORDER BY step_order ASC`

	deleteStepsByCourseSQL = `DELETE FROM steps WHERE course_id = ?`

	insertStepSQL = `INSERT INTO steps (course_id, title, step_order, content_blocks, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	markCoursePublishedSQL = `UPDATE courses SET is_published = 1, updated_at = ? WHERE id = ?`
)

// marshalBlocks stores the block array as a JSON text column.
func marshalBlocks(blocks []models.ContentBlock) (string, error) {
	if blocks == nil {
		blocks = []models.ContentBlock{}
	}
	b, err := json.Marshal(blocks)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalBlocks(s string) ([]models.ContentBlock, error) {
	if s == "" {
		return []models.ContentBlock{}, nil
	}
	var blocks []models.ContentBlock
	if err := json.Unmarshal([]byte(s), &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// Create inserts a new course draft and returns its ID.
func (r *CourseRepository) Create(ctx context.Context, c models.Course) (int, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, insertCourseSQL,
		c.Title, c.Description, c.Level, c.InstructorID, c.IsPublished, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert course %q: %w", c.Title, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for course %q: %w", c.Title, err)
	}
	return int(lastID), nil
}

// GetByID fetches a course with instructor info and its steps ordered
// ascending. Returns (nil, nil) if not found.
func (r *CourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	row := r.db.QueryRowContext(ctx, selectCourseByIDSQL, id)
	c, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select course %d: %w", id, err)
	}

	steps, err := r.listSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Steps = steps
	return c, nil
}

// ListPublished returns every published course with instructor info,
// newest first. Steps are not loaded.
func (r *CourseRepository) ListPublished(ctx context.Context) ([]models.Course, error) {
	rows, err := r.db.QueryContext(ctx, selectPublishedCoursesSQL)
	if err != nil {
		return nil, fmt.Errorf("select published courses: %w", err)
	}
	defer rows.Close()

	out := make([]models.Course, 0, 16)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan published course: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByInstructor returns the instructor's courses, newest first, each
// annotated with its step identifiers only.
func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID int) ([]models.CourseSummary, error) {
	rows, err := r.db.QueryContext(ctx, selectCoursesByInstructorSQL, instructorID)
	if err != nil {
		return nil, fmt.Errorf("select courses for instructor %d: %w", instructorID, err)
	}
	defer rows.Close()

	out := make([]models.CourseSummary, 0, 16)
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Level,
			&c.InstructorID, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan instructor course: %w", err)
		}
		out = append(out, models.CourseSummary{Course: c, Steps: []models.StepRef{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		refs, err := r.listStepIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Steps = refs
	}
	return out, nil
}

// ReplaceSteps swaps a course's step set wholesale and marks the course
// published, inside a single transaction. A failure anywhere rolls the whole
// replacement back so readers never observe a half-written step set.
func (r *CourseRepository) ReplaceSteps(ctx context.Context, courseID int, steps []models.Step) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin publish transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, deleteStepsByCourseSQL, courseID); err != nil {
		return fmt.Errorf("delete steps for course %d: %w", courseID, err)
	}

	now := time.Now().UTC()
	for _, st := range steps {
		blocksJSON, err := marshalBlocks(st.Blocks)
		if err != nil {
			return fmt.Errorf("marshal content blocks for step %d: %w", st.Order, err)
		}
		if _, err := tx.ExecContext(ctx, insertStepSQL,
			courseID, st.Title, st.Order, blocksJSON, now, now); err != nil {
			return fmt.Errorf("insert step %d for course %d: %w", st.Order, courseID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, markCoursePublishedSQL, now, courseID); err != nil {
		return fmt.Errorf("mark course %d published: %w", courseID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit publish transaction: %w", err)
	}
	return nil
}

func (r *CourseRepository) listSteps(ctx context.Context, courseID int) ([]models.Step, error) {
	rows, err := r.db.QueryContext(ctx, selectStepsByCourseSQL, courseID)
	if err != nil {
		return nil, fmt.Errorf("select steps for course %d: %w", courseID, err)
	}
	defer rows.Close()

	out := make([]models.Step, 0, 8)
	for rows.Next() {
		var st models.Step
		var blocksStr string
		if err := rows.Scan(&st.ID, &st.CourseID, &st.Title, &st.Order,
			&blocksStr, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan step for course %d: %w", courseID, err)
		}
		blocks, err := unmarshalBlocks(blocksStr)
		if err != nil {
			return nil, fmt.Errorf("unmarshal content blocks for step %d: %w", st.ID, err)
		}
		st.Blocks = blocks
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CourseRepository) listStepIDs(ctx context.Context, courseID int) ([]models.StepRef, error) {
	rows, err := r.db.QueryContext(ctx, selectStepIDsByCourseSQL, courseID)
	if err != nil {
		return nil, fmt.Errorf("select step ids for course %d: %w", courseID, err)
	}
	defer rows.Close()

	out := make([]models.StepRef, 0, 8)
	for rows.Next() {
		var ref models.StepRef
		if err := rows.Scan(&ref.ID); err != nil {
			return nil, fmt.Errorf("scan step id for course %d: %w", courseID, err)
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// scanCourse reads a course row joined with the instructor username.
func scanCourse(row interface {
	Scan(dest ...any) error
}) (*models.Course, error) {
	var c models.Course
	var username string
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Level,
		&c.InstructorID, &c.IsPublished, &c.CreatedAt, &c.UpdatedAt, &username); err != nil {
		return nil, err
	}
	c.Instructor = &models.Instructor{ID: c.InstructorID, Username: username}
	return &c, nil
}
