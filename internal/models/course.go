package models

import "time"

// Course difficulty levels.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Block types a step may contain.
const (
	BlockText = "text"
	BlockCode = "code"
)

// ContentBlock is a single unit of step content, tagged as text or code.
type ContentBlock struct {
	Type    string `json:"type"` // text | code
	Content string `json:"content"`
}

// Step is one unit of a course. Order is zero-based and matches the position
// of the step in the array it was published from.
type Step struct {
	ID        int            `json:"id"`
	CourseID  int            `json:"courseId"`
	Title     string         `json:"title"`
	Order     int            `json:"order"`
	Blocks    []ContentBlock `json:"contentBlocks"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Instructor is the owner info embedded in course responses.
type Instructor struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Course metadata. Instructor and Steps are populated depending on the query:
// catalog listings carry the instructor only, the detail view carries both.
type Course struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Level        string      `json:"level"` // beginner | intermediate | advanced
	InstructorID int         `json:"instructorId"`
	IsPublished  bool        `json:"isPublished"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	Instructor   *Instructor `json:"instructor,omitempty"`
	Steps        []Step      `json:"steps,omitempty"`
}

// StepRef identifies a step without its content.
type StepRef struct {
	ID int `json:"id"`
}

// CourseSummary is a course annotated with step identifiers only, used for
// the instructor's own-courses listing. The outer Steps field shadows the
// embedded full-content one.
type CourseSummary struct {
	Course
	Steps []StepRef `json:"steps"`
}
