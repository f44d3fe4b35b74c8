package models

import (
	"time"
)

// TaskStatus represents the board status of a task
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "to-do"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskPriority represents the user-declared priority of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskType represents the academic category of a task
type TaskType string

const (
	TaskTypeAssignment TaskType = "assignment"
	TaskTypeExam       TaskType = "exam"
	TaskTypeProject    TaskType = "project"
	TaskTypeReading    TaskType = "reading"
	TaskTypeStudy      TaskType = "study"
	TaskTypeOther      TaskType = "other"
)

// Difficulty represents how hard a task is expected to be
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ResourceType represents the kind of material attached to a task
type ResourceType string

const (
	ResourceTypeLink     ResourceType = "link"
	ResourceTypeFile     ResourceType = "file"
	ResourceTypeNote     ResourceType = "note"
	ResourceTypeVideo    ResourceType = "video"
	ResourceTypeDocument ResourceType = "document"
)

// AcademicResource is a study material owned by exactly one task
type AcademicResource struct {
	ID          string       `json:"id"`
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	URL         string       `json:"url,omitempty"`
	Description string       `json:"description,omitempty"`
	AttachedAt  time.Time    `json:"attachedAt"`
}

// Task is the central entity: a todo item with academic metadata and
// derived smart-priority scores.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Completed   bool         `json:"completed"`
	Status      TaskStatus   `json:"status,omitempty"`
	Priority    TaskPriority `json:"priority"`
	Category    string       `json:"category,omitempty"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Academic fields
	CourseID      string             `json:"courseId,omitempty"`
	TaskType      TaskType           `json:"taskType,omitempty"`
	EstimatedTime *int               `json:"estimatedTime,omitempty"` // minutes
	ActualTime    *int               `json:"actualTime,omitempty"`    // minutes, derived from study sessions
	Difficulty    Difficulty         `json:"difficulty,omitempty"`
	Grade         *float64           `json:"grade,omitempty"`  // 0-100
	Weight        *float64           `json:"weight,omitempty"` // % of final grade
	Resources     []AcademicResource `json:"resources"`
	StudySessions []StudySession     `json:"studySessions"`

	// Derived scores, recomputed on relevant mutation
	SmartPriority   *float64 `json:"smartPriority,omitempty"`
	UrgencyScore    *float64 `json:"urgencyScore,omitempty"`
	ImportanceScore *float64 `json:"importanceScore,omitempty"`
}

// Normalize backfills fields that records persisted by older versions may
// lack, and re-establishes the completed/status invariant. An absent status
// is derived from the completed flag.
func (t *Task) Normalize() {
	if t.Status == "" {
		if t.Completed {
			t.Status = TaskStatusCompleted
		} else {
			t.Status = TaskStatusToDo
		}
	}
	t.Completed = t.Status == TaskStatusCompleted
	if t.TaskType == "" {
		t.TaskType = TaskTypeOther
	}
	if t.Difficulty == "" {
		t.Difficulty = DifficultyMedium
	}
	if t.Resources == nil {
		t.Resources = []AcademicResource{}
	}
	if t.StudySessions == nil {
		t.StudySessions = []StudySession{}
	}
}

// SetStatus sets the status and derives the completed flag from it.
func (t *Task) SetStatus(status TaskStatus) {
	t.Status = status
	t.Completed = status == TaskStatusCompleted
}

// SetCompleted sets the completed flag and derives the status from it.
// Moving a completed task back keeps it on the board as to-do.
func (t *Task) SetCompleted(completed bool) {
	t.Completed = completed
	if completed {
		t.Status = TaskStatusCompleted
	} else if t.Status == TaskStatusCompleted || t.Status == "" {
		t.Status = TaskStatusToDo
	}
}
