package models

import "time"

// SessionType represents the kind of timed interval a study session covers
type SessionType string

const (
	SessionTypeFocus  SessionType = "focus"
	SessionTypeBreak  SessionType = "break"
	SessionTypeReview SessionType = "review"
)

// Productivity is an optional self-rating attached to a study session
type Productivity string

const (
	ProductivityLow    Productivity = "low"
	ProductivityMedium Productivity = "medium"
	ProductivityHigh   Productivity = "high"
)

// GeneralTaskID is the sentinel task id used for sessions not tied to a task.
const GeneralTaskID = "general"

// StudySession records one timed focus, break or review interval.
type StudySession struct {
	ID           string       `json:"id"`
	TaskID       string       `json:"taskId"`
	StartTime    time.Time    `json:"startTime"`
	EndTime      *time.Time   `json:"endTime,omitempty"`
	Duration     int          `json:"duration"` // whole minutes
	Type         SessionType  `json:"type"`
	Productivity Productivity `json:"productivity,omitempty"`
}
