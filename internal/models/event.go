package models

import "time"

// EventType represents the kind of calendar entry
type EventType string

const (
	EventTypeClass      EventType = "class"
	EventTypeExam       EventType = "exam"
	EventTypeAssignment EventType = "assignment"
	EventTypeEvent      EventType = "event"
	EventTypeReminder   EventType = "reminder"
)

// Recurrence represents how often a calendar event repeats
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// CalendarEvent is a scheduled entry on the user's calendar. The alert
// dispatcher never consumes events; alerts are task-only.
type CalendarEvent struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Type        EventType  `json:"type"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Location    string     `json:"location,omitempty"`
	Color       string     `json:"color,omitempty"`
	Recurring   Recurrence `json:"recurring,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
