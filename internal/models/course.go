package models

// Course is a class a task can reference. Tasks hold the course id as a weak
// reference only: deleting a course does not touch referencing tasks.
type Course struct {
	ID           string   `json:"id"`
	Code         string   `json:"code"` // CS101, MATH202, ...
	Name         string   `json:"name"`
	Professor    string   `json:"professor,omitempty"`
	Color        string   `json:"color"`
	Credits      *int     `json:"credits,omitempty"`
	CurrentGrade *float64 `json:"currentGrade,omitempty"`
	TargetGrade  *float64 `json:"targetGrade,omitempty"`
}
