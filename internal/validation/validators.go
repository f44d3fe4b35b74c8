package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/studyflow/studyflow/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but panic loudly if they do
	if err := Validate.RegisterValidation("task_status", validateTaskStatus); err != nil {
		panic(fmt.Sprintf("failed to register task_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("task_priority", validateTaskPriority); err != nil {
		panic(fmt.Sprintf("failed to register task_priority validator: %v", err))
	}
	if err := Validate.RegisterValidation("task_type", validateTaskType); err != nil {
		panic(fmt.Sprintf("failed to register task_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("difficulty", validateDifficulty); err != nil {
		panic(fmt.Sprintf("failed to register difficulty validator: %v", err))
	}
	if err := Validate.RegisterValidation("resource_type", validateResourceType); err != nil {
		panic(fmt.Sprintf("failed to register resource_type validator: %v", err))
	}
}

// validateTaskStatus validates that a string is a valid TaskStatus enum value
func validateTaskStatus(fl validator.FieldLevel) bool {
	return ValidateTaskStatus(fl.Field().String()) == nil
}

// validateTaskPriority validates that a string is a valid TaskPriority enum value
func validateTaskPriority(fl validator.FieldLevel) bool {
	return ValidateTaskPriority(fl.Field().String()) == nil
}

// validateTaskType validates that a string is a valid TaskType enum value
func validateTaskType(fl validator.FieldLevel) bool {
	return ValidateTaskType(fl.Field().String()) == nil
}

// validateDifficulty validates that a string is a valid Difficulty enum value
func validateDifficulty(fl validator.FieldLevel) bool {
	return ValidateDifficulty(fl.Field().String()) == nil
}

// validateResourceType validates that a string is a valid ResourceType enum value
func validateResourceType(fl validator.FieldLevel) bool {
	switch models.ResourceType(fl.Field().String()) {
	case models.ResourceTypeLink, models.ResourceTypeFile, models.ResourceTypeNote,
		models.ResourceTypeVideo, models.ResourceTypeDocument:
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateTaskStatus validates a TaskStatus string value
func ValidateTaskStatus(value string) error {
	switch models.TaskStatus(value) {
	case models.TaskStatusToDo, models.TaskStatusInProgress, models.TaskStatusCompleted:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'to-do', 'in-progress', or 'completed')", value)
	}
}

// ValidateTaskPriority validates a TaskPriority string value
func ValidateTaskPriority(value string) error {
	switch models.TaskPriority(value) {
	case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		return nil
	default:
		return fmt.Errorf("invalid priority: %s (must be 'low', 'medium', or 'high')", value)
	}
}

// ValidateTaskType validates a TaskType string value
func ValidateTaskType(value string) error {
	switch models.TaskType(value) {
	case models.TaskTypeAssignment, models.TaskTypeExam, models.TaskTypeProject,
		models.TaskTypeReading, models.TaskTypeStudy, models.TaskTypeOther:
		return nil
	default:
		return fmt.Errorf("invalid task type: %s (must be 'assignment', 'exam', 'project', 'reading', 'study', or 'other')", value)
	}
}

// ValidateDifficulty validates a Difficulty string value
func ValidateDifficulty(value string) error {
	switch models.Difficulty(value) {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return nil
	default:
		return fmt.Errorf("invalid difficulty: %s (must be 'easy', 'medium', or 'hard')", value)
	}
}
