// Package priority computes the smart-priority score that ranks tasks by
// urgency (time pressure from the due date) and importance (intrinsic weight
// of the task). The computation is pure: deterministic given the task fields
// and a reference time, no I/O, and it never fails — absent inputs degrade to
// a zero contribution.
package priority

import (
	"time"

	"github.com/studyflow/studyflow/internal/models"
)

// Scores holds the three derived task scores.
type Scores struct {
	Urgency    float64 // 0-50, from due date alone
	Importance float64 // 0-50, from priority, type, weight and difficulty
	Smart      float64 // 0-100, clamp(urgency + importance)
}

// Urgency buckets by days-until-due.
const (
	urgencyOverdue   = 50
	urgencyDueToday  = 45 // within 1 day
	urgencyDueThisWk = 35 // 1-3 days
	urgencyDueSoon   = 25 // 3-7 days
	urgencyDueLater  = 15 // 7-14 days
	urgencyFarOff    = 5  // beyond 14 days
	urgencyNoDueDate = 0
)

var priorityPoints = map[models.TaskPriority]float64{
	models.TaskPriorityHigh:   20,
	models.TaskPriorityMedium: 12,
	models.TaskPriorityLow:    6,
}

var taskTypePoints = map[models.TaskType]float64{
	models.TaskTypeExam:       15,
	models.TaskTypeProject:    12,
	models.TaskTypeAssignment: 10,
	models.TaskTypeStudy:      8,
	models.TaskTypeReading:    6,
	models.TaskTypeOther:      5,
}

var difficultyMultiplier = map[models.Difficulty]float64{
	models.DifficultyHard:   1.2,
	models.DifficultyMedium: 1.0,
	models.DifficultyEasy:   0.8,
}

// Compute returns the urgency, importance and composite smart-priority scores
// for a task as of now.
func Compute(task models.Task, now time.Time) Scores {
	urgency := urgencyScore(task.DueDate, now)
	importance := importanceScore(task)
	return Scores{
		Urgency:    urgency,
		Importance: importance,
		Smart:      clamp(urgency+importance, 0, 100),
	}
}

// Apply computes the scores as of now and writes them onto the task.
func Apply(task *models.Task, now time.Time) {
	s := Compute(*task, now)
	task.UrgencyScore = &s.Urgency
	task.ImportanceScore = &s.Importance
	task.SmartPriority = &s.Smart
}

func urgencyScore(dueDate *time.Time, now time.Time) float64 {
	if dueDate == nil {
		return urgencyNoDueDate
	}
	days := dueDate.Sub(now).Hours() / 24

	switch {
	case days < 0:
		return urgencyOverdue
	case days <= 1:
		return urgencyDueToday
	case days <= 3:
		return urgencyDueThisWk
	case days <= 7:
		return urgencyDueSoon
	case days <= 14:
		return urgencyDueLater
	default:
		return urgencyFarOff
	}
}

func importanceScore(task models.Task) float64 {
	score := priorityPoints[task.Priority]
	score += taskTypePoints[task.TaskType]

	// Grading weight contributes up to 10 points, before the multiplier.
	if task.Weight != nil && *task.Weight > 0 {
		score += min(*task.Weight/5, 10)
	}

	if m, ok := difficultyMultiplier[task.Difficulty]; ok {
		score *= m
	}

	return clamp(score, 0, 50)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
