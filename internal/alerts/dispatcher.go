// Package alerts decides which due-date banner to surface for the current
// task list and emits completion celebrations. Presentation is injected by
// the host as plain callbacks; the dispatcher only applies policy.
package alerts

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/studyflow/studyflow/internal/models"
)

// Urgency classifies a task's due-date pressure for visual indicators.
type Urgency string

const (
	UrgencyOverdue  Urgency = "overdue"
	UrgencyDueToday Urgency = "due-today"
	UrgencyDueSoon  Urgency = "due-soon"
	UrgencyNormal   Urgency = "normal"
)

// Callbacks are the presentation functions the host screen injects.
type Callbacks struct {
	ShowSuccess func(title, message string)
	ShowWarning func(title, message string)
	ShowError   func(title, message string)
	ShowInfo    func(title, message string)
}

// maxListedTasks caps how many titles an alert spells out.
const maxListedTasks = 3

var celebrations = []string{
	"Awesome! You completed a task!",
	"Great job finishing that task!",
	"One step closer to your goals!",
	"You're crushing it today!",
	"Task conquered! Keep going!",
}

var motivations = []string{
	"Ready to tackle your tasks today?",
	"Let's make today productive!",
	"Time to achieve your goals!",
	"Every task completed is progress!",
	"Focus on what matters most today!",
}

// Dispatcher applies the alert precedence policy. Safe for concurrent use.
type Dispatcher struct {
	log  *zap.Logger
	now  func() time.Time
	pick func(n int) int

	mu           sync.Mutex
	callbacks    *Callbacks
	shownTodayOn string // calendar day the due-today alert was last shown
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithPicker overrides the random phrase selector.
func WithPicker(pick func(n int) int) Option {
	return func(d *Dispatcher) { d.pick = pick }
}

// NewDispatcher creates a dispatcher. Callbacks must be injected via
// SetCallbacks before any alert can surface.
func NewDispatcher(log *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		log:  log,
		now:  time.Now,
		pick: rand.Intn,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetCallbacks injects the presentation functions.
func (d *Dispatcher) SetCallbacks(cb Callbacks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks = &cb
}

// CheckAndShowAlerts surfaces at most one banner per check, in strict
// precedence: overdue beats due-today beats due-soon. The due-today alert
// fires once per calendar day.
func (d *Dispatcher) CheckAndShowAlerts(tasks []models.Task) {
	d.mu.Lock()
	cb := d.callbacks
	now := d.now()
	today := now.Format("2006-01-02")
	shownToday := d.shownTodayOn == today
	d.mu.Unlock()

	if cb == nil {
		d.log.Debug("alert check skipped, no callbacks injected")
		return
	}

	var overdue, dueToday, dueSoon []models.Task
	for _, task := range tasks {
		switch TaskUrgency(task, now) {
		case UrgencyOverdue:
			overdue = append(overdue, task)
		case UrgencyDueToday:
			dueToday = append(dueToday, task)
		case UrgencyDueSoon:
			dueSoon = append(dueSoon, task)
		}
	}

	if len(overdue) > 0 {
		cb.ShowError("Overdue tasks!", overdueMessage(overdue))
		return
	}

	if len(dueToday) > 0 && !shownToday {
		cb.ShowWarning("Tasks due today!", dueTodayMessage(dueToday))
		d.mu.Lock()
		d.shownTodayOn = today
		d.mu.Unlock()
		return
	}

	if len(dueSoon) > 0 {
		cb.ShowInfo("Tasks due soon",
			fmt.Sprintf("You have %d task%s due in the next 2 days. Plan ahead to stay on track!",
				len(dueSoon), plural(len(dueSoon))))
	}
}

// CompletionCelebration surfaces a randomly chosen celebration for a task
// that just transitioned into completed.
func (d *Dispatcher) CompletionCelebration(task models.Task) {
	d.mu.Lock()
	cb := d.callbacks
	d.mu.Unlock()
	if cb == nil {
		return
	}

	phrase := celebrations[d.pick(len(celebrations))]
	cb.ShowSuccess(phrase, fmt.Sprintf("%q has been completed!", task.Title))
}

// DailyMotivation surfaces a morning motivation message.
func (d *Dispatcher) DailyMotivation() {
	d.mu.Lock()
	cb := d.callbacks
	d.mu.Unlock()
	if cb == nil {
		return
	}

	cb.ShowInfo("Good morning, Champion!", motivations[d.pick(len(motivations))])
}

// ResetDailyFlags clears the shown-today flag. The flag also expires on its
// own at the next calendar day, so this is only needed by hosts that manage
// day boundaries themselves.
func (d *Dispatcher) ResetDailyFlags() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shownTodayOn = ""
}

// TaskUrgency classifies a task's due-date pressure as of now. Completed
// tasks and tasks without a due date are normal.
func TaskUrgency(task models.Task, now time.Time) Urgency {
	if task.DueDate == nil || task.Completed {
		return UrgencyNormal
	}

	due := *task.DueDate
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	dayAfterTomorrow := today.AddDate(0, 0, 2)

	switch {
	case due.Before(now):
		return UrgencyOverdue
	case due.Before(tomorrow):
		return UrgencyDueToday
	case !due.After(dayAfterTomorrow):
		return UrgencyDueSoon
	default:
		return UrgencyNormal
	}
}

func overdueMessage(overdue []models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d overdue task%s:\n\n", len(overdue), plural(len(overdue)))
	b.WriteString(listTitles(overdue))
	b.WriteString("\nTime to catch up!")
	return b.String()
}

func dueTodayMessage(dueToday []models.Task) string {
	highPriority := 0
	for _, task := range dueToday {
		if task.Priority == models.TaskPriorityHigh {
			highPriority++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d task%s due today", len(dueToday), plural(len(dueToday)))
	if highPriority > 0 {
		fmt.Fprintf(&b, " (%d high priority!)", highPriority)
	}
	b.WriteString(":\n\n")
	b.WriteString(listTitles(dueToday))
	b.WriteString("\nLet's get them done!")
	return b.String()
}

func listTitles(tasks []models.Task) string {
	var b strings.Builder
	for i, task := range tasks {
		if i == maxListedTasks {
			fmt.Fprintf(&b, "... and %d more\n", len(tasks)-maxListedTasks)
			break
		}
		fmt.Fprintf(&b, "- %s\n", task.Title)
	}
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
