package alerts

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/studyflow/studyflow/internal/models"
)

type captured struct {
	kind    string
	title   string
	message string
}

func capturingCallbacks(sink *[]captured) Callbacks {
	record := func(kind string) func(title, message string) {
		return func(title, message string) {
			*sink = append(*sink, captured{kind: kind, title: title, message: message})
		}
	}
	return Callbacks{
		ShowSuccess: record("success"),
		ShowWarning: record("warning"),
		ShowError:   record("error"),
		ShowInfo:    record("info"),
	}
}

func dueIn(now time.Time, d time.Duration) *time.Time {
	due := now.Add(d)
	return &due
}

func newTestDispatcher(now time.Time, sink *[]captured) *Dispatcher {
	d := NewDispatcher(zap.NewNop(),
		WithClock(func() time.Time { return now }),
		WithPicker(func(int) int { return 0 }),
	)
	d.SetCallbacks(capturingCallbacks(sink))
	return d
}

func TestTaskUrgency(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task models.Task
		want Urgency
	}{
		{"no due date", models.Task{Title: "t"}, UrgencyNormal},
		{"completed overdue", models.Task{Title: "t", Completed: true, DueDate: dueIn(now, -time.Hour)}, UrgencyNormal},
		{"overdue", models.Task{Title: "t", DueDate: dueIn(now, -time.Hour)}, UrgencyOverdue},
		{"later today", models.Task{Title: "t", DueDate: dueIn(now, 6*time.Hour)}, UrgencyDueToday},
		{"tomorrow", models.Task{Title: "t", DueDate: dueIn(now, 24*time.Hour)}, UrgencyDueSoon},
		{"in three days", models.Task{Title: "t", DueDate: dueIn(now, 72*time.Hour)}, UrgencyNormal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TaskUrgency(tt.task, now); got != tt.want {
				t.Errorf("TaskUrgency = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCheckAndShowAlerts_OverdueSuppressesEverythingElse(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	var got []captured
	d := newTestDispatcher(now, &got)

	d.CheckAndShowAlerts([]models.Task{
		{ID: "1", Title: "late essay", DueDate: dueIn(now, -2*time.Hour)},
		{ID: "2", Title: "quiz prep", DueDate: dueIn(now, 4*time.Hour)},
	})

	if len(got) != 1 {
		t.Fatalf("got %d alerts, want 1", len(got))
	}
	if got[0].kind != "error" {
		t.Errorf("kind = %s, want error", got[0].kind)
	}
}

func TestCheckAndShowAlerts_OverdueListsAtMostThreeTitles(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	var got []captured
	d := newTestDispatcher(now, &got)

	tasks := make([]models.Task, 5)
	for i := range tasks {
		tasks[i] = models.Task{ID: string(rune('a' + i)), Title: "task " + string(rune('a'+i)), DueDate: dueIn(now, -time.Hour)}
	}
	d.CheckAndShowAlerts(tasks)

	if len(got) != 1 {
		t.Fatalf("got %d alerts, want 1", len(got))
	}
	msg := got[0].message
	for _, want := range []string{"task a", "task b", "task c", "... and 2 more"} {
		if !contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if contains(msg, "task d") {
		t.Errorf("message lists a fourth task:\n%s", msg)
	}
}

func TestCheckAndShowAlerts_DueTodayShownOncePerDay(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	var got []captured
	d := newTestDispatcher(now, &got)

	tasks := []models.Task{
		{ID: "1", Title: "lab report", Priority: models.TaskPriorityHigh, DueDate: dueIn(now, 6*time.Hour)},
	}

	d.CheckAndShowAlerts(tasks)
	d.CheckAndShowAlerts(tasks)

	if len(got) != 1 {
		t.Fatalf("got %d alerts, want 1 (flag suppresses the repeat)", len(got))
	}
	if got[0].kind != "warning" {
		t.Errorf("kind = %s, want warning", got[0].kind)
	}
	if !contains(got[0].message, "1 high priority") {
		t.Errorf("message missing high-priority count:\n%s", got[0].message)
	}
}

func TestCheckAndShowAlerts_ShownTodayFlagExpiresAtMidnight(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC)
	var got []captured
	d := NewDispatcher(zap.NewNop(),
		WithClock(func() time.Time { return now }),
		WithPicker(func(int) int { return 0 }),
	)
	d.SetCallbacks(capturingCallbacks(&got))

	d.CheckAndShowAlerts([]models.Task{{ID: "1", Title: "t", DueDate: dueIn(now, 30*time.Minute)}})

	// the clock crosses midnight
	now = now.Add(2 * time.Hour)
	d.CheckAndShowAlerts([]models.Task{{ID: "2", Title: "u", DueDate: dueIn(now, 30*time.Minute)}})

	if len(got) != 2 {
		t.Fatalf("got %d alerts, want 2 (flag auto-resets at the day boundary)", len(got))
	}
}

func TestCheckAndShowAlerts_DueSoonIsCountOnly(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	var got []captured
	d := newTestDispatcher(now, &got)

	// burn the due-today flag first so only due-soon tasks remain relevant
	d.CheckAndShowAlerts([]models.Task{{ID: "0", Title: "today", DueDate: dueIn(now, time.Hour)}})
	got = got[:0]

	d.CheckAndShowAlerts([]models.Task{
		{ID: "1", Title: "reading ch. 4", DueDate: dueIn(now, 30*time.Hour)},
		{ID: "2", Title: "problem set", DueDate: dueIn(now, 34*time.Hour)},
	})

	if len(got) != 1 {
		t.Fatalf("got %d alerts, want 1", len(got))
	}
	if got[0].kind != "info" {
		t.Errorf("kind = %s, want info", got[0].kind)
	}
	if !contains(got[0].message, "2 tasks") {
		t.Errorf("message missing count:\n%s", got[0].message)
	}
	if contains(got[0].message, "reading ch. 4") {
		t.Errorf("due-soon alert should not list titles:\n%s", got[0].message)
	}
}

func TestCompletionCelebration(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	var got []captured
	d := newTestDispatcher(now, &got)

	d.CompletionCelebration(models.Task{ID: "1", Title: "essay draft"})

	if len(got) != 1 {
		t.Fatalf("got %d alerts, want 1", len(got))
	}
	if got[0].kind != "success" {
		t.Errorf("kind = %s, want success", got[0].kind)
	}
	if got[0].title != celebrations[0] {
		t.Errorf("title = %q, want first phrase with pinned picker", got[0].title)
	}
	if !contains(got[0].message, "essay draft") {
		t.Errorf("message missing task title:\n%s", got[0].message)
	}
}

func TestDispatcher_NoCallbacksIsSafe(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	d := NewDispatcher(zap.NewNop(), WithClock(func() time.Time { return now }))

	// must not panic
	d.CheckAndShowAlerts([]models.Task{{ID: "1", Title: "t", DueDate: dueIn(now, -time.Hour)}})
	d.CompletionCelebration(models.Task{ID: "1", Title: "t"})
	d.DailyMotivation()
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
