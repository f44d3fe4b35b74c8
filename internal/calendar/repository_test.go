package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/storage"
)

func TestRepository_AddAndListOnDate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepository(storage.NewMemoryStore())

	examDay := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	_, err := repo.Add(ctx, Draft{Title: "midterm", Type: models.EventTypeExam, StartDate: examDay})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, err = repo.Add(ctx, Draft{Title: "lecture", Type: models.EventTypeClass, StartDate: examDay.AddDate(0, 0, 1)})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	onDay, err := repo.OnDate(ctx, examDay)
	if err != nil {
		t.Fatalf("OnDate: %v", err)
	}
	if len(onDay) != 1 || onDay[0].Title != "midterm" {
		t.Errorf("OnDate = %+v, want just the midterm", onDay)
	}
}

func TestRepository_AddDefaults(t *testing.T) {
	t.Parallel()

	repo := NewRepository(storage.NewMemoryStore())
	event, err := repo.Add(context.Background(), Draft{Title: "t", StartDate: time.Now()})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if event.Type != models.EventTypeEvent {
		t.Errorf("Type = %s, want default %s", event.Type, models.EventTypeEvent)
	}
	if event.Recurring != models.RecurrenceNone {
		t.Errorf("Recurring = %s, want %s", event.Recurring, models.RecurrenceNone)
	}
}

func TestRepository_AddRequiresTitle(t *testing.T) {
	t.Parallel()

	repo := NewRepository(storage.NewMemoryStore())
	if _, err := repo.Add(context.Background(), Draft{StartDate: time.Now()}); err == nil {
		t.Error("expected error for empty title")
	}
}

func TestRepository_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepository(storage.NewMemoryStore())
	event, err := repo.Add(ctx, Draft{Title: "t", StartDate: time.Now()})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := repo.Delete(ctx, event.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, event.ID); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("second Delete: err = %v, want ErrEventNotFound", err)
	}
}
