package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/storage"
)

func newTestRepository(t *testing.T, opts ...Option) *Repository {
	t.Helper()

	seq := 0
	base := []Option{
		WithClock(func() time.Time {
			return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
		}),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	}
	return NewRepository(storage.NewMemoryStore(), zap.NewNop(), append(base, opts...)...)
}

func TestRepository_LoadEmptyStore(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	tasks, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestRepository_LoadUnreadableStore(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), storage.KeyTasks, []byte("not json")))

	repo := NewRepository(store, zap.NewNop())
	_, err := repo.Load(context.Background())

	var readErr *StorageReadError
	assert.True(t, errors.As(err, &readErr), "want StorageReadError, got %v", err)
}

func TestRepository_LoadBackfillsLegacyRecords(t *testing.T) {
	t.Parallel()

	// A record persisted before status, academic fields and scores existed.
	legacy := `[{"id":"old","title":"legacy","completed":true,"priority":"high","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}]`
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), storage.KeyTasks, []byte(legacy)))

	repo := NewRepository(store, zap.NewNop())
	tasks, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	assert.Equal(t, models.TaskStatusCompleted, got.Status)
	assert.Equal(t, models.TaskTypeOther, got.TaskType)
	assert.Equal(t, models.DifficultyMedium, got.Difficulty)
	assert.NotNil(t, got.Resources)
	assert.NotNil(t, got.StudySessions)
	require.NotNil(t, got.SmartPriority)
	require.NotNil(t, got.UrgencyScore)
	require.NotNil(t, got.ImportanceScore)
}

func TestRepository_CreateValidation(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	tests := []struct {
		name  string
		draft Draft
	}{
		{"empty title", Draft{Title: "", Priority: models.TaskPriorityHigh}},
		{"whitespace title", Draft{Title: "  \t ", Priority: models.TaskPriorityHigh}},
		{"bad priority", Draft{Title: "t", Priority: models.TaskPriority("urgent")}},
		{"bad status", Draft{Title: "t", Priority: models.TaskPriorityLow, Status: models.TaskStatus("done")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(context.Background(), tt.draft)
			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr), "want ValidationError, got %v", err)
		})
	}
}

func TestRepository_CreateMaterializesDraft(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	due := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC) // 12h out
	weight := 50.0

	task, err := repo.Create(context.Background(), Draft{
		Title:      "final exam",
		Priority:   models.TaskPriorityHigh,
		TaskType:   models.TaskTypeExam,
		Difficulty: models.DifficultyHard,
		Weight:     &weight,
		DueDate:    &due,
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", task.ID)
	assert.Equal(t, models.TaskStatusToDo, task.Status)
	assert.False(t, task.Completed)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	require.NotNil(t, task.SmartPriority)
	assert.Equal(t, 95.0, *task.SmartPriority)

	// and it is persisted
	tasks, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
}

func TestRepository_UpdateNotFound(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	title := "x"
	_, err := repo.Update(context.Background(), "missing", Update{Title: &title})

	var nfErr *NotFoundError
	require.True(t, errors.As(err, &nfErr), "want NotFoundError, got %v", err)
	assert.Equal(t, "missing", nfErr.ID)
}

func TestRepository_UpdateSyncsStatusAndCompleted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository(t)
	task, err := repo.Create(ctx, Draft{Title: "t", Priority: models.TaskPriorityMedium})
	require.NoError(t, err)

	// completed implies status
	completed := true
	got, err := repo.Update(ctx, task.ID, Update{Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, got.Status)

	// status wins when both are given
	status := models.TaskStatusInProgress
	got, err = repo.Update(ctx, task.ID, Update{Status: &status, Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, got.Status)
	assert.False(t, got.Completed)

	// invariant after every mutation
	assert.Equal(t, got.Completed, got.Status == models.TaskStatusCompleted)
}

func TestRepository_UpdateRecomputesScoreOnRelevantChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository(t)
	task, err := repo.Create(ctx, Draft{Title: "t", Priority: models.TaskPriorityLow})
	require.NoError(t, err)
	before := *task.SmartPriority

	high := models.TaskPriorityHigh
	got, err := repo.Update(ctx, task.ID, Update{Priority: &high})
	require.NoError(t, err)
	assert.Greater(t, *got.SmartPriority, before)

	// a non-score field leaves the score untouched
	desc := "notes"
	got2, err := repo.Update(ctx, task.ID, Update{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, *got.SmartPriority, *got2.SmartPriority)
}

func TestRepository_CompletionHookFiresOnTransitionOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var fired []string
	repo := newTestRepository(t, WithCompletionHook(func(task models.Task) {
		fired = append(fired, task.ID)
	}))

	task, err := repo.Create(ctx, Draft{Title: "t", Priority: models.TaskPriorityMedium})
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, task.ID, models.TaskStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, []string{task.ID}, fired)

	// already completed: no second event
	_, err = repo.UpdateStatus(ctx, task.ID, models.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Len(t, fired, 1)

	// back and forth fires again
	_, err = repo.UpdateStatus(ctx, task.ID, models.TaskStatusToDo)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, task.ID, models.TaskStatusCompleted)
	require.NoError(t, err)
	assert.Len(t, fired, 2)
}

func TestRepository_DeleteMissingIsSilent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository(t)
	require.NoError(t, repo.Delete(ctx, "never-existed"))

	task, err := repo.Create(ctx, Draft{Title: "t", Priority: models.TaskPriorityMedium})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, task.ID))

	tasks, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestRepository_Resources(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository(t)
	task, err := repo.Create(ctx, Draft{Title: "t", Priority: models.TaskPriorityMedium})
	require.NoError(t, err)

	got, err := repo.AddResource(ctx, task.ID, ResourceDraft{
		Type:  models.ResourceTypeLink,
		Title: "lecture slides",
		URL:   "https://example.edu/slides",
	})
	require.NoError(t, err)
	require.Len(t, got.Resources, 1)
	assert.NotEmpty(t, got.Resources[0].ID)
	assert.False(t, got.Resources[0].AttachedAt.IsZero())

	// untitled resources are rejected
	_, err = repo.AddResource(ctx, task.ID, ResourceDraft{Type: models.ResourceTypeNote})
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))

	got, err = repo.RemoveResource(ctx, task.ID, got.Resources[0].ID)
	require.NoError(t, err)
	assert.Empty(t, got.Resources)
}

func TestRepository_AddStudySessionDerivesActualTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newTestRepository(t)
	task, err := repo.Create(ctx, Draft{Title: "t", Priority: models.TaskPriorityMedium})
	require.NoError(t, err)

	start := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	for i, minutes := range []int{25, 15} {
		_, err = repo.AddStudySession(ctx, task.ID, models.StudySession{
			ID:        fmt.Sprintf("s-%d", i),
			TaskID:    task.ID,
			StartTime: start,
			Duration:  minutes,
			Type:      models.SessionTypeFocus,
		})
		require.NoError(t, err)
	}

	tasks, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].ActualTime)
	assert.Equal(t, 40, *tasks[0].ActualTime)
}

func TestRepository_RecalculateAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	repo := newTestRepository(t, WithClock(func() time.Time { return clock }))

	due := clock.Add(5 * 24 * time.Hour)
	open, err := repo.Create(ctx, Draft{Title: "open", Priority: models.TaskPriorityMedium, DueDate: &due})
	require.NoError(t, err)
	done, err := repo.Create(ctx, Draft{Title: "done", Priority: models.TaskPriorityMedium, DueDate: &due})
	require.NoError(t, err)
	done, err = repo.UpdateStatus(ctx, done.ID, models.TaskStatusCompleted)
	require.NoError(t, err)
	frozen := *done.SmartPriority

	// idempotent while the clock stands still
	first, err := repo.RecalculateAll(ctx)
	require.NoError(t, err)
	second, err := repo.RecalculateAll(ctx)
	require.NoError(t, err)
	for i := range first {
		assert.Equal(t, *first[i].SmartPriority, *second[i].SmartPriority)
	}

	// a week passes: the open task becomes due-today, the completed one is frozen
	clock = clock.Add(4*24*time.Hour + 12*time.Hour)
	recalced, err := repo.RecalculateAll(ctx)
	require.NoError(t, err)
	for _, task := range recalced {
		switch task.ID {
		case open.ID:
			assert.Equal(t, 45.0, *task.UrgencyScore)
		case done.ID:
			assert.Equal(t, frozen, *task.SmartPriority)
		}
	}
}
