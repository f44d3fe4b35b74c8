// Package tasks implements the task repository: CRUD over the persisted task
// collection with status/completed synchronization, smart-priority
// recomputation, and the completion event hook.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/priority"
	"github.com/studyflow/studyflow/internal/storage"
	"github.com/studyflow/studyflow/internal/validation"
)

// CompletionHook is invoked after a task transitions into completed.
type CompletionHook func(task models.Task)

// Repository provides atomic operations over the persisted task collection.
// All mutations run read-modify-write over the whole collection and are
// serialized behind one mutex, so the last-write-wins granularity of the
// store never loses a write to an interleaved operation.
type Repository struct {
	store      storage.Store
	log        *zap.Logger
	now        func() time.Time
	newID      func() string
	onComplete CompletionHook

	mu sync.Mutex
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

// WithCompletionHook registers the hook fired when a task transitions into
// completed via Update or UpdateStatus.
func WithCompletionHook(hook CompletionHook) Option {
	return func(r *Repository) { r.onComplete = hook }
}

// NewRepository creates a repository over the given store.
func NewRepository(store storage.Store, log *zap.Logger, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Draft is the caller-supplied part of a new task. Identifier, timestamps and
// derived scores are assigned by Create.
type Draft struct {
	Title         string              `validate:"required"`
	Description   string
	Completed     bool
	Status        models.TaskStatus   `validate:"omitempty,task_status"`
	Priority      models.TaskPriority `validate:"required,task_priority"`
	Category      string
	DueDate       *time.Time
	CourseID      string
	TaskType      models.TaskType   `validate:"omitempty,task_type"`
	EstimatedTime *int
	Difficulty    models.Difficulty `validate:"omitempty,difficulty"`
	Grade         *float64
	Weight        *float64
}

// Update is a partial field set applied to an existing task. Nil fields are
// left untouched. If both Status and Completed are given, Status wins.
type Update struct {
	Title         *string
	Description   *string
	Completed     *bool
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	Category      *string
	DueDate       *time.Time
	ClearDueDate  bool
	CourseID      *string
	TaskType      *models.TaskType
	EstimatedTime *int
	Difficulty    *models.Difficulty
	Grade         *float64
	Weight        *float64
}

// touchesScore reports whether the update changes a score-relevant field.
func (u Update) touchesScore() bool {
	return u.DueDate != nil || u.ClearDueDate || u.Priority != nil ||
		u.TaskType != nil || u.Difficulty != nil || u.Weight != nil
}

// ResourceDraft is the caller-supplied part of a new academic resource.
type ResourceDraft struct {
	Type        models.ResourceType `validate:"required,resource_type"`
	Title       string              `validate:"required"`
	URL         string
	Description string
}

// Load reads the full task collection. Records persisted by older versions
// get their defaults backfilled and missing scores computed. A missing
// collection yields an empty list; an unreadable one a StorageReadError.
func (r *Repository) Load(ctx context.Context) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *Repository) load(ctx context.Context) ([]models.Task, error) {
	data, err := r.store.Get(ctx, storage.KeyTasks)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []models.Task{}, nil
	}
	if err != nil {
		return nil, &StorageReadError{Err: err}
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &StorageReadError{Err: err}
	}

	now := r.now()
	for i := range tasks {
		tasks[i].Normalize()
		if tasks[i].SmartPriority == nil {
			priority.Apply(&tasks[i], now)
		}
	}
	return tasks, nil
}

func (r *Repository) persist(ctx context.Context, tasks []models.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return &StorageWriteError{Err: err}
	}
	if err := r.store.Set(ctx, storage.KeyTasks, data); err != nil {
		return &StorageWriteError{Err: err}
	}
	return nil
}

// Create materializes a draft into a stored task: assigns an id and
// timestamps, defaults the academic fields, computes the initial scores and
// appends it to the collection.
func (r *Repository) Create(ctx context.Context, draft Draft) (models.Task, error) {
	draft.Title = validation.SanitizeText(draft.Title)
	if draft.Title == "" {
		return models.Task{}, &ValidationError{Reason: "title must not be empty"}
	}
	if draft.Priority == "" {
		draft.Priority = models.TaskPriorityMedium
	}
	if err := validation.Validate.Struct(draft); err != nil {
		return models.Task{}, &ValidationError{Reason: err.Error()}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load(ctx)
	if err != nil {
		return models.Task{}, err
	}

	now := r.now()
	task := models.Task{
		ID:            r.newID(),
		Title:         draft.Title,
		Description:   draft.Description,
		Priority:      draft.Priority,
		Category:      draft.Category,
		DueDate:       draft.DueDate,
		CreatedAt:     now,
		UpdatedAt:     now,
		CourseID:      draft.CourseID,
		TaskType:      draft.TaskType,
		EstimatedTime: draft.EstimatedTime,
		Difficulty:    draft.Difficulty,
		Grade:         draft.Grade,
		Weight:        draft.Weight,
	}
	if draft.Status != "" {
		task.SetStatus(draft.Status)
	} else {
		task.SetCompleted(draft.Completed)
	}
	task.Normalize()
	priority.Apply(&task, now)

	tasks = append(tasks, task)
	if err := r.persist(ctx, tasks); err != nil {
		return models.Task{}, err
	}

	r.log.Debug("task created",
		zap.String("task_id", task.ID),
		zap.String("task_type", string(task.TaskType)),
		zap.Float64("smart_priority", *task.SmartPriority),
	)
	return task, nil
}

// Update applies a partial field set to a task. The completed/status
// invariant is re-established, scores are recomputed when a score-relevant
// field changed, and the completion hook fires on a false->true transition of
// the completed flag.
func (r *Repository) Update(ctx context.Context, id string, upd Update) (models.Task, error) {
	if upd.Title != nil {
		title := validation.SanitizeText(*upd.Title)
		if title == "" {
			return models.Task{}, &ValidationError{Reason: "title must not be empty"}
		}
		upd.Title = &title
	}

	r.mu.Lock()
	task, err := r.applyUpdate(ctx, id, upd)
	r.mu.Unlock()
	if err != nil {
		return models.Task{}, err
	}

	if task.completedNow && r.onComplete != nil {
		r.onComplete(task.task)
	}
	return task.task, nil
}

// UpdateStatus is the convenience path restricted to the status field.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status models.TaskStatus) (models.Task, error) {
	if err := validation.ValidateTaskStatus(string(status)); err != nil {
		return models.Task{}, &ValidationError{Reason: err.Error()}
	}
	return r.Update(ctx, id, Update{Status: &status})
}

type updated struct {
	task         models.Task
	completedNow bool
}

func (r *Repository) applyUpdate(ctx context.Context, id string, upd Update) (updated, error) {
	tasks, err := r.load(ctx)
	if err != nil {
		return updated{}, err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return updated{}, &NotFoundError{ID: id}
	}

	task := &tasks[idx]
	wasCompleted := task.Completed

	if upd.Title != nil {
		task.Title = *upd.Title
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Priority != nil {
		task.Priority = *upd.Priority
	}
	if upd.Category != nil {
		task.Category = *upd.Category
	}
	if upd.ClearDueDate {
		task.DueDate = nil
	} else if upd.DueDate != nil {
		task.DueDate = upd.DueDate
	}
	if upd.CourseID != nil {
		task.CourseID = *upd.CourseID
	}
	if upd.TaskType != nil {
		task.TaskType = *upd.TaskType
	}
	if upd.EstimatedTime != nil {
		task.EstimatedTime = upd.EstimatedTime
	}
	if upd.Difficulty != nil {
		task.Difficulty = *upd.Difficulty
	}
	if upd.Grade != nil {
		task.Grade = upd.Grade
	}
	if upd.Weight != nil {
		task.Weight = upd.Weight
	}

	// Status wins over completed when both are present.
	if upd.Status != nil {
		task.SetStatus(*upd.Status)
	} else if upd.Completed != nil {
		task.SetCompleted(*upd.Completed)
	}

	now := r.now()
	if upd.touchesScore() {
		priority.Apply(task, now)
	}
	task.UpdatedAt = now

	if err := r.persist(ctx, tasks); err != nil {
		return updated{}, err
	}

	return updated{task: *task, completedNow: !wasCompleted && task.Completed}, nil
}

// Delete removes a task by id. Deleting an id that does not exist is a
// silent success, matching the observed behavior of the app this replaces.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load(ctx)
	if err != nil {
		return err
	}

	filtered := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == len(tasks) {
		return nil
	}
	return r.persist(ctx, filtered)
}

// AddResource attaches a new academic resource to a task.
func (r *Repository) AddResource(ctx context.Context, taskID string, draft ResourceDraft) (models.Task, error) {
	draft.Title = validation.SanitizeText(draft.Title)
	if err := validation.Validate.Struct(draft); err != nil {
		return models.Task{}, &ValidationError{Reason: err.Error()}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load(ctx)
	if err != nil {
		return models.Task{}, err
	}
	idx := indexOf(tasks, taskID)
	if idx < 0 {
		return models.Task{}, &NotFoundError{ID: taskID}
	}

	now := r.now()
	tasks[idx].Resources = append(tasks[idx].Resources, models.AcademicResource{
		ID:          r.newID(),
		Type:        draft.Type,
		Title:       draft.Title,
		URL:         draft.URL,
		Description: draft.Description,
		AttachedAt:  now,
	})
	tasks[idx].UpdatedAt = now

	if err := r.persist(ctx, tasks); err != nil {
		return models.Task{}, err
	}
	return tasks[idx], nil
}

// RemoveResource detaches a resource from a task. A missing resource id is a
// silent success, like Delete.
func (r *Repository) RemoveResource(ctx context.Context, taskID, resourceID string) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load(ctx)
	if err != nil {
		return models.Task{}, err
	}
	idx := indexOf(tasks, taskID)
	if idx < 0 {
		return models.Task{}, &NotFoundError{ID: taskID}
	}

	resources := tasks[idx].Resources[:0]
	for _, res := range tasks[idx].Resources {
		if res.ID != resourceID {
			resources = append(resources, res)
		}
	}
	tasks[idx].Resources = resources
	tasks[idx].UpdatedAt = r.now()

	if err := r.persist(ctx, tasks); err != nil {
		return models.Task{}, err
	}
	return tasks[idx], nil
}

// AddStudySession appends a session to a task and rederives actualTime as the
// sum of all session durations.
func (r *Repository) AddStudySession(ctx context.Context, taskID string, session models.StudySession) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load(ctx)
	if err != nil {
		return models.Task{}, err
	}
	idx := indexOf(tasks, taskID)
	if idx < 0 {
		return models.Task{}, &NotFoundError{ID: taskID}
	}

	tasks[idx].StudySessions = append(tasks[idx].StudySessions, session)

	total := 0
	for _, s := range tasks[idx].StudySessions {
		total += s.Duration
	}
	tasks[idx].ActualTime = &total
	tasks[idx].UpdatedAt = r.now()

	if err := r.persist(ctx, tasks); err != nil {
		return models.Task{}, err
	}
	return tasks[idx], nil
}

// RecalculateAll recomputes the scores of every non-completed task, advancing
// urgency as due dates approach. Completed tasks keep their frozen scores.
// Intended to be invoked periodically by the caller; nothing schedules it here.
func (r *Repository) RecalculateAll(ctx context.Context) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now()
	for i := range tasks {
		if tasks[i].Completed {
			continue
		}
		priority.Apply(&tasks[i], now)
	}

	if err := r.persist(ctx, tasks); err != nil {
		return nil, err
	}
	r.log.Debug("recalculated smart priorities", zap.Int("tasks", len(tasks)))
	return tasks, nil
}

func indexOf(tasks []models.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
