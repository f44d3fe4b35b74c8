// Package courses maintains the course catalog tasks reference. Colors are
// cycled from a fixed palette by creation order. Tasks hold course ids as
// weak references, so deleting a course never touches referencing tasks.
package courses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/storage"
	"github.com/studyflow/studyflow/internal/validation"
)

// Palette is the fixed set of course colors, assigned round-robin by
// creation order.
var Palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FECA57",
	"#FF9FF3", "#54A0FF", "#5F27CD", "#00D2D3", "#FF9F43",
	"#C44569", "#F8B500", "#6C5CE7", "#A29BFE", "#FD79A8",
}

// ErrCourseNotFound is returned for operations on a missing course id.
var ErrCourseNotFound = errors.New("course not found")

// Repository provides CRUD over the persisted course catalog.
type Repository struct {
	store storage.Store
	newID func() string

	mu sync.Mutex
}

// Option configures a Repository.
type Option func(*Repository)

// WithIDGenerator overrides the id source.
func WithIDGenerator(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

// NewRepository creates a course repository over the given store.
func NewRepository(store storage.Store, opts ...Option) *Repository {
	r := &Repository{store: store, newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Draft is the caller-supplied part of a new course.
type Draft struct {
	Code        string `validate:"required"`
	Name        string `validate:"required"`
	Professor   string
	Credits     *int
	TargetGrade *float64
}

// List returns all courses in creation order.
func (r *Repository) List(ctx context.Context) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Add creates a course, assigning the next palette color.
func (r *Repository) Add(ctx context.Context, draft Draft) (models.Course, error) {
	draft.Code = validation.SanitizeText(draft.Code)
	draft.Name = validation.SanitizeText(draft.Name)
	if err := validation.Validate.Struct(draft); err != nil {
		return models.Course{}, fmt.Errorf("invalid course: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.load(ctx)
	if err != nil {
		return models.Course{}, err
	}

	course := models.Course{
		ID:          r.newID(),
		Code:        draft.Code,
		Name:        draft.Name,
		Professor:   draft.Professor,
		Color:       Palette[len(courses)%len(Palette)],
		Credits:     draft.Credits,
		TargetGrade: draft.TargetGrade,
	}
	courses = append(courses, course)

	if err := r.persist(ctx, courses); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// Update replaces a course record, keeping its id and color.
func (r *Repository) Update(ctx context.Context, course models.Course) (models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.load(ctx)
	if err != nil {
		return models.Course{}, err
	}
	for i := range courses {
		if courses[i].ID == course.ID {
			course.Color = courses[i].Color
			courses[i] = course
			if err := r.persist(ctx, courses); err != nil {
				return models.Course{}, err
			}
			return course, nil
		}
	}
	return models.Course{}, ErrCourseNotFound
}

// Delete removes a course by id. Referencing tasks keep their courseId; the
// reference is weak by design.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.load(ctx)
	if err != nil {
		return err
	}
	filtered := courses[:0]
	for _, c := range courses {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == len(courses) {
		return ErrCourseNotFound
	}
	return r.persist(ctx, filtered)
}

// SeedDefaults populates an empty catalog with a starter set of common
// courses. A non-empty catalog is left untouched.
func (r *Repository) SeedDefaults(ctx context.Context) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(courses) > 0 {
		return courses, nil
	}

	defaults := []struct {
		code, name  string
		credits     int
		targetGrade float64
	}{
		{"CS101", "Introduction to Programming", 3, 90},
		{"MATH202", "Discrete Mathematics", 4, 85},
		{"ENG105", "Technical Writing", 3, 90},
	}
	for i, d := range defaults {
		credits := d.credits
		target := d.targetGrade
		courses = append(courses, models.Course{
			ID:          r.newID(),
			Code:        d.code,
			Name:        d.name,
			Color:       Palette[i%len(Palette)],
			Credits:     &credits,
			TargetGrade: &target,
		})
	}

	if err := r.persist(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Get returns a course by id.
func (r *Repository) Get(ctx context.Context, id string) (models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	courses, err := r.load(ctx)
	if err != nil {
		return models.Course{}, err
	}
	for _, c := range courses {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Course{}, ErrCourseNotFound
}

func (r *Repository) load(ctx context.Context) ([]models.Course, error) {
	data, err := r.store.Get(ctx, storage.KeyCourses)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []models.Course{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read courses: %w", err)
	}

	var courses []models.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}
	return courses, nil
}

func (r *Repository) persist(ctx context.Context, courses []models.Course) error {
	data, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("failed to encode courses: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeyCourses, data); err != nil {
		return fmt.Errorf("failed to write courses: %w", err)
	}
	return nil
}
