// Package calendar stores the user's calendar events. Events are a collaborator
// of the core only: the alert dispatcher never reads them.
package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/storage"
	"github.com/studyflow/studyflow/internal/validation"
)

// ErrEventNotFound is returned for operations on a missing event id.
var ErrEventNotFound = errors.New("calendar event not found")

// Repository provides CRUD over the persisted calendar events.
type Repository struct {
	store storage.Store
	now   func() time.Time
	newID func() string

	mu sync.Mutex
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

// NewRepository creates a calendar repository over the given store.
func NewRepository(store storage.Store, opts ...Option) *Repository {
	r := &Repository{store: store, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Draft is the caller-supplied part of a new calendar event.
type Draft struct {
	Title       string `validate:"required"`
	Description string
	Type        models.EventType
	StartDate   time.Time `validate:"required"`
	EndDate     *time.Time
	Location    string
	Color       string
	Recurring   models.Recurrence
}

// List returns all events.
func (r *Repository) List(ctx context.Context) ([]models.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// OnDate returns events whose start date falls on the given calendar day.
func (r *Repository) OnDate(ctx context.Context, day time.Time) ([]models.CalendarEvent, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	key := day.Format("2006-01-02")
	var out []models.CalendarEvent
	for _, e := range events {
		if e.StartDate.In(day.Location()).Format("2006-01-02") == key {
			out = append(out, e)
		}
	}
	return out, nil
}

// Add creates an event.
func (r *Repository) Add(ctx context.Context, draft Draft) (models.CalendarEvent, error) {
	draft.Title = validation.SanitizeText(draft.Title)
	if err := validation.Validate.Struct(draft); err != nil {
		return models.CalendarEvent{}, fmt.Errorf("invalid event: %w", err)
	}
	if draft.Type == "" {
		draft.Type = models.EventTypeEvent
	}
	if draft.Recurring == "" {
		draft.Recurring = models.RecurrenceNone
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := r.load(ctx)
	if err != nil {
		return models.CalendarEvent{}, err
	}

	now := r.now()
	event := models.CalendarEvent{
		ID:          r.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Type:        draft.Type,
		StartDate:   draft.StartDate,
		EndDate:     draft.EndDate,
		Location:    draft.Location,
		Color:       draft.Color,
		Recurring:   draft.Recurring,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	events = append(events, event)

	if err := r.persist(ctx, events); err != nil {
		return models.CalendarEvent{}, err
	}
	return event, nil
}

// Delete removes an event by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := r.load(ctx)
	if err != nil {
		return err
	}
	filtered := events[:0]
	for _, e := range events {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == len(events) {
		return ErrEventNotFound
	}
	return r.persist(ctx, filtered)
}

func (r *Repository) load(ctx context.Context) ([]models.CalendarEvent, error) {
	data, err := r.store.Get(ctx, storage.KeyCalendarEvents)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []models.CalendarEvent{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar events: %w", err)
	}

	var events []models.CalendarEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to decode calendar events: %w", err)
	}
	return events, nil
}

func (r *Repository) persist(ctx context.Context, events []models.CalendarEvent) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to encode calendar events: %w", err)
	}
	if err := r.store.Set(ctx, storage.KeyCalendarEvents, data); err != nil {
		return fmt.Errorf("failed to write calendar events: %w", err)
	}
	return nil
}
