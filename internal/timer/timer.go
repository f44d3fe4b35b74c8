// Package timer implements the study timer: a single countdown cycling
// between focus and break sessions on a Pomodoro cadence, notifying
// subscribers on every state change and persisting completed sessions.
package timer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/notify"
	"github.com/studyflow/studyflow/internal/storage"
)

// Status is the timer's lifecycle state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// Session lengths in seconds.
const (
	FocusDuration      = 25 * 60
	ShortBreakDuration = 5 * 60
	LongBreakDuration  = 15 * 60

	// Every 4th completed focus session earns the long break.
	sessionsPerLongBreak = 4

	// Sessions stopped before a minute has elapsed are discarded.
	minPersistSeconds = 60
)

// ErrTimerActive is returned by operations that are only legal while idle.
var ErrTimerActive = errors.New("timer is active")

// State is a snapshot of the timer handed to subscribers.
type State struct {
	Status            Status
	TimeLeft          int // seconds remaining
	InitialTime       int // seconds, session length
	SessionType       models.SessionType
	CompletedSessions int // lifetime focus-session counter
	CurrentTaskID     string
	CurrentSession    *models.StudySession
}

// SessionSink receives persisted sessions tied to a real task, keeping the
// task's embedded session list (and its derived actualTime) in step with the
// flat session log. The task repository satisfies this.
type SessionSink interface {
	AddStudySession(ctx context.Context, taskID string, session models.StudySession) (models.Task, error)
}

// TickerFactory creates the 1-second tick source. Tests swap in a channel
// they control.
type TickerFactory func(d time.Duration) (ticks <-chan time.Time, stop func())

// Timer is the countdown state machine. All exported methods are safe for
// concurrent use.
type Timer struct {
	store    storage.Store
	notifier notify.Notifier
	sink     SessionSink
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
	ticker   TickerFactory

	focusSeconds      int
	shortBreakSeconds int
	longBreakSeconds  int

	mu         sync.Mutex
	state      State
	current    *models.StudySession
	stopTicker func()
	tickDone   chan struct{}

	listenerMu   sync.Mutex
	listeners    map[int]func(State)
	nextListener int
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) { t.now = now }
}

// WithIDGenerator overrides the session id source.
func WithIDGenerator(newID func() string) Option {
	return func(t *Timer) { t.newID = newID }
}

// WithSessionSink routes persisted task-bound sessions into the repository.
func WithSessionSink(sink SessionSink) Option {
	return func(t *Timer) { t.sink = sink }
}

// WithTickerFactory overrides the tick source.
func WithTickerFactory(f TickerFactory) Option {
	return func(t *Timer) { t.ticker = f }
}

// WithPresets overrides the session lengths, in minutes. Zero values keep the
// built-in defaults.
func WithPresets(focus, shortBreak, longBreak int) Option {
	return func(t *Timer) {
		if focus > 0 {
			t.focusSeconds = focus * 60
		}
		if shortBreak > 0 {
			t.shortBreakSeconds = shortBreak * 60
		}
		if longBreak > 0 {
			t.longBreakSeconds = longBreak * 60
		}
	}
}

// New creates an idle focus timer with the default 25-minute session.
func New(store storage.Store, notifier notify.Notifier, log *zap.Logger, opts ...Option) *Timer {
	t := &Timer{
		store:             store,
		notifier:          notifier,
		log:               log,
		now:               time.Now,
		newID:             uuid.NewString,
		listeners:         make(map[int]func(State)),
		focusSeconds:      FocusDuration,
		shortBreakSeconds: ShortBreakDuration,
		longBreakSeconds:  LongBreakDuration,
		ticker: func(d time.Duration) (<-chan time.Time, func()) {
			tk := time.NewTicker(d)
			return tk.C, tk.Stop
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.state = State{
		Status:      StatusIdle,
		TimeLeft:    t.focusSeconds,
		InitialTime: t.focusSeconds,
		SessionType: models.SessionTypeFocus,
	}
	return t
}

// Subscribe registers a callback invoked synchronously with a state snapshot
// on every state-affecting transition, ticks included. The returned
// unsubscribe function is idempotent.
func (t *Timer) Subscribe(fn func(State)) (unsubscribe func()) {
	t.listenerMu.Lock()
	id := t.nextListener
	t.nextListener++
	t.listeners[id] = fn
	t.listenerMu.Unlock()

	return func() {
		t.listenerMu.Lock()
		delete(t.listeners, id)
		t.listenerMu.Unlock()
	}
}

// GetState returns a snapshot of the current state.
func (t *Timer) GetState() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Start begins or resumes the countdown. A fresh start (full time remaining)
// opens a new session draft; resuming from pause keeps the existing one.
// Starting a running timer is a no-op.
func (t *Timer) Start(taskID string) {
	t.mu.Lock()
	if t.state.Status == StatusRunning {
		t.mu.Unlock()
		return
	}

	if taskID != "" {
		t.state.CurrentTaskID = taskID
	}

	if t.current == nil || t.state.TimeLeft == t.state.InitialTime {
		id := t.state.CurrentTaskID
		if id == "" {
			id = models.GeneralTaskID
		}
		t.current = &models.StudySession{
			ID:        t.newID(),
			TaskID:    id,
			StartTime: t.now(),
			Duration:  0,
			Type:      t.state.SessionType,
		}
	}

	t.state.Status = StatusRunning
	t.startTickLoopLocked()
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.notifyListeners(snapshot)
}

// Pause suspends the countdown, keeping the remaining time and the session
// draft. Pausing a timer that is not running is a no-op.
func (t *Timer) Pause() {
	t.mu.Lock()
	if t.state.Status != StatusRunning {
		t.mu.Unlock()
		return
	}

	t.stopTickLoopLocked()
	t.state.Status = StatusPaused
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	t.notifyListeners(snapshot)
}

// Stop aborts the countdown and resets the remaining time. A session that ran
// at least a minute is persisted with partial credit; shorter drafts are
// discarded.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.stopTickLoopLocked()

	var toSave *models.StudySession
	elapsed := t.state.InitialTime - t.state.TimeLeft
	if t.current != nil && elapsed >= minPersistSeconds {
		end := t.now()
		t.current.EndTime = &end
		t.current.Duration = elapsed / 60
		toSave = t.current
	}

	t.current = nil
	t.state.Status = StatusIdle
	t.state.TimeLeft = t.state.InitialTime
	t.state.CurrentTaskID = ""
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	if toSave != nil {
		t.saveSession(*toSave)
	}
	t.notifyListeners(snapshot)
}

// SetDuration sets the session length in minutes. Only legal while idle.
func (t *Timer) SetDuration(minutes int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Status != StatusIdle {
		return ErrTimerActive
	}
	t.state.InitialTime = minutes * 60
	t.state.TimeLeft = minutes * 60
	return nil
}

// SwitchSessionType switches between focus and break while idle, resetting
// the session length per the break cadence.
func (t *Timer) SwitchSessionType(sessionType models.SessionType) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Status != StatusIdle {
		return ErrTimerActive
	}
	t.switchSessionTypeLocked(sessionType)
	return nil
}

func (t *Timer) switchSessionTypeLocked(sessionType models.SessionType) {
	t.state.SessionType = sessionType

	seconds := t.focusSeconds
	if sessionType == models.SessionTypeBreak {
		if t.state.CompletedSessions > 0 && t.state.CompletedSessions%sessionsPerLongBreak == 0 {
			seconds = t.longBreakSeconds
		} else {
			seconds = t.shortBreakSeconds
		}
	}
	t.state.InitialTime = seconds
	t.state.TimeLeft = seconds
}

func (t *Timer) startTickLoopLocked() {
	ticks, stop := t.ticker(time.Second)
	done := make(chan struct{})
	t.stopTicker = stop
	t.tickDone = done

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticks:
				t.tick()
			}
		}
	}()
}

func (t *Timer) stopTickLoopLocked() {
	if t.stopTicker != nil {
		t.stopTicker()
		t.stopTicker = nil
	}
	if t.tickDone != nil {
		close(t.tickDone)
		t.tickDone = nil
	}
}

// tick advances the countdown by one second. The work it does inline is
// bounded; session persistence on completion happens after the lock is
// released so a slow store never stalls state reads.
func (t *Timer) tick() {
	t.mu.Lock()
	if t.state.Status != StatusRunning {
		t.mu.Unlock()
		return
	}

	t.state.TimeLeft--
	elapsed := t.state.InitialTime - t.state.TimeLeft
	if t.current != nil {
		t.current.Duration = elapsed / 60
	}

	var completed *models.StudySession
	var completedType models.SessionType
	if t.state.TimeLeft <= 0 {
		completed, completedType = t.completeSessionLocked()
	}
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	if completed != nil {
		t.saveSession(*completed)
		t.sendCompletionNotification(completedType)
	}
	t.notifyListeners(snapshot)
}

// completeSessionLocked finalizes the current session when the countdown hits
// zero: focus sessions bump the lifetime counter and roll into a break (long
// after every 4th), break sessions roll back into focus.
func (t *Timer) completeSessionLocked() (*models.StudySession, models.SessionType) {
	t.stopTickLoopLocked()
	t.state.Status = StatusIdle

	session := t.current
	sessionType := t.state.SessionType
	if session != nil {
		end := t.now()
		session.EndTime = &end
		session.Duration = t.state.InitialTime / 60
	}
	t.current = nil

	if sessionType == models.SessionTypeFocus {
		t.state.CompletedSessions++
		t.switchSessionTypeLocked(models.SessionTypeBreak)
	} else {
		t.switchSessionTypeLocked(models.SessionTypeFocus)
	}

	return session, sessionType
}

func (t *Timer) sendCompletionNotification(sessionType models.SessionType) {
	ctx := context.Background()
	var err error
	if sessionType == models.SessionTypeFocus {
		err = t.notifier.SendImmediate(ctx,
			"Focus session complete!",
			"Great work! You finished a 25-minute focus session.",
			map[string]string{"type": "study_complete"},
		)
	} else {
		err = t.notifier.SendImmediate(ctx,
			"Break time over!",
			"Ready to get back to work? Start your next focus session.",
			map[string]string{"type": "break_complete"},
		)
	}
	if err != nil {
		t.log.Error("failed to send timer notification", zap.Error(err))
	}
}

// saveSession appends the session to the persisted log and, when tied to a
// real task, pushes it into the task's embedded session list. A lost study
// record must never interrupt the timer, so failures are logged only.
func (t *Timer) saveSession(session models.StudySession) {
	ctx := context.Background()

	sessions, err := t.loadSessions(ctx)
	if err != nil {
		t.log.Error("failed to load study sessions", zap.Error(err))
		sessions = nil
	}
	sessions = append(sessions, session)

	data, err := json.Marshal(sessions)
	if err != nil {
		t.log.Error("failed to marshal study sessions", zap.Error(err))
		return
	}
	if err := t.store.Set(ctx, storage.KeyStudySessions, data); err != nil {
		t.log.Error("failed to save study session", zap.Error(err))
	}

	if t.sink != nil && session.TaskID != "" && session.TaskID != models.GeneralTaskID {
		if _, err := t.sink.AddStudySession(ctx, session.TaskID, session); err != nil {
			t.log.Error("failed to attach session to task",
				zap.String("task_id", session.TaskID),
				zap.Error(err),
			)
		}
	}
}

func (t *Timer) loadSessions(ctx context.Context) ([]models.StudySession, error) {
	data, err := t.store.Get(ctx, storage.KeyStudySessions)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sessions []models.StudySession
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (t *Timer) snapshotLocked() State {
	snapshot := t.state
	if t.current != nil {
		session := *t.current
		snapshot.CurrentSession = &session
	} else {
		snapshot.CurrentSession = nil
	}
	return snapshot
}

func (t *Timer) notifyListeners(snapshot State) {
	t.listenerMu.Lock()
	fns := make([]func(State), 0, len(t.listeners))
	for _, fn := range t.listeners {
		fns = append(fns, fn)
	}
	t.listenerMu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}

// FormatTime renders seconds as mm:ss for display.
func FormatTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
