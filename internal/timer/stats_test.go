package timer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studyflow/studyflow/internal/models"
	"github.com/studyflow/studyflow/internal/notify"
	"github.com/studyflow/studyflow/internal/storage"
)

func seedSessions(t *testing.T, store storage.Store, sessions []models.StudySession) {
	t.Helper()

	data, err := json.Marshal(sessions)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), storage.KeyStudySessions, data))
}

func focusAt(start time.Time, minutes int) models.StudySession {
	return models.StudySession{
		ID:        start.Format(time.RFC3339),
		TaskID:    models.GeneralTaskID,
		StartTime: start,
		Duration:  minutes,
		Type:      models.SessionTypeFocus,
	}
}

func TestStudyStats_EmptyHistory(t *testing.T) {
	t.Parallel()

	tm, _ := newTestTimer(t)
	stats, err := tm.StudyStats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestStudyStats_WindowedTotals(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)
	store := storage.NewMemoryStore()
	tm := New(store, notify.NewLogNotifier(zap.NewNop()), zap.NewNop(),
		WithTickerFactory(silentTicker),
		WithClock(func() time.Time { return now }),
	)

	breakSession := models.StudySession{
		ID: "b1", TaskID: models.GeneralTaskID,
		StartTime: now.Add(-2 * time.Hour), Duration: 5, Type: models.SessionTypeBreak,
	}
	seedSessions(t, store, []models.StudySession{
		focusAt(now.Add(-1*time.Hour), 25),     // today
		focusAt(now.Add(-26*time.Hour), 25),    // yesterday
		focusAt(now.Add(-30*24*time.Hour), 25), // outside the window
		breakSession,
	})

	stats, err := tm.StudyStats(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalSessions, "only focus sessions inside the window count")
	assert.Equal(t, 55, stats.TotalMinutes, "break minutes inside the window are included")
	assert.InDelta(t, 27.5, stats.AverageSessionLength, 0.001)
	assert.Equal(t, 1, stats.FocusSessionsToday)
}

func TestStudyStats_ProductivityStreak(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		sessions []models.StudySession
		want     int
	}{
		{"no sessions", nil, 0},
		{
			"three consecutive days",
			[]models.StudySession{
				focusAt(now.Add(-1*time.Hour), 25),
				focusAt(now.Add(-24*time.Hour), 25),
				focusAt(now.Add(-48*time.Hour), 25),
			},
			3,
		},
		{
			"gap yesterday stops the walk",
			[]models.StudySession{
				focusAt(now.Add(-1*time.Hour), 25),
				focusAt(now.Add(-48*time.Hour), 25),
			},
			1,
		},
		{
			"nothing today means no streak",
			[]models.StudySession{
				focusAt(now.Add(-24*time.Hour), 25),
			},
			0,
		},
		{
			"breaks do not keep a streak alive",
			[]models.StudySession{
				focusAt(now.Add(-1*time.Hour), 25),
				{ID: "b", TaskID: models.GeneralTaskID, StartTime: now.Add(-24 * time.Hour), Duration: 5, Type: models.SessionTypeBreak},
				focusAt(now.Add(-48*time.Hour), 25),
			},
			1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := storage.NewMemoryStore()
			tm := New(store, notify.NewLogNotifier(zap.NewNop()), zap.NewNop(),
				WithTickerFactory(silentTicker),
				WithClock(func() time.Time { return now }),
			)
			if tt.sessions != nil {
				seedSessions(t, store, tt.sessions)
			}

			stats, err := tm.StudyStats(context.Background(), 7)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stats.ProductivityStreak)
		})
	}
}
