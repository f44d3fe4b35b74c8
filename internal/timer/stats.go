package timer

import (
	"context"
	"time"

	"github.com/studyflow/studyflow/internal/models"
)

// Stats summarizes persisted study history over a lookback window.
type Stats struct {
	TotalSessions        int     // focus sessions within the window
	TotalMinutes         int     // minutes across all session types within the window
	AverageSessionLength float64 // TotalMinutes / focus-session count
	FocusSessionsToday   int
	ProductivityStreak   int // consecutive calendar days with >=1 focus session
}

// maxStreakDays bounds the backward walk when computing the streak.
const maxStreakDays = 365

// StudyStats computes statistics over the persisted session log for the last
// `days` days.
func (t *Timer) StudyStats(ctx context.Context, days int) (Stats, error) {
	sessions, err := t.loadSessions(ctx)
	if err != nil {
		return Stats{}, err
	}

	now := t.now()
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)

	var stats Stats
	var focusCount int
	for _, s := range sessions {
		if s.StartTime.Before(cutoff) {
			continue
		}
		stats.TotalMinutes += s.Duration
		if s.Type == models.SessionTypeFocus {
			focusCount++
		}
	}
	stats.TotalSessions = focusCount
	if focusCount > 0 {
		stats.AverageSessionLength = float64(stats.TotalMinutes) / float64(focusCount)
	}

	today := dayKey(now)
	for _, s := range sessions {
		if s.Type == models.SessionTypeFocus && dayKey(s.StartTime.In(now.Location())) == today {
			stats.FocusSessionsToday++
		}
	}

	stats.ProductivityStreak = streak(sessions, now)
	return stats, nil
}

// streak counts consecutive calendar days, walking backward from today, each
// containing at least one focus session, stopping at the first gap.
func streak(sessions []models.StudySession, now time.Time) int {
	focusDays := make(map[string]bool)
	for _, s := range sessions {
		if s.Type == models.SessionTypeFocus {
			focusDays[dayKey(s.StartTime.In(now.Location()))] = true
		}
	}
	if len(focusDays) == 0 {
		return 0
	}

	count := 0
	for i := 0; i < maxStreakDays; i++ {
		day := dayKey(now.AddDate(0, 0, -i))
		if !focusDays[day] {
			break
		}
		count++
	}
	return count
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
