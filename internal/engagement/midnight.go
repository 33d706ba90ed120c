package engagement

import (
	"context"
	"slices"
	"time"
)

type achievement struct {
	ID        string
	Name      string
	Threshold int
}

var midnightAchievements = []achievement{
	{ID: "night_owl_1", Name: "Night Owl", Threshold: 1},
	{ID: "night_owl_10", Name: "Midnight Scholar", Threshold: 10},
	{ID: "night_owl_50", Name: "Night Reading Expert", Threshold: 50},
	{ID: "night_owl_100", Name: "Midnight Master", Threshold: 100},
}

var milestones = []int{1, 5, 10, 20, 50, 100}

// AchievementName returns the display name for an achievement id, or the id
// itself when it is unknown.
func AchievementName(id string) string {
	for _, a := range midnightAchievements {
		if a.ID == id {
			return a.Name
		}
	}
	return id
}

// RecordMidnightReading counts one midnight read now. It is called by
// RecordReadingHistory for visits inside the midnight window and does
// nothing when midnight analysis is disabled. The profile does not depend
// on ref or readingTime.
func (s *Store) RecordMidnightReading(ctx context.Context, ref ArticleRef, readingTime time.Duration) *MidnightProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recordMidnightReading(ctx, s.preferences(ctx), s.now())
}

func (s *Store) recordMidnightReading(ctx context.Context, prefs Preferences, now time.Time) *MidnightProfile {
	if !prefs.EnableMidnightAnalysis {
		return nil
	}

	var out MidnightProfile
	err := mutate(ctx, s, KeyMidnightReader, newMidnightProfile, func(p *MidnightProfile) error {
		p.TotalMidnightReads++
		at := now
		p.LastMidnightRead = &at

		if d := dayKey(now); !slices.Contains(p.MidnightReadDates, d) {
			p.MidnightReadDates = append(p.MidnightReadDates, d)
		}
		unlockAchievements(p)

		out = *p
		return nil
	})
	if err != nil {
		return nil
	}
	return &out
}

// unlockAchievements appends every reached achievement not yet present.
// Achievements are never removed.
func unlockAchievements(p *MidnightProfile) {
	for _, a := range midnightAchievements {
		if p.TotalMidnightReads >= a.Threshold && !slices.Contains(p.Achievements, a.ID) {
			p.Achievements = append(p.Achievements, a.ID)
		}
	}
}

// MidnightAnalysis returns the midnight profile with derived figures.
func (s *Store) MidnightAnalysis(ctx context.Context) MidnightAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := load(ctx, s, KeyMidnightReader, newMidnightProfile())
	return MidnightAnalysis{
		MidnightProfile:  p,
		MidnightReadDays: len(p.MidnightReadDates),
		LongestStreak:    midnightStreak(p.MidnightReadDates),
		ReaderLevel:      readerLevel(p.TotalMidnightReads),
		NextAchievement:  nextMilestone(p.TotalMidnightReads),
	}
}

// midnightStreak walks the read dates from the most recent backwards and
// counts how many stay within two days of the previous one. One missed
// night does not break the run. Unparseable dates are ignored.
func midnightStreak(dates []string) int {
	var parsed []time.Time
	for _, d := range dates {
		t, err := time.Parse(time.DateOnly, d)
		if err != nil {
			continue
		}
		parsed = append(parsed, t)
	}
	if len(parsed) == 0 {
		return 0
	}

	slices.SortFunc(parsed, func(a, b time.Time) int { return b.Compare(a) })
	parsed = slices.CompactFunc(parsed, time.Time.Equal)

	streak := 1
	for i := 1; i < len(parsed); i++ {
		if parsed[i-1].Sub(parsed[i]) > 2*day {
			break
		}
		streak++
	}
	return streak
}

func readerLevel(total int) ReaderLevel {
	switch {
	case total >= 100:
		return ReaderLevel{Level: 5, Name: "Midnight Master"}
	case total >= 50:
		return ReaderLevel{Level: 4, Name: "Night Reading Expert", Next: 100}
	case total >= 20:
		return ReaderLevel{Level: 3, Name: "Midnight Scholar", Next: 50}
	case total >= 5:
		return ReaderLevel{Level: 2, Name: "Night Owl", Next: 20}
	default:
		return ReaderLevel{Level: 1, Name: "Novice Night Reader", Next: 5}
	}
}

// nextMilestone is the smallest milestone above total, nil past the last.
func nextMilestone(total int) *Milestone {
	for _, m := range milestones {
		if m > total {
			return &Milestone{Target: m, Remaining: m - total}
		}
	}
	return nil
}
