package engagement

import (
	"context"
	"math"
	"slices"
	"time"
)

func historyKey(e HistoryEntry) (string, string) { return e.PostID, e.Slug }

func emptyHistory() []HistoryEntry { return []HistoryEntry{} }

// RecordReadingHistory upserts the history entry for ref. A repeat visit
// accumulates reading time and read count on the existing entry in place;
// a first visit is inserted at the head. The list is then trimmed to the
// MaxHistoryItems preference. A visit inside the midnight window is also
// recorded in the midnight profile.
//
// It returns nil when history is disabled or the write failed.
func (s *Store) RecordReadingHistory(ctx context.Context, ref ArticleRef, readingTime time.Duration, progress int) *HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.preferences(ctx)
	if !prefs.EnableReadingHistory {
		return nil
	}

	now := s.now()
	readingTime = max(readingTime, 0)
	progress = min(max(progress, 0), 100)
	midnight := isMidnight(now)

	var recorded HistoryEntry
	err := mutate(ctx, s, KeyReadingHistory, emptyHistory, func(items *[]HistoryEntry) error {
		list := newKeyedList(*items, historyKey)
		list.upsert(ref, prefs.MaxHistoryItems, func(prev *HistoryEntry) HistoryEntry {
			e := HistoryEntry{
				PostID:           ref.ID,
				Slug:             ref.Slug,
				Title:            ref.Title,
				Category:         ref.Category,
				Tags:             cloneTags(ref.Tags),
				ReadAt:           now,
				ReadingTime:      readingTime,
				TotalReadingTime: readingTime,
				ReadCount:        1,
				Progress:         progress,
				IsMidnightRead:   midnight,
			}
			if prev == nil {
				recorded = e
				return e
			}

			e.PostID = firstNonEmpty(e.PostID, prev.PostID)
			e.Slug = firstNonEmpty(e.Slug, prev.Slug)
			e.Title = firstNonEmpty(e.Title, prev.Title)
			e.Category = firstNonEmpty(e.Category, prev.Category)
			e.TotalReadingTime = prev.TotalReadingTime + readingTime
			e.ReadCount = max(prev.ReadCount, 1) + 1
			recorded = e
			return e
		})
		*items = list.items
		return nil
	})
	if err != nil {
		return nil
	}

	if midnight {
		s.recordMidnightReading(ctx, prefs, now)
	}
	return &recorded
}

// UpdateReadingTime records a visit with no progress information.
func (s *Store) UpdateReadingTime(ctx context.Context, ref ArticleRef, readingTime time.Duration) *HistoryEntry {
	return s.RecordReadingHistory(ctx, ref, readingTime, 0)
}

// RemoveFromHistory drops every entry whose id or slug equals id. Removing
// something that is not there still succeeds.
func (s *Store) RemoveFromHistory(ctx context.Context, id string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := mutate(ctx, s, KeyReadingHistory, emptyHistory, func(items *[]HistoryEntry) error {
		list := newKeyedList(*items, historyKey)
		list.removeID(id)
		*items = list.items
		return nil
	})
	if err != nil {
		return fail("failed to remove history entry", err)
	}
	return success("removed from history")
}

func (s *Store) ClearHistory(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := mutate(ctx, s, KeyReadingHistory, emptyHistory, func(items *[]HistoryEntry) error {
		*items = []HistoryEntry{}
		return nil
	})
	if err != nil {
		return fail("failed to clear history", err)
	}
	return success("history cleared")
}

// ReadingHistory returns up to limit entries, most recent first, optionally
// restricted to one category. limit <= 0 means DefaultHistoryLimit.
func (s *Store) ReadingHistory(ctx context.Context, limit int, category string) []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	items := s.history(ctx)
	if category != "" {
		items = filter(items, func(e HistoryEntry) bool { return e.Category == category })
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// ReadingStatistics derives reading stats from the full history.
func (s *Store) ReadingStatistics(ctx context.Context) ReadingStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return readingStats(s.history(ctx), s.now())
}

func (s *Store) history(ctx context.Context) []HistoryEntry {
	return load(ctx, s, KeyReadingHistory, emptyHistory())
}

func readingStats(items []HistoryEntry, now time.Time) ReadingStats {
	stats := ReadingStats{
		TotalReads:         len(items),
		FavoriteCategories: favoriteCategories(items),
		ReadingStreak:      readingStreak(items, now),
	}

	for _, e := range items {
		stats.TotalReadingTime += e.TotalReadingTime

		age := now.Sub(e.ReadAt)
		if age < day {
			stats.TodayReads++
		}
		if age < 7*day {
			stats.WeekReads++
		}
		if age < 30*day {
			stats.MonthReads++
		}
	}

	if stats.TotalReads > 0 {
		avg := math.Round(float64(stats.TotalReadingTime) / float64(stats.TotalReads))
		stats.AverageReadingTime = time.Duration(avg)
	}
	return stats
}

// favoriteCategories counts entries per category and returns the top five,
// ties kept in first-seen order.
func favoriteCategories(items []HistoryEntry) []CategoryCount {
	var counts []CategoryCount
	index := make(map[string]int)
	for _, e := range items {
		if e.Category == "" {
			continue
		}
		i, seen := index[e.Category]
		if !seen {
			i = len(counts)
			index[e.Category] = i
			counts = append(counts, CategoryCount{Category: e.Category})
		}
		counts[i].Count++
	}

	slices.SortStableFunc(counts, func(a, b CategoryCount) int { return b.Count - a.Count })
	if len(counts) > topCategories {
		counts = counts[:topCategories]
	}
	if counts == nil {
		counts = []CategoryCount{}
	}
	return counts
}

// readingStreak counts consecutive calendar days, ending today, with at
// least one read. Days are taken in now's location.
func readingStreak(items []HistoryEntry, now time.Time) int {
	if len(items) == 0 {
		return 0
	}

	days := make(map[string]struct{}, len(items))
	for _, e := range items {
		days[dayKey(e.ReadAt.In(now.Location()))] = struct{}{}
	}

	streak := 0
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for {
		if _, ok := days[dayKey(d)]; !ok {
			return streak
		}
		streak++
		d = d.AddDate(0, 0, -1)
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
