package engagement

import (
	"context"
	"fmt"
	"time"
)

// CleanupExpiredData drops history entries read, and encounter records
// made, more than daysToKeep days ago (DefaultDaysToKeep when <= 0).
// Favorites and the midnight profile are kept.
func (s *Store) CleanupExpiredData(ctx context.Context, daysToKeep int) CleanupResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if daysToKeep <= 0 {
		daysToKeep = DefaultDaysToKeep
	}
	cutoff := s.now().Add(-time.Duration(daysToKeep) * day)

	var res CleanupResult
	err := mutate(ctx, s, KeyReadingHistory, emptyHistory, func(items *[]HistoryEntry) error {
		list := newKeyedList(*items, historyKey)
		res.HistoryRemoved = list.removeWhere(func(e HistoryEntry) bool { return !e.ReadAt.After(cutoff) })
		*items = list.items
		return nil
	})
	if err != nil {
		res.Result = fail("data cleanup failed", err)
		return res
	}

	err = mutate(ctx, s, KeyRandomEncounter, newEncounterProfile, func(p *EncounterProfile) error {
		list := newKeyedList(p.EncounterHistory, encounterKey)
		res.EncountersRemoved = list.removeWhere(func(r EncounterRecord) bool { return !r.EncounteredAt.After(cutoff) })
		p.EncounterHistory = list.items
		return nil
	})
	if err != nil {
		res.Result = fail("data cleanup failed", err)
		return res
	}

	s.log.Info(ctx, "expired data cleaned up",
		"days_to_keep", daysToKeep,
		"history_removed", res.HistoryRemoved,
		"encounters_removed", res.EncountersRemoved)

	res.Result = success(fmt.Sprintf("cleanup done: %d history entries and %d encounters removed",
		res.HistoryRemoved, res.EncountersRemoved))
	return res
}
