package engagement

import (
	"context"
	"strings"
)

func searchKey(kw string) (string, string) { return kw, "" }

func emptySearches() []string { return []string{} }

// RecordSearch moves keyword to the head of the search history, keeping at
// most 20 distinct keywords. Blank keywords are ignored.
func (s *Store) RecordSearch(ctx context.Context, keyword string) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_ = mutate(ctx, s, KeySearchHistory, emptySearches, func(items *[]string) error {
		list := newKeyedList(*items, searchKey)
		list.removeID(keyword)
		list.pushFront(keyword, maxSearchHistory)
		*items = list.items
		return nil
	})
}

// SearchHistory returns up to limit recent keywords; limit <= 0 returns all.
func (s *Store) SearchHistory(ctx context.Context, limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := load(ctx, s, KeySearchHistory, emptySearches())
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (s *Store) ClearSearchHistory(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, KeySearchHistory); err != nil {
		s.log.Error(ctx, "failed to clear search history", "error", err)
		return fail("failed to clear search history", err)
	}
	return success("search history cleared")
}
