package engagement

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

// Preferences returns the stored preferences merged over the defaults.
func (s *Store) Preferences(ctx context.Context) Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.preferences(ctx)
}

func (s *Store) preferences(ctx context.Context) Preferences {
	p := load(ctx, s, KeyPreferences, DefaultPreferences())
	if p.MaxHistoryItems <= 0 {
		p.MaxHistoryItems = DefaultMaxHistoryItems
	}
	return p
}

// UpdatePreferences applies the non-nil fields of patch. MaxHistoryItems
// must be positive; an invalid patch changes nothing and fails with
// common.ErrValidation.
func (s *Store) UpdatePreferences(ctx context.Context, patch PreferencesPatch) PreferencesResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.MaxHistoryItems != nil && *patch.MaxHistoryItems <= 0 {
		err := fmt.Errorf("%w: maxHistoryItems must be positive, got %d", common.ErrValidation, *patch.MaxHistoryItems)
		return PreferencesResult{Result: fail(err.Error(), err), Preferences: s.preferences(ctx)}
	}

	var updated Preferences
	err := mutate(ctx, s, KeyPreferences, DefaultPreferences, func(p *Preferences) error {
		if patch.EnableReadingHistory != nil {
			p.EnableReadingHistory = *patch.EnableReadingHistory
		}
		if patch.EnableMidnightAnalysis != nil {
			p.EnableMidnightAnalysis = *patch.EnableMidnightAnalysis
		}
		if patch.MaxHistoryItems != nil {
			p.MaxHistoryItems = *patch.MaxHistoryItems
		}
		updated = *p
		return nil
	})
	if err != nil {
		return PreferencesResult{Result: fail("failed to update preferences", err), Preferences: s.preferences(ctx)}
	}
	return PreferencesResult{Result: success("preferences updated"), Preferences: updated}
}
