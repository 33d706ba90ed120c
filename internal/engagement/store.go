// Package engagement keeps the reader's local engagement data: reading
// history, favorites, midnight-reading analytics, random encounters,
// search history and preferences. Every collection is one JSON document
// under a fixed key in a kv.Repository.
//
// Backend and decoding faults never reach callers. They are logged and the
// affected collection reads as its default; business rejections come back
// as a Result.
package engagement

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/blogkeeper/internal/clock"
	"github.com/dmitrijs2005/blogkeeper/internal/kv"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

const (
	KeyReadingHistory  = "reading_history"
	KeyFavorites       = "favorites"
	KeyMidnightReader  = "midnight_reader"
	KeyRandomEncounter = "random_encounter"
	KeyPreferences     = "user_preferences"
	KeySearchHistory   = "search_history"
)

const (
	DefaultMaxHistoryItems = 100
	DefaultHistoryLimit    = 50
	DefaultDaysToKeep      = 90

	maxEncounterHistory = 50
	maxSearchHistory    = 20
	topCategories       = 5

	day = 24 * time.Hour
)

type Store struct {
	repo  kv.Repository
	now   clock.Func
	rnd   *rand.Rand
	log   logging.Logger
	newID func() string

	// mu serialises read-modify-write cycles issued through this Store.
	mu sync.Mutex
}

type Option func(*Store)

func WithClock(now clock.Func) Option {
	return func(s *Store) { s.now = now }
}

// WithRand sets the random source used by encounters.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) { s.rnd = r }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func New(repo kv.Repository, opts ...Option) *Store {
	s := &Store{
		repo:  repo,
		now:   clock.System,
		log:   logging.Discard(),
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Init writes the default shape of every collection whose key is absent.
// Existing data, even if it fails to decode, is left alone.
func (s *Store) Init(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := []struct {
		key   string
		value any
	}{
		{KeyReadingHistory, []HistoryEntry{}},
		{KeyFavorites, []Favorite{}},
		{KeyMidnightReader, newMidnightProfile()},
		{KeyRandomEncounter, newEncounterProfile()},
		{KeyPreferences, DefaultPreferences()},
	}

	for _, d := range defaults {
		existing, err := s.repo.Get(ctx, d.key)
		if err != nil {
			s.log.Error(ctx, "failed to read key", "key", d.key, "error", err)
			continue
		}
		if existing != nil {
			continue
		}
		data, err := json.Marshal(d.value)
		if err != nil {
			s.log.Error(ctx, "failed to encode default", "key", d.key, "error", err)
			continue
		}
		if err := s.repo.Set(ctx, d.key, data); err != nil {
			s.log.Error(ctx, "failed to write default", "key", d.key, "error", err)
		}
	}
}

func newMidnightProfile() MidnightProfile {
	return MidnightProfile{MidnightReadDates: []string{}, Achievements: []string{}}
}

func newEncounterProfile() EncounterProfile {
	return EncounterProfile{EncounterHistory: []EncounterRecord{}}
}

// load decodes key into a copy of def. Missing or corrupt data yields def.
func load[T any](ctx context.Context, s *Store, key string, def T) T {
	data, err := s.repo.Get(ctx, key)
	if err != nil {
		s.log.Error(ctx, "failed to read key", "key", key, "error", err)
		return def
	}
	if len(data) == 0 {
		return def
	}

	v := def
	if err := json.Unmarshal(data, &v); err != nil {
		s.log.Warn(ctx, "corrupt record, using default", "key", key, "error", err)
		return def
	}
	return v
}

// errBackend marks failures that came from storage rather than from fn.
var errBackend = errors.New("backend failure")

// mutate loads key (def when missing or corrupt), applies fn and writes the
// result back. An error from fn aborts the write and is returned as is;
// storage failures are logged and returned wrapped in errBackend.
func mutate[T any](ctx context.Context, s *Store, key string, def func() T, fn func(v *T) error) error {
	var fnErr error
	err := kv.Mutate(ctx, s.repo, key, func(current []byte) ([]byte, error) {
		v := def()
		if len(current) > 0 {
			if err := json.Unmarshal(current, &v); err != nil {
				s.log.Warn(ctx, "corrupt record, overwriting with default", "key", key, "error", err)
				v = def()
			}
		}
		if err := fn(&v); err != nil {
			fnErr = err
			return nil, err
		}
		return json.Marshal(v)
	})

	switch {
	case err == nil:
		return nil
	case fnErr != nil && errors.Is(err, fnErr):
		return fnErr
	default:
		s.log.Error(ctx, "failed to update key", "key", key, "error", err)
		return errors.Join(errBackend, err)
	}
}

// matchesRef reports whether a stored (postID, slug) pair belongs to ref.
// Empty identifiers never match.
func matchesRef(postID, slug string, ref ArticleRef) bool {
	return (ref.ID != "" && postID == ref.ID) || (ref.Slug != "" && slug == ref.Slug)
}

// matchesID reports whether id is either identifier of a stored item.
func matchesID(postID, slug, id string) bool {
	return id != "" && (postID == id || slug == id)
}

func dayKey(t time.Time) string { return t.Format(time.DateOnly) }

func isMidnight(t time.Time) bool {
	h := t.Hour()
	return h >= 22 || h < 6
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return append([]string(nil), tags...)
}
