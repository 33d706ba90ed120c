package engagement

import (
	"context"
	"slices"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

var encounterMessages = map[EncounterType][]string{
	EncounterNew: {
		"A freshly published article!",
		"New knowledge is waiting for you.",
		"Just published, you are one of its first readers.",
	},
	EncounterClassic: {
		"Time passes, classics remain.",
		"An article that has stood the test of time.",
		"Let's revisit this classic.",
	},
	EncounterRare: {
		"A rare find! Few readers ever meet this one.",
		"Lucky you, a hidden treasure.",
		"This is a special encounter.",
	},
	EncounterNormal: {
		"Another lovely encounter.",
		"There is always a surprise in the sea of knowledge.",
		"Let the reading journey begin.",
	},
}

func encounterKey(r EncounterRecord) (string, string) { return r.PostID, r.Slug }

// RandomEncounter picks one article from pool at random, weighted by opts,
// and records it in the encounter history. With ExcludeRead, articles in
// the reading history are not eligible; an empty eligible pool fails with
// common.ErrNoCandidates.
//
// Weights start at 1 and are multiplied by 2 for the preferred category,
// by 1+0.5n for n preferred tags, and with RarityBonus by 1.5 for posts
// older than a year and 1.3 for posts younger than a week.
//
// The encounter type is decided once per call and shared by the record,
// the result and the message.
func (s *Store) RandomEncounter(ctx context.Context, pool []ArticleRef, opts EncounterOptions) EncounterResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	candidates := pool
	if opts.ExcludeRead {
		candidates = excludeRead(pool, s.history(ctx))
	}
	if len(candidates) == 0 {
		return EncounterResult{Result: fail("no new articles to encounter", common.ErrNoCandidates)}
	}

	weights := make([]float64, len(candidates))
	for i, c := range candidates {
		weights[i] = encounterWeight(c, opts, now)
	}
	post := candidates[weightedIndex(weights, s.rnd)]
	kind := s.encounterType(post, now)

	record := EncounterRecord{
		ID:            s.newID(),
		PostID:        post.ID,
		Slug:          post.Slug,
		Title:         post.Title,
		Category:      post.Category,
		EncounteredAt: now,
		EncounterType: kind,
	}
	err := mutate(ctx, s, KeyRandomEncounter, newEncounterProfile, func(p *EncounterProfile) error {
		list := newKeyedList(p.EncounterHistory, encounterKey)
		list.pushFront(record, maxEncounterHistory)
		p.EncounterHistory = list.items
		at := now
		p.LastEncounterDate = &at
		p.TotalEncounters++
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "encounter not recorded", "post", post.ID, "error", err)
	}

	return EncounterResult{
		Result:        success(s.encounterMessage(kind)),
		Post:          &post,
		EncounterType: kind,
		Record:        &record,
	}
}

// EncounterHistory returns the encounter profile.
func (s *Store) EncounterHistory(ctx context.Context) EncounterProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	return load(ctx, s, KeyRandomEncounter, newEncounterProfile())
}

func excludeRead(pool []ArticleRef, history []HistoryEntry) []ArticleRef {
	read := make(map[string]struct{}, 2*len(history))
	for _, e := range history {
		if e.PostID != "" {
			read[e.PostID] = struct{}{}
		}
		if e.Slug != "" {
			read[e.Slug] = struct{}{}
		}
	}

	return filter(pool, func(a ArticleRef) bool {
		if _, ok := read[a.ID]; a.ID != "" && ok {
			return false
		}
		if _, ok := read[a.Slug]; a.Slug != "" && ok {
			return false
		}
		return true
	})
}

func encounterWeight(a ArticleRef, opts EncounterOptions, now time.Time) float64 {
	w := 1.0

	if opts.PreferCategory != "" && a.Category == opts.PreferCategory {
		w *= 2
	}

	if len(opts.PreferTags) > 0 {
		matching := 0
		for _, t := range a.Tags {
			if slices.Contains(opts.PreferTags, t) {
				matching++
			}
		}
		w *= 1 + 0.5*float64(matching)
	}

	if opts.RarityBonus && !a.CreatedAt.IsZero() {
		age := now.Sub(a.CreatedAt)
		if age > 365*day {
			w *= 1.5
		}
		if age < 7*day {
			w *= 1.3
		}
	}
	return w
}

// randSource is the part of *rand.Rand the sampler needs.
type randSource interface {
	Float64() float64
	Intn(n int) int
}

// weightedIndex draws an index with probability proportional to its
// weight by scanning the cumulative weights.
func weightedIndex(weights []float64, r randSource) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}

	x := r.Float64() * total
	for i, w := range weights {
		if x < w {
			return i
		}
		x -= w
	}
	return len(weights) - 1
}

// encounterType classifies a post by age; posts of unknown or middling age
// are rare with probability 0.1.
func (s *Store) encounterType(a ArticleRef, now time.Time) EncounterType {
	if !a.CreatedAt.IsZero() {
		age := now.Sub(a.CreatedAt)
		if age < 7*day {
			return EncounterNew
		}
		if age > 365*day {
			return EncounterClassic
		}
	}
	if s.rnd.Float64() < 0.1 {
		return EncounterRare
	}
	return EncounterNormal
}

func (s *Store) encounterMessage(kind EncounterType) string {
	msgs, ok := encounterMessages[kind]
	if !ok {
		msgs = encounterMessages[EncounterNormal]
	}
	return msgs[s.rnd.Intn(len(msgs))]
}
