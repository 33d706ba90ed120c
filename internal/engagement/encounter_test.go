package engagement

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

type stubRand struct{ f float64 }

func (s stubRand) Float64() float64 { return s.f }
func (s stubRand) Intn(int) int     { return 0 }

func TestWeightedIndex_Boundaries(t *testing.T) {
	w := []float64{1, 3}
	assert.Equal(t, 0, weightedIndex(w, stubRand{0}))
	assert.Equal(t, 0, weightedIndex(w, stubRand{0.24}))
	assert.Equal(t, 1, weightedIndex(w, stubRand{0.26}))
	assert.Equal(t, 1, weightedIndex(w, stubRand{0.999999}))
	assert.Equal(t, 0, weightedIndex([]float64{2}, stubRand{0.5}))
}

func TestWeightedIndex_Distribution(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	const draws = 10000

	var counts [2]int
	for i := 0; i < draws; i++ {
		counts[weightedIndex([]float64{1, 3}, r)]++
	}

	share := float64(counts[1]) / draws
	assert.InDelta(t, 0.75, share, 0.02)

	// chi-square with one degree of freedom; 10.83 is the p=0.001 cut-off
	exp := [2]float64{draws * 0.25, draws * 0.75}
	chi := 0.0
	for i := range counts {
		d := float64(counts[i]) - exp[i]
		chi += d * d / exp[i]
	}
	assert.Less(t, chi, 10.83)
}

func TestEncounterWeight(t *testing.T) {
	now := afternoon
	base := ArticleRef{Category: "tech", Tags: []string{"go", "db", "cli"}}

	old := base
	old.CreatedAt = now.Add(-400 * day)
	fresh := base
	fresh.CreatedAt = now.Add(-2 * day)
	middling := base
	middling.CreatedAt = now.Add(-30 * day)

	tests := []struct {
		name string
		ref  ArticleRef
		opts EncounterOptions
		want float64
	}{
		{"plain", base, EncounterOptions{}, 1},
		{"category", base, EncounterOptions{PreferCategory: "tech"}, 2},
		{"other category", base, EncounterOptions{PreferCategory: "life"}, 1},
		{"two tags", base, EncounterOptions{PreferTags: []string{"go", "db", "rust"}}, 2},
		{"no tag overlap", base, EncounterOptions{PreferTags: []string{"rust"}}, 1},
		{"old with bonus", old, EncounterOptions{RarityBonus: true}, 1.5},
		{"old without bonus", old, EncounterOptions{}, 1},
		{"fresh with bonus", fresh, EncounterOptions{RarityBonus: true}, 1.3},
		{"middling", middling, EncounterOptions{RarityBonus: true}, 1},
		{"unknown age", base, EncounterOptions{RarityBonus: true}, 1},
		{"stacked", old, EncounterOptions{PreferCategory: "tech", PreferTags: []string{"go", "db"}, RarityBonus: true}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, encounterWeight(tt.ref, tt.opts, now), 1e-9)
		})
	}
}

func TestRandomEncounter_FollowsWeights(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	pool := []ArticleRef{
		{ID: "light", Tags: []string{"x"}},
		{ID: "heavy", Tags: []string{"a", "b", "c", "d"}},
	}
	opts := EncounterOptions{PreferTags: []string{"a", "b", "c", "d"}}

	const draws = 2000
	heavy := 0
	for i := 0; i < draws; i++ {
		res := f.store.RandomEncounter(ctx, pool, opts)
		require.True(t, res.Success)
		if res.Post.ID == "heavy" {
			heavy++
		}
	}
	assert.InDelta(t, 0.75, float64(heavy)/draws, 0.05)
}

func TestRandomEncounter_ExcludesRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.store.RecordReadingHistory(ctx, ArticleRef{Slug: "seen"}, 0, 0)

	pool := []ArticleRef{
		{ID: "99", Slug: "seen"},
		{ID: "2", Slug: "unseen"},
	}
	for i := 0; i < 20; i++ {
		res := f.store.RandomEncounter(ctx, pool, DefaultEncounterOptions())
		require.True(t, res.Success)
		assert.Equal(t, "2", res.Post.ID)
	}

	withRead := EncounterOptions{ExcludeRead: false}
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[f.store.RandomEncounter(ctx, pool, withRead).Post.ID] = true
	}
	assert.True(t, seen["99"])
}

func TestRandomEncounter_NoCandidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.store.RecordReadingHistory(ctx, article("1"), 0, 0)

	for _, pool := range [][]ArticleRef{nil, {article("1")}} {
		res := f.store.RandomEncounter(ctx, pool, DefaultEncounterOptions())
		assert.False(t, res.Success)
		assert.ErrorIs(t, res.Err, common.ErrNoCandidates)
		assert.Nil(t, res.Post)
	}
	assert.Zero(t, f.store.EncounterHistory(ctx).TotalEncounters)
}

func TestRandomEncounter_RecordsHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 55; i++ {
		f.clk.Advance(time.Minute)
		res := f.store.RandomEncounter(ctx, []ArticleRef{article(fmt.Sprint(i))}, EncounterOptions{})
		require.True(t, res.Success)
		require.NotNil(t, res.Record)
		assert.Equal(t, fmt.Sprintf("enc-%d", i+1), res.Record.ID)
	}

	p := f.store.EncounterHistory(ctx)
	assert.Equal(t, 55, p.TotalEncounters)
	require.Len(t, p.EncounterHistory, 50)
	assert.Equal(t, "54", p.EncounterHistory[0].PostID)
	assert.Equal(t, "5", p.EncounterHistory[49].PostID)
	require.NotNil(t, p.LastEncounterDate)
	assert.True(t, p.LastEncounterDate.Equal(afternoon.Add(55*time.Minute)))
	assert.True(t, p.EncounterHistory[0].EncounteredAt.Equal(afternoon.Add(55*time.Minute)))
}

func TestRandomEncounter_TypeIsConsistent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	fresh := ArticleRef{ID: "fresh", CreatedAt: afternoon.Add(-time.Hour)}
	classic := ArticleRef{ID: "classic", CreatedAt: afternoon.Add(-500 * day)}

	res := f.store.RandomEncounter(ctx, []ArticleRef{fresh}, EncounterOptions{})
	assert.Equal(t, EncounterNew, res.EncounterType)
	assert.Equal(t, EncounterNew, res.Record.EncounterType)
	assert.Contains(t, encounterMessages[EncounterNew], res.Message)

	res = f.store.RandomEncounter(ctx, []ArticleRef{classic}, EncounterOptions{})
	assert.Equal(t, EncounterClassic, res.EncounterType)
	assert.Contains(t, encounterMessages[EncounterClassic], res.Message)

	middling := ArticleRef{ID: "mid", CreatedAt: afternoon.Add(-60 * day)}
	kinds := map[EncounterType]int{}
	for i := 0; i < 500; i++ {
		res = f.store.RandomEncounter(ctx, []ArticleRef{middling}, EncounterOptions{})
		require.Equal(t, res.EncounterType, res.Record.EncounterType)
		assert.Contains(t, encounterMessages[res.EncounterType], res.Message)
		kinds[res.EncounterType]++
	}
	assert.Len(t, kinds, 2)
	assert.Greater(t, kinds[EncounterRare], 10)
	assert.Greater(t, kinds[EncounterNormal], kinds[EncounterRare])

	stored := f.store.EncounterHistory(ctx).EncounterHistory[0]
	assert.Equal(t, stored.EncounterType, res.Record.EncounterType)
}
