package engagement

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMidnightAchievements_TenReads(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 10; i++ {
		f.clk.Set(time.Date(2026, 3, 1+i, 23, 0, 0, 0, time.UTC))
		f.store.RecordReadingHistory(ctx, article(fmt.Sprint(i)), time.Minute, 0)
	}

	a := f.store.MidnightAnalysis(ctx)
	assert.Equal(t, 10, a.TotalMidnightReads)
	assert.Equal(t, 10, a.MidnightReadDays)
	assert.Equal(t, 10, a.LongestStreak)
	assert.Equal(t, []string{"night_owl_1", "night_owl_10"}, a.Achievements)
	assert.NotContains(t, a.Achievements, "night_owl_50")
	require.NotNil(t, a.LastMidnightRead)
	assert.True(t, a.LastMidnightRead.Equal(time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, ReaderLevel{Level: 2, Name: "Night Owl", Next: 20}, a.ReaderLevel)
	assert.Equal(t, &Milestone{Target: 20, Remaining: 10}, a.NextAchievement)
}

func TestMidnightAchievements_NeverShrink(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	seeded, err := json.Marshal(MidnightProfile{
		TotalMidnightReads: 3,
		MidnightReadDates:  []string{},
		Achievements:       []string{"night_owl_50"},
	})
	require.NoError(t, err)
	require.NoError(t, f.repo.Set(ctx, KeyMidnightReader, seeded))

	f.clk.Set(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	p := f.store.RecordMidnightReading(ctx, article("1"), 0)
	require.NotNil(t, p)

	assert.Equal(t, 4, p.TotalMidnightReads)
	assert.Equal(t, []string{"night_owl_50", "night_owl_1"}, p.Achievements)
}

func TestMidnightReadDates_OnePerDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, ts := range []time.Time{
		time.Date(2026, 3, 10, 22, 15, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 23, 45, 0, 0, time.UTC),
		time.Date(2026, 3, 11, 1, 0, 0, 0, time.UTC),
	} {
		f.clk.Set(ts)
		f.store.RecordReadingHistory(ctx, article(ts.Format(time.Kitchen)), 0, 0)
	}

	a := f.store.MidnightAnalysis(ctx)
	assert.Equal(t, 3, a.TotalMidnightReads)
	assert.Equal(t, []string{"2026-03-10", "2026-03-11"}, a.MidnightReadDates)
}

func TestMidnightAnalysisDisabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.UpdatePreferences(ctx, PreferencesPatch{EnableMidnightAnalysis: boolPtr(false)})

	f.clk.Set(time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC))
	e := f.store.RecordReadingHistory(ctx, article("1"), 0, 0)
	require.NotNil(t, e)
	assert.True(t, e.IsMidnightRead)

	assert.Nil(t, f.store.RecordMidnightReading(ctx, article("1"), 0))
	assert.Zero(t, f.store.MidnightAnalysis(ctx).TotalMidnightReads)
}

func TestMidnightAnalysis_Empty(t *testing.T) {
	a := newFixture(t).store.MidnightAnalysis(context.Background())

	assert.Zero(t, a.TotalMidnightReads)
	assert.Nil(t, a.LastMidnightRead)
	assert.Zero(t, a.LongestStreak)
	assert.Equal(t, 1, a.ReaderLevel.Level)
	assert.Equal(t, &Milestone{Target: 1, Remaining: 1}, a.NextAchievement)
}

func TestMidnightStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"empty", nil, 0},
		{"single", []string{"2026-03-10"}, 1},
		{"one night skipped still counts", []string{"2026-03-10", "2026-03-08", "2026-03-07", "2026-03-01"}, 3},
		{"unsorted input", []string{"2026-03-07", "2026-03-10", "2026-03-08"}, 3},
		{"gap of three days breaks", []string{"2026-03-10", "2026-03-07"}, 1},
		{"garbage ignored", []string{"not a date", "2026-03-10", "2026-03-09"}, 2},
		{"across month end", []string{"2026-03-01", "2026-02-28"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, midnightStreak(tt.dates))
		})
	}
}

func TestReaderLevel(t *testing.T) {
	tests := []struct {
		total int
		level int
		next  int
	}{
		{0, 1, 5}, {4, 1, 5},
		{5, 2, 20}, {19, 2, 20},
		{20, 3, 50}, {49, 3, 50},
		{50, 4, 100}, {99, 4, 100},
		{100, 5, 0}, {500, 5, 0},
	}
	for _, tt := range tests {
		got := readerLevel(tt.total)
		assert.Equal(t, tt.level, got.Level, "total=%d", tt.total)
		assert.Equal(t, tt.next, got.Next, "total=%d", tt.total)
		assert.NotEmpty(t, got.Name)
	}
}

func TestNextMilestone(t *testing.T) {
	assert.Equal(t, &Milestone{Target: 1, Remaining: 1}, nextMilestone(0))
	assert.Equal(t, &Milestone{Target: 5, Remaining: 4}, nextMilestone(1))
	assert.Equal(t, &Milestone{Target: 10, Remaining: 3}, nextMilestone(7))
	assert.Equal(t, &Milestone{Target: 100, Remaining: 1}, nextMilestone(99))
	assert.Nil(t, nextMilestone(100))
}

func TestAchievementName(t *testing.T) {
	assert.Equal(t, "Night Owl", AchievementName("night_owl_1"))
	assert.Equal(t, "custom", AchievementName("custom"))
}
