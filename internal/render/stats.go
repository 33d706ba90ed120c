package render

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/engagement"
)

func Stats(s engagement.ReadingStats) string {
	var b strings.Builder
	b.WriteString(Title("Reading statistics"))
	b.WriteString("\n")
	row(&b, "Total reads", fmt.Sprint(s.TotalReads))
	row(&b, "Total time", Duration(s.TotalReadingTime))
	row(&b, "Average time", Duration(s.AverageReadingTime))
	row(&b, "Today", fmt.Sprint(s.TodayReads))
	row(&b, "This week", fmt.Sprint(s.WeekReads))
	row(&b, "This month", fmt.Sprint(s.MonthReads))
	row(&b, "Streak", fmt.Sprintf("%d days", s.ReadingStreak))

	if len(s.FavoriteCategories) > 0 {
		b.WriteString(Heading("Top categories"))
		b.WriteString("\n")
		for _, c := range s.FavoriteCategories {
			row(&b, c.Category, fmt.Sprint(c.Count))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func Midnight(a engagement.MidnightAnalysis) string {
	var b strings.Builder
	b.WriteString(Title("Midnight reader"))
	b.WriteString("\n")
	row(&b, "Midnight reads", fmt.Sprint(a.TotalMidnightReads))
	row(&b, "Nights", fmt.Sprint(a.MidnightReadDays))
	row(&b, "Longest streak", fmt.Sprintf("%d nights", a.LongestStreak))
	row(&b, "Level", fmt.Sprintf("%d %s", a.ReaderLevel.Level, a.ReaderLevel.Name))
	if a.LastMidnightRead != nil {
		row(&b, "Last", a.LastMidnightRead.Format(timeLayout))
	}
	if a.NextAchievement != nil {
		row(&b, "Next milestone", fmt.Sprintf("%d (%d to go)", a.NextAchievement.Target, a.NextAchievement.Remaining))
	}

	if len(a.Achievements) > 0 {
		b.WriteString(Heading("Achievements"))
		b.WriteString("\n")
		for _, id := range a.Achievements {
			fmt.Fprintf(&b, "  * %s\n", engagement.AchievementName(id))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func Encounter(r engagement.EncounterResult) string {
	if !r.Success {
		return Failure(r.Message)
	}

	var b strings.Builder
	b.WriteString(accentStyle.Render(r.Message))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s  [%s]", accentStyle.Render(idOf(r.Post.ID, r.Post.Slug)), Heading(r.Post.Title), r.EncounterType)
	if r.Post.Excerpt != "" {
		fmt.Fprintf(&b, "\n    %s", r.Post.Excerpt)
	}
	return b.String()
}

func Encounters(p engagement.EncounterProfile) string {
	if len(p.EncounterHistory) == 0 {
		return Help("No encounters yet.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Title(fmt.Sprintf("%d encounters", p.TotalEncounters)))
	for _, r := range p.EncounterHistory {
		fmt.Fprintf(&b, "%s  %-7s  %s\n", Help(r.EncounteredAt.Format(timeLayout)), r.EncounterType, r.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}

func Preferences(p engagement.Preferences) string {
	var b strings.Builder
	b.WriteString(Title("Preferences"))
	b.WriteString("\n")
	row(&b, "history", fmt.Sprint(p.EnableReadingHistory))
	row(&b, "midnight", fmt.Sprint(p.EnableMidnightAnalysis))
	row(&b, "max", fmt.Sprint(p.MaxHistoryItems))
	return strings.TrimRight(b.String(), "\n")
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %-16s %s\n", label+":", value)
}
