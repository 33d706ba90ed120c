package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/blog"
	"github.com/dmitrijs2005/blogkeeper/internal/engagement"
)

const timeLayout = "2006-01-02 15:04"

func PostPage(page *blog.PostPage) string {
	if page == nil || len(page.Posts) == 0 {
		return Help("No posts found.")
	}

	var b strings.Builder
	for _, p := range page.Posts {
		fmt.Fprintf(&b, "%s  %s\n", accentStyle.Render(p.Key()), Heading(p.Title))
		if ex := p.ExcerptText(); ex != "" {
			fmt.Fprintf(&b, "    %s\n", blog.Truncate(ex, 100))
		}
	}
	pg := page.Pagination
	if pg.TotalPages > 0 {
		b.WriteString(Help(fmt.Sprintf("page %d/%d, %d posts", pg.Page, pg.TotalPages, pg.Total)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func History(items []engagement.HistoryEntry) string {
	if len(items) == 0 {
		return Help("Reading history is empty.")
	}

	var b strings.Builder
	for _, e := range items {
		moon := ""
		if e.IsMidnightRead {
			moon = " (midnight)"
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", Help(e.ReadAt.Format(timeLayout)), accentStyle.Render(idOf(e.PostID, e.Slug)), Heading(e.Title))
		fmt.Fprintf(&b, "    %s, read %dx, %s total, %d%%%s\n",
			orDash(e.Category), e.ReadCount, Duration(e.TotalReadingTime), e.Progress, moon)
	}
	return strings.TrimRight(b.String(), "\n")
}

func Favorites(items []engagement.Favorite) string {
	if len(items) == 0 {
		return Help("No favorites yet.")
	}

	var b strings.Builder
	for _, f := range items {
		fmt.Fprintf(&b, "%s  %s  %s\n", Help(f.AddedAt.Format(timeLayout)), accentStyle.Render(idOf(f.PostID, f.Slug)), Heading(f.Title))
		if f.Excerpt != "" {
			fmt.Fprintf(&b, "    %s\n", blog.Truncate(f.Excerpt, 100))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func Searches(items []string) string {
	if len(items) == 0 {
		return Help("No recent searches.")
	}
	lines := make([]string, len(items))
	for i, s := range items {
		lines[i] = fmt.Sprintf("%2d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}

// Duration prints d rounded to seconds, or minutes once it exceeds an hour.
func Duration(d time.Duration) string {
	if d >= time.Hour {
		return d.Round(time.Minute).String()
	}
	return d.Round(time.Second).String()
}

func idOf(id, slug string) string {
	if id != "" {
		return id
	}
	return slug
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
