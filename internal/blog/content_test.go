package blog

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostMarkdown(t *testing.T) {
	p := Post{HTMLContent: `<h1>Title</h1><p>Hello <strong>world</strong></p>`}
	got, err := p.Markdown()
	require.NoError(t, err)
	assert.Contains(t, got, "# Title")
	assert.Contains(t, got, "**world**")

	p = Post{Content: "## Already markdown", HTMLContent: "<p>ignored</p>"}
	got, err = p.Markdown()
	require.NoError(t, err)
	assert.Equal(t, "## Already markdown", got)

	p = Post{TextContent: "plain"}
	got, err = p.Markdown()
	require.NoError(t, err)
	assert.Equal(t, "plain", got)
}

func TestExcerptText(t *testing.T) {
	assert.Equal(t, "given", (&Post{Excerpt: " given ", Summary: "other"}).ExcerptText())
	assert.Equal(t, "summary", (&Post{Summary: "summary"}).ExcerptText())

	body := "<p>" + strings.Repeat("word ", 50) + "</p><script>alert(1)</script>"
	got := (&Post{HTMLContent: body}).ExcerptText()
	assert.NotContains(t, got, "alert")
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len([]rune(got)), excerptLength+1)

	assert.Empty(t, (&Post{}).ExcerptText())
}

func TestPlainTextAndTruncate(t *testing.T) {
	assert.Equal(t, "a b c", PlainText("<div>a\n\n<b>b</b>   c</div>"))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "深夜…", Truncate("深夜读者", 2))
}

func TestReadingMinutes(t *testing.T) {
	assert.Equal(t, 1, (&Post{}).ReadingMinutes())
	assert.Equal(t, 1, (&Post{TextContent: strings.Repeat("a", 300)}).ReadingMinutes())
	assert.Equal(t, 2, (&Post{TextContent: strings.Repeat("a", 301)}).ReadingMinutes())
}

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`1735689600000`, time.UnixMilli(1735689600000)},
		{`"2025-01-01T08:00:00Z"`, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)},
		{`"2025-01-01 08:00:00"`, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)},
		{`"2025-01-01"`, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{`null`, time.Time{}},
		{`""`, time.Time{}},
	}
	for _, tt := range tests {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(tt.in), &ts), tt.in)
		assert.True(t, ts.Equal(tt.want), "%s: got %v", tt.in, ts.Time)
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestPostRef(t *testing.T) {
	p := Post{
		ID:          "7",
		Slug:        "seven",
		Title:       "Seven",
		Category:    "tech",
		Tags:        []Term{{Name: "go"}, {Name: ""}},
		Summary:     "sum",
		PublishDate: Timestamp{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	ref := p.Ref()
	assert.Equal(t, "7", ref.ID)
	assert.Equal(t, []string{"go"}, ref.Tags)
	assert.Equal(t, "sum", ref.Excerpt)
	assert.True(t, ref.CreatedAt.Equal(p.PublishDate.Time))
	assert.Equal(t, "7", p.Key())
	assert.Equal(t, "seven", (&Post{Slug: "seven"}).Key())
}
