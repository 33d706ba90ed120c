package blog

import (
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/dmitrijs2005/blogkeeper/internal/engagement"
)

const (
	excerptLength = 140
	// charsPerMinute is the assumed reading speed.
	charsPerMinute = 300
)

var (
	htmlTagExpr    = regexp.MustCompile(`<\w+[^>]*>`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
)

func looksLikeHTML(s string) bool { return htmlTagExpr.MatchString(s) }

// ToMarkdown converts an HTML fragment to markdown.
func ToMarkdown(html string) (string, error) {
	conv := md.NewConverter("", true, nil)
	return conv.ConvertString(html)
}

// PlainText strips markup from an HTML fragment and collapses whitespace.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapse(html)
	}
	doc.Find("script, style, pre").Remove()
	return collapse(doc.Text())
}

// Truncate cuts s to at most n runes, ending with an ellipsis when cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(s, " "))
}

// Markdown returns the post body as markdown. Content is used when it is
// already markdown; otherwise the HTML body is converted.
func (p *Post) Markdown() (string, error) {
	switch {
	case p.Content != "" && !looksLikeHTML(p.Content):
		return p.Content, nil
	case p.HTMLContent != "":
		return ToMarkdown(p.HTMLContent)
	case p.Content != "":
		return ToMarkdown(p.Content)
	default:
		return p.TextContent, nil
	}
}

// ExcerptText is the summary shown in listings and stored with favorites.
func (p *Post) ExcerptText() string {
	for _, s := range []string{p.Excerpt, p.Summary} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	for _, s := range []string{p.HTMLContent, p.Content, p.TextContent} {
		if s == "" {
			continue
		}
		if text := PlainText(s); text != "" {
			return Truncate(text, excerptLength)
		}
	}
	return ""
}

// WordCount counts the characters of the plain-text body.
func (p *Post) WordCount() int {
	body := p.TextContent
	if body == "" {
		body = p.HTMLContent
	}
	if body == "" {
		body = p.Content
	}
	if body == "" {
		return 0
	}
	return utf8.RuneCountInString(strings.ReplaceAll(PlainText(body), " ", ""))
}

// ReadingMinutes estimates reading time, never less than a minute.
func (p *Post) ReadingMinutes() int {
	return max(1, (p.WordCount()+charsPerMinute-1)/charsPerMinute)
}

// Key is the identifier used to look the post up locally.
func (p *Post) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.Slug
}

// Created is the best known creation time of the post.
func (p *Post) Created() Timestamp {
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt
	}
	return p.PublishDate
}

func (p *Post) Ref() engagement.ArticleRef {
	return engagement.ArticleRef{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     p.Title,
		Category:  p.Category,
		Tags:      TermNames(p.Tags),
		Excerpt:   p.ExcerptText(),
		CreatedAt: p.Created().Time,
	}
}

func Refs(posts []Post) []engagement.ArticleRef {
	out := make([]engagement.ArticleRef, len(posts))
	for i := range posts {
		out[i] = posts[i].Ref()
	}
	return out
}
