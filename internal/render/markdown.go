package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/dmitrijs2005/blogkeeper/internal/blog"
)

const DefaultWidth = 80

// Markdown renders markdown documents for the terminal.
type Markdown struct {
	tr *glamour.TermRenderer
}

// NewMarkdown builds a renderer wrapping at width columns. With styled
// false the plain "notty" style is used, which is what pipes and tests get.
func NewMarkdown(width int, styled bool) (*Markdown, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	style := glamour.WithStandardStyle("notty")
	if styled {
		style = glamour.WithAutoStyle()
	}

	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	return &Markdown{tr: tr}, nil
}

func (m *Markdown) Render(doc string) (string, error) {
	return m.tr.Render(doc)
}

// Post renders a full article: header, metadata line and body.
func (m *Markdown) Post(p *blog.Post) (string, error) {
	body, err := p.Markdown()
	if err != nil {
		return "", fmt.Errorf("convert post %s: %w", p.Key(), err)
	}
	out, err := m.Render(body)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(Title(p.Title))
	b.WriteString("\n")
	b.WriteString(Help(postMeta(p)))
	b.WriteString("\n")
	b.WriteString(out)
	return b.String(), nil
}

func postMeta(p *blog.Post) string {
	parts := make([]string, 0, 4)
	if created := p.Created(); !created.IsZero() {
		parts = append(parts, created.Format("Jan 2, 2006"))
	}
	if p.Category != "" {
		parts = append(parts, p.Category)
	}
	if tags := blog.TermNames(p.Tags); len(tags) > 0 {
		parts = append(parts, "#"+strings.Join(tags, " #"))
	}
	parts = append(parts, fmt.Sprintf("%d min read", p.ReadingMinutes()))
	return strings.Join(parts, " | ")
}
