package blog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// envelope is the wrapper every endpoint responds with.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// Term is a category or tag. The API sends either a bare string or an
// object with a name and an optional post count.
type Term struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

func (t *Term) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &t.Name)
	}
	type plain Term
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*t = Term(p)
	return nil
}

func TermNames(terms []Term) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.Name != "" {
			out = append(out, t.Name)
		}
	}
	return out
}

// Timestamp accepts epoch milliseconds, RFC 3339 or a bare date.
type Timestamp struct{ time.Time }

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", time.DateOnly}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		ts.Time = time.Time{}
		return nil
	}

	if b[0] != '"' {
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return err
		}
		ts.Time = time.UnixMilli(ms)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			ts.Time = t
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339Nano))
}

type Post struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Excerpt        string    `json:"excerpt"`
	Content        string    `json:"content"`
	HTMLContent    string    `json:"htmlContent"`
	TextContent    string    `json:"textContent"`
	Category       string    `json:"category"`
	Tags           []Term    `json:"tags"`
	PublishDate    Timestamp `json:"publishDate"`
	LastEditedDate Timestamp `json:"lastEditedDate"`
	CreatedAt      Timestamp `json:"createdAt"`
	PageCover      string    `json:"pageCover"`
	URL            string    `json:"url"`
}

type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

type PostPage struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

type SiteInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Avatar      string `json:"avatar"`
	URL         string `json:"url"`
	PostCount   int    `json:"postCount"`
}

// PostsQuery filters the post listing. Zero values are left out of the
// request.
type PostsQuery struct {
	Page     int
	PageSize int
	Category string
	Search   string
	Tags     []string
}
