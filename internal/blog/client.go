// Package blog is a small client for the blog's REST API plus the helpers
// that turn post bodies into terminal-friendly markdown.
package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrAPI is returned when the API answers with success=false.
var ErrAPI = errors.New("blog api error")

const userAgent = "blogkeeper/1.0"

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the API rooted at baseURL. A zero timeout
// means 15 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying http.Client, mostly for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

func (c *Client) Posts(ctx context.Context, q PostsQuery) (*PostPage, error) {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for _, t := range q.Tags {
		v.Add("tags", t)
	}

	page, err := get[PostPage](ctx, c, "/posts", v)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Post fetches one post by id or slug.
func (c *Client) Post(ctx context.Context, id string) (*Post, error) {
	p, err := get[Post](ctx, c, "/post/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Categories(ctx context.Context) ([]Term, error) {
	data, err := get[struct {
		Categories []Term `json:"categories"`
	}](ctx, c, "/categories", nil)
	if err != nil {
		return nil, err
	}
	return data.Categories, nil
}

func (c *Client) Tags(ctx context.Context) ([]Term, error) {
	data, err := get[struct {
		Tags []Term `json:"tags"`
	}](ctx, c, "/tags", nil)
	if err != nil {
		return nil, err
	}
	return data.Tags, nil
}

func (c *Client) SiteInfo(ctx context.Context) (*SiteInfo, error) {
	info, err := get[SiteInfo](ctx, c, "/site-info", nil)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var zero T

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return zero, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return zero, fmt.Errorf("%s returned %s: %s", path, resp.Status, strings.TrimSpace(string(body)))
	}

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, fmt.Errorf("decode %s: %w", path, err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return zero, fmt.Errorf("%w: %s: %s", ErrAPI, path, msg)
	}
	return env.Data, nil
}
