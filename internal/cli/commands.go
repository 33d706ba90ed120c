package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/blog"
	"github.com/dmitrijs2005/blogkeeper/internal/cache"
	"github.com/dmitrijs2005/blogkeeper/internal/engagement"
	"github.com/dmitrijs2005/blogkeeper/internal/render"
)

// leadingInt splits an optional leading integer off args.
func leadingInt(args []string) (int, []string) {
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			return n, args[1:]
		}
	}
	return 0, args
}

// postsFilter is the remembered category selection of "posts".
type postsFilter struct {
	SelectedCategory string   `json:"selectedCategory"`
	SelectedTags     []string `json:"selectedTags"`
}

// posts lists a page of posts. A category argument is remembered for a
// month and reused by later "posts" calls; "all" forgets it.
func (a *App) posts(ctx context.Context, args []string) {
	page, rest := leadingInt(args)
	q := blog.PostsQuery{Page: max(page, 1), PageSize: a.pageSize}

	switch {
	case len(rest) > 0 && rest[0] == "all":
		if a.cache != nil {
			a.cache.Remove(ctx, cache.KeyPostsFilter)
		}
	case len(rest) > 0:
		q.Category = rest[0]
		if a.cache != nil {
			a.cache.Set(ctx, cache.KeyPostsFilter, postsFilter{SelectedCategory: q.Category, SelectedTags: []string{}}, cache.Month)
		}
	case a.cache != nil:
		if f, ok := cache.Get[postsFilter](ctx, a.cache, cache.KeyPostsFilter); ok {
			q.Category = f.SelectedCategory
			q.Tags = f.SelectedTags
		}
	}
	a.listPosts(ctx, q)
}

func (a *App) search(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.println("Usage: search <keyword>")
		return
	}
	kw := strings.Join(args, " ")
	a.store.RecordSearch(ctx, kw)
	a.listPosts(ctx, blog.PostsQuery{Page: 1, PageSize: a.pageSize, Search: kw})
}

func (a *App) listPosts(ctx context.Context, q blog.PostsQuery) {
	page, err := a.blog.Posts(ctx, q)
	if err != nil {
		a.fail(ctx, "posts", err)
		return
	}
	a.println(render.PostPage(page))
}

func (a *App) searches(ctx context.Context, args []string) {
	if len(args) > 0 && args[0] == "clear" {
		a.result(a.store.ClearSearchHistory(ctx))
		return
	}
	a.println(render.Searches(a.store.SearchHistory(ctx, 0)))
}

// read shows a post. With an explicit number of seconds the visit is
// recorded at once; otherwise it is timed until the next command.
func (a *App) read(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.println("Usage: read <id> [seconds]")
		return
	}

	post, err := a.blog.Post(ctx, args[0])
	if err != nil {
		a.fail(ctx, "read", err)
		return
	}
	out, err := a.md.Post(post)
	if err != nil {
		a.fail(ctx, "render", err)
		return
	}
	a.println(out)
	if a.store.IsFavorited(ctx, post.Key()) {
		a.println(render.Help("★ in favorites"))
	}

	if len(args) > 1 {
		secs, err := strconv.Atoi(args[1])
		if err != nil || secs < 0 {
			a.println("Usage: read <id> [seconds]")
			return
		}
		a.recordVisit(ctx, post, time.Duration(secs)*time.Second)
		return
	}
	a.open = &openPost{post: post, openedAt: a.now()}
}

// closeOpenPost records the time spent on the post opened by the last
// "read", if any.
func (a *App) closeOpenPost(ctx context.Context) {
	if a.open == nil {
		return
	}
	p := a.open
	a.open = nil
	a.recordVisit(ctx, p.post, a.now().Sub(p.openedAt))
}

func (a *App) recordVisit(ctx context.Context, post *blog.Post, spent time.Duration) {
	if spent < a.minReadingTime {
		a.log.Debug(ctx, "visit too short to record", "post", post.Key(), "spent", spent)
		return
	}
	entry := a.store.RecordReadingHistory(ctx, post.Ref(), spent, progress(post, spent))
	if entry != nil {
		a.log.Debug(ctx, "visit recorded", "post", post.Key(), "read_count", entry.ReadCount)
	}
}

// progress estimates how much of the post was read from the time spent.
func progress(post *blog.Post, spent time.Duration) int {
	expected := time.Duration(post.ReadingMinutes()) * time.Minute
	return min(100, int(spent*100/expected))
}

func (a *App) history(ctx context.Context, args []string) {
	limit, rest := leadingInt(args)
	category := ""
	if len(rest) > 0 {
		category = rest[0]
	}
	a.println(render.History(a.store.ReadingHistory(ctx, limit, category)))
}

func (a *App) forget(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.println("Usage: forget <id|all>")
		return
	}
	if args[0] == "all" {
		a.result(a.store.ClearHistory(ctx))
		return
	}
	a.result(a.store.RemoveFromHistory(ctx, args[0]))
}

func (a *App) fav(ctx context.Context, args []string) {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		category := ""
		if len(args) > 0 {
			category = args[0]
		}
		a.println(render.Favorites(a.store.Favorites(ctx, category)))

	case "add":
		if len(args) == 0 {
			a.println("Usage: fav add <id>")
			return
		}
		post, err := a.blog.Post(ctx, args[0])
		if err != nil {
			a.fail(ctx, "fav add", err)
			return
		}
		a.result(a.store.AddToFavorites(ctx, post.Ref()).Result)

	case "rm":
		if len(args) == 0 {
			a.println("Usage: fav rm <id>")
			return
		}
		a.result(a.store.RemoveFromFavorites(ctx, args[0]))

	case "clear":
		a.result(a.store.ClearFavorites(ctx))

	default:
		a.println("Usage: fav add|rm|list|clear")
	}
}

// encounter draws from the first page of recent posts, preferring
// category when given.
func (a *App) encounter(ctx context.Context, args []string) {
	page, err := a.blog.Posts(ctx, blog.PostsQuery{Page: 1, PageSize: encounterPool})
	if err != nil {
		a.fail(ctx, "encounter", err)
		return
	}

	opts := engagement.DefaultEncounterOptions()
	if len(args) > 0 {
		opts.PreferCategory = args[0]
	}
	a.println(render.Encounter(a.store.RandomEncounter(ctx, blog.Refs(page.Posts), opts)))
}

func (a *App) terms(ctx context.Context, fetch func(context.Context) ([]blog.Term, error)) {
	terms, err := fetch(ctx)
	if err != nil {
		a.fail(ctx, "terms", err)
		return
	}
	if len(terms) == 0 {
		a.println(render.Help("none"))
		return
	}
	for _, t := range terms {
		if t.Count > 0 {
			a.println(fmt.Sprintf("%s (%d)", t.Name, t.Count))
		} else {
			a.println(t.Name)
		}
	}
}

func (a *App) prefs(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.println(render.Preferences(a.store.Preferences(ctx)))
		return
	}
	if len(args) != 2 {
		a.println("Usage: prefs [history|midnight|max <value>]")
		return
	}

	var patch engagement.PreferencesPatch
	switch key, value := args[0], args[1]; key {
	case "history", "midnight":
		b, err := strconv.ParseBool(value)
		if err != nil {
			a.println("Usage: prefs " + key + " true|false")
			return
		}
		if key == "history" {
			patch.EnableReadingHistory = &b
		} else {
			patch.EnableMidnightAnalysis = &b
		}
	case "max":
		n, err := strconv.Atoi(value)
		if err != nil {
			a.println("Usage: prefs max <number>")
			return
		}
		patch.MaxHistoryItems = &n
	default:
		a.println("Unknown preference:", key)
		return
	}

	res := a.store.UpdatePreferences(ctx, patch)
	a.result(res.Result)
	if res.Success {
		a.println(render.Preferences(res.Preferences))
	}
}

func (a *App) cleanup(ctx context.Context, args []string) {
	days, _ := leadingInt(args)
	a.result(a.store.CleanupExpiredData(ctx, days).Result)
}

func (a *App) refresh(ctx context.Context) {
	a.blog.Refresh(ctx)
	info, err := a.blog.SiteInfo(ctx)
	if err != nil {
		a.fail(ctx, "refresh", err)
		return
	}
	a.println(render.Status("refreshed " + info.Title))
}
