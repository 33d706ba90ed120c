package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/dmitrijs2005/blogkeeper/internal/blog"
	"github.com/dmitrijs2005/blogkeeper/internal/cache"
	"github.com/dmitrijs2005/blogkeeper/internal/clock"
	"github.com/dmitrijs2005/blogkeeper/internal/engagement"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/render"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// BlogAPI is the part of blog.CachedClient the shell uses.
type BlogAPI interface {
	Posts(ctx context.Context, q blog.PostsQuery) (*blog.PostPage, error)
	Post(ctx context.Context, id string) (*blog.Post, error)
	Categories(ctx context.Context) ([]blog.Term, error)
	Tags(ctx context.Context) ([]blog.Term, error)
	SiteInfo(ctx context.Context) (*blog.SiteInfo, error)
	Refresh(ctx context.Context)
}

const (
	defaultPageSize = 10
	encounterPool   = 50
)

type Options struct {
	MinReadingTime time.Duration
	PageSize       int
	Clock          clock.Func
	Logger         logging.Logger
	// Cache, when set, remembers the last posts filter.
	Cache *cache.Cache
	// Styled enables colours and the prompt. Run turns it on when stdin
	// is a terminal.
	Styled bool
}

type App struct {
	blog  BlogAPI
	store *engagement.Store
	cache *cache.Cache
	md    *render.Markdown
	log   logging.Logger
	now   clock.Func
	out   io.Writer

	minReadingTime time.Duration
	pageSize       int
	styled         bool

	open *openPost
}

// openPost is the post shown by the last "read" command.
type openPost struct {
	post     *blog.Post
	openedAt time.Time
}

func NewApp(api BlogAPI, store *engagement.Store, out io.Writer, opts Options) (*App, error) {
	md, err := render.NewMarkdown(render.DefaultWidth, opts.Styled)
	if err != nil {
		return nil, err
	}

	a := &App{
		blog:           api,
		store:          store,
		cache:          opts.Cache,
		md:             md,
		log:            opts.Logger,
		now:            opts.Clock,
		out:            out,
		minReadingTime: opts.MinReadingTime,
		pageSize:       opts.PageSize,
		styled:         opts.Styled,
	}
	if a.log == nil {
		a.log = logging.Discard()
	}
	if a.now == nil {
		a.now = clock.System
	}
	if a.pageSize <= 0 {
		a.pageSize = defaultPageSize
	}
	return a, nil
}

// Interactive reports whether stdin is attached to a terminal.
func Interactive() bool {
	return isTerminal(int(os.Stdin.Fd()))
}

// Run reads commands from in until EOF, "exit" or ctx is cancelled.
func (a *App) Run(ctx context.Context, in io.Reader) {
	a.println(render.Title("blogkeeper") + " " + render.Help("(type 'help' for commands)"))
	a.runREPL(ctx, bufio.NewScanner(in))
	a.closeOpenPost(ctx)
}

func (a *App) runREPL(ctx context.Context, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		if a.styled {
			fmt.Fprint(a.out, "blog> ")
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd, args := parts[0], parts[1:]
		if cmd == "exit" || cmd == "quit" {
			a.println("Bye!")
			return
		}

		a.closeOpenPost(ctx)
		a.dispatch(ctx, cmd, args)
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		a.help()
	case "posts", "l":
		a.posts(ctx, args)
	case "search":
		a.search(ctx, args)
	case "searches":
		a.searches(ctx, args)
	case "read":
		a.read(ctx, args)
	case "history":
		a.history(ctx, args)
	case "forget":
		a.forget(ctx, args)
	case "stats":
		a.println(render.Stats(a.store.ReadingStatistics(ctx)))
	case "night":
		a.println(render.Midnight(a.store.MidnightAnalysis(ctx)))
	case "fav":
		a.fav(ctx, args)
	case "encounter":
		a.encounter(ctx, args)
	case "encounters":
		a.println(render.Encounters(a.store.EncounterHistory(ctx)))
	case "categories":
		a.terms(ctx, a.blog.Categories)
	case "tags":
		a.terms(ctx, a.blog.Tags)
	case "prefs":
		a.prefs(ctx, args)
	case "cleanup":
		a.cleanup(ctx, args)
	case "refresh":
		a.refresh(ctx)
	default:
		a.println("Unknown command:", cmd)
	}
}

func (a *App) help() {
	a.println(render.Help("Available commands: posts, search, searches, read, history, forget, stats, night, " +
		"fav add|rm|list|clear, encounter, encounters, categories, tags, prefs, cleanup, refresh, exit"))
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) fail(ctx context.Context, what string, err error) {
	a.log.Debug(ctx, what, "error", err)
	a.println(render.Error(err))
}

func (a *App) result(r engagement.Result) {
	if r.Success {
		a.println(render.Status(r.Message))
		return
	}
	a.println(render.Failure(r.Message))
}
