// Package cli implements the interactive blogkeeper shell.
//
// The shell reads one command per line, dispatches it to the blog client
// or the engagement store and prints the result. A post opened with
// "read" stays open until the next command, and the time spent on it is
// then recorded in the reading history when it reaches the configured
// minimum reading time.
//
// Commands
//
//	help                         show available commands
//	posts [page] [category|all]  list posts; the category is remembered
//	search <keyword...>          search posts and remember the keyword
//	searches [clear]             recent searches
//	read <id> [seconds]          open a post
//	history [limit] [category]   reading history
//	forget <id|all>              drop a post (or everything) from history
//	stats                        reading statistics
//	night                        midnight reading analysis
//	fav add|rm <id>              add or remove a favorite
//	fav list [category]          list favorites
//	fav clear                    remove all favorites
//	encounter [category]         pick a random post
//	encounters                   encounter history
//	categories | tags            cached category and tag lists
//	prefs [key value]            show or change preferences
//	cleanup [days]               drop old history and encounters
//	refresh                      drop cached site data
//	exit | quit                  leave
package cli
