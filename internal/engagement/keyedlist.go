package engagement

// keyedList is a most-recent-first list whose items are identified by a
// (postId, slug) pair. History, favorites, encounters and search history
// are all stored this way.
type keyedList[T any] struct {
	items []T
	key   func(T) (id, slug string)
}

func newKeyedList[T any](items []T, key func(T) (string, string)) *keyedList[T] {
	return &keyedList[T]{items: items, key: key}
}

// find returns the index of the first item matching ref, or -1.
func (l *keyedList[T]) find(ref ArticleRef) int {
	for i, it := range l.items {
		id, slug := l.key(it)
		if matchesRef(id, slug, ref) {
			return i
		}
	}
	return -1
}

// findID is find for a single identifier that may be either an id or a slug.
func (l *keyedList[T]) findID(id string) int {
	for i, it := range l.items {
		pid, slug := l.key(it)
		if matchesID(pid, slug, id) {
			return i
		}
	}
	return -1
}

// pushFront inserts v at the head and trims the list to bound (bound <= 0
// means unbounded).
func (l *keyedList[T]) pushFront(v T, bound int) {
	l.items = append([]T{v}, l.items...)
	l.trim(bound)
}

// upsert replaces the item matching ref in place through merge, or inserts
// the result of merge(nil) at the head. It reports whether a new item was
// inserted.
func (l *keyedList[T]) upsert(ref ArticleRef, bound int, merge func(prev *T) T) bool {
	if i := l.find(ref); i >= 0 {
		prev := l.items[i]
		l.items[i] = merge(&prev)
		l.trim(bound)
		return false
	}
	l.pushFront(merge(nil), bound)
	return true
}

// removeID drops every item matching id and returns how many were removed.
func (l *keyedList[T]) removeID(id string) int {
	return l.removeWhere(func(v T) bool {
		pid, slug := l.key(v)
		return matchesID(pid, slug, id)
	})
}

// removeWhere drops every item for which drop returns true.
func (l *keyedList[T]) removeWhere(drop func(T) bool) int {
	kept := l.items[:0]
	for _, it := range l.items {
		if !drop(it) {
			kept = append(kept, it)
		}
	}
	removed := len(l.items) - len(kept)
	clear(l.items[len(kept):])
	l.items = kept
	return removed
}

func (l *keyedList[T]) trim(bound int) {
	if bound > 0 && len(l.items) > bound {
		clear(l.items[bound:])
		l.items = l.items[:bound]
	}
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
