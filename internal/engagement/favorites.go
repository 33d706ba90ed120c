package engagement

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

func favoriteKey(f Favorite) (string, string) { return f.PostID, f.Slug }

func emptyFavorites() []Favorite { return []Favorite{} }

// AddToFavorites inserts ref at the head of the favorites. An article that
// is already there, by id or slug, is rejected with common.ErrAlreadyExists.
func (s *Store) AddToFavorites(ctx context.Context, ref ArticleRef) FavoriteResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := Favorite{
		PostID:   ref.ID,
		Slug:     ref.Slug,
		Title:    ref.Title,
		Category: ref.Category,
		Tags:     cloneTags(ref.Tags),
		Excerpt:  ref.Excerpt,
		AddedAt:  s.now(),
	}

	err := mutate(ctx, s, KeyFavorites, emptyFavorites, func(items *[]Favorite) error {
		list := newKeyedList(*items, favoriteKey)
		if list.find(ref) >= 0 {
			return common.ErrAlreadyExists
		}
		list.pushFront(item, 0)
		*items = list.items
		return nil
	})

	switch {
	case errors.Is(err, common.ErrAlreadyExists):
		return FavoriteResult{Result: fail("article is already in favorites", err)}
	case err != nil:
		return FavoriteResult{Result: fail("failed to add favorite", err)}
	}
	return FavoriteResult{Result: success("added to favorites"), Item: &item}
}

// RemoveFromFavorites removes every favorite whose id or slug equals id,
// failing with common.ErrNotPresent when none does.
func (s *Store) RemoveFromFavorites(ctx context.Context, id string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := mutate(ctx, s, KeyFavorites, emptyFavorites, func(items *[]Favorite) error {
		list := newKeyedList(*items, favoriteKey)
		if list.removeID(id) == 0 {
			return common.ErrNotPresent
		}
		*items = list.items
		return nil
	})

	switch {
	case errors.Is(err, common.ErrNotPresent):
		return fail("article is not in favorites", err)
	case err != nil:
		return fail("failed to remove favorite", err)
	}
	return success("removed from favorites")
}

func (s *Store) IsFavorited(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := newKeyedList(s.favorites(ctx), favoriteKey)
	return list.findID(id) >= 0
}

// Favorites lists favorites, newest first, optionally for one category.
func (s *Store) Favorites(ctx context.Context, category string) []Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.favorites(ctx)
	if category == "" {
		return items
	}
	return filter(items, func(f Favorite) bool { return f.Category == category })
}

func (s *Store) ClearFavorites(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := mutate(ctx, s, KeyFavorites, emptyFavorites, func(items *[]Favorite) error {
		*items = []Favorite{}
		return nil
	})
	if err != nil {
		return fail("failed to clear favorites", err)
	}
	return success("favorites cleared")
}

func (s *Store) favorites(ctx context.Context) []Favorite {
	return load(ctx, s, KeyFavorites, emptyFavorites())
}
