package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct{ id, slug, v string }

func itemKey(i item) (string, string) { return i.id, i.slug }

func TestKeyedList_Upsert(t *testing.T) {
	l := newKeyedList([]item{{"1", "a", "x"}}, itemKey)

	inserted := l.upsert(ArticleRef{Slug: "a"}, 0, func(prev *item) item {
		return item{prev.id, prev.slug, "y"}
	})
	assert.False(t, inserted)
	assert.Equal(t, []item{{"1", "a", "y"}}, l.items)

	inserted = l.upsert(ArticleRef{ID: "2"}, 0, func(prev *item) item {
		assert.Nil(t, prev)
		return item{"2", "", "z"}
	})
	assert.True(t, inserted)
	assert.Equal(t, "2", l.items[0].id)
}

func TestKeyedList_PushFrontTrims(t *testing.T) {
	l := newKeyedList[item](nil, itemKey)
	for _, id := range []string{"1", "2", "3", "4"} {
		l.pushFront(item{id: id}, 3)
	}
	assert.Equal(t, []item{{id: "4"}, {id: "3"}, {id: "2"}}, l.items)
}

func TestKeyedList_RemoveID(t *testing.T) {
	l := newKeyedList([]item{{"1", "a", ""}, {"2", "b", ""}, {"3", "1", ""}}, itemKey)

	assert.Equal(t, 2, l.removeID("1"))
	assert.Equal(t, []item{{"2", "b", ""}}, l.items)
	assert.Zero(t, l.removeID(""))
	assert.Zero(t, l.removeID("zzz"))
}

func TestKeyedList_FindIgnoresEmptyKeys(t *testing.T) {
	l := newKeyedList([]item{{"", "", "blank"}, {"1", "", ""}}, itemKey)

	assert.Equal(t, -1, l.find(ArticleRef{}))
	assert.Equal(t, -1, l.findID(""))
	assert.Equal(t, 1, l.find(ArticleRef{ID: "1"}))
}
