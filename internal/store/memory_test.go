package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/foodgram-go/internal/shortlink"
	"github.com/serroba/foodgram-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLink(code string, id int64) *shortlink.ShortLink {
	return &shortlink.ShortLink{
		Code:       shortlink.Code(code),
		Kind:       shortlink.KindRecipe,
		ResourceID: id,
		CreatedAt:  time.Now(),
	}
}

func TestMemoryStore_Create(t *testing.T) {
	t.Run("creates link successfully", func(t *testing.T) {
		s := store.NewMemoryStore()

		err := s.Create(context.Background(), newLink("abcd1234", 1))

		require.NoError(t, err)
	})

	t.Run("rejects a second link for the same resource", func(t *testing.T) {
		s := store.NewMemoryStore()
		require.NoError(t, s.Create(context.Background(), newLink("abcd1234", 1)))

		err := s.Create(context.Background(), newLink("zzzz9999", 1))

		assert.ErrorIs(t, err, shortlink.ErrResourceLinked)
	})

	t.Run("rejects a code owned by another resource", func(t *testing.T) {
		s := store.NewMemoryStore()
		require.NoError(t, s.Create(context.Background(), newLink("abcd1234", 1)))

		err := s.Create(context.Background(), newLink("abcd1234", 2))
		assert.ErrorIs(t, err, shortlink.ErrCodeTaken)

		got, err := s.GetByCode(context.Background(), shortlink.KindRecipe, "abcd1234")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ResourceID)
	})

	t.Run("kinds are independent", func(t *testing.T) {
		s := store.NewMemoryStore()
		require.NoError(t, s.Create(context.Background(), newLink("abcd1234", 1)))

		plan := newLink("abcd1234", 1)
		plan.Kind = shortlink.KindWorkoutPlan

		require.NoError(t, s.Create(context.Background(), plan))
	})
}

func TestMemoryStore_Get(t *testing.T) {
	t.Run("returns link by code and by resource", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Create(context.Background(), newLink("abcd1234", 7))

		byCode, err := s.GetByCode(context.Background(), shortlink.KindRecipe, "abcd1234")
		require.NoError(t, err)
		assert.Equal(t, int64(7), byCode.ResourceID)

		byResource, err := s.GetByResource(context.Background(), shortlink.KindRecipe, 7)
		require.NoError(t, err)
		assert.Equal(t, shortlink.Code("abcd1234"), byResource.Code)
	})

	t.Run("returns ErrNotFound when code does not exist", func(t *testing.T) {
		s := store.NewMemoryStore()

		link, err := s.GetByCode(context.Background(), shortlink.KindRecipe, "notfound")

		assert.Nil(t, link)
		assert.ErrorIs(t, err, shortlink.ErrNotFound)
	})

	t.Run("DeleteResource cascades to the code index", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Create(context.Background(), newLink("abcd1234", 7))

		s.DeleteResource(context.Background(), shortlink.KindRecipe, 7)

		_, err := s.GetByCode(context.Background(), shortlink.KindRecipe, "abcd1234")
		assert.ErrorIs(t, err, shortlink.ErrNotFound)
	})
}
