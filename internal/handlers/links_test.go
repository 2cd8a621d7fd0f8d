package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/serroba/foodgram-go/internal/shortlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shortLinkBody struct {
	ShortLink string `json:"short-link"`
}

func TestGetLink(t *testing.T) {
	t.Run("returns the recipe short link", func(t *testing.T) {
		f := newFixture(t)
		id := f.createRecipe(t, 1, "Pancakes")

		w := f.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d/get-link", id), 0, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		link := decode[shortLinkBody](t, w).ShortLink
		assert.True(t, strings.HasPrefix(link, testBaseURL+"/a/r/"), link)
		assert.Len(t, strings.TrimPrefix(link, testBaseURL+"/a/r/"), 8)
	})

	t.Run("is idempotent across GET and POST", func(t *testing.T) {
		f := newFixture(t)
		id := f.createRecipe(t, 1, "Pancakes")
		path := fmt.Sprintf("/api/recipes/%d/get-link", id)

		first := decode[shortLinkBody](t, f.do(t, http.MethodGet, path, 0, nil))
		second := decode[shortLinkBody](t, f.do(t, http.MethodPost, path, 2, nil))

		assert.Equal(t, first.ShortLink, second.ShortLink)
		assert.Len(t, f.events.created, 2)
		assert.Equal(t, int64(2), f.events.created[1].UserID)
	})

	t.Run("workout plans use the plan segment", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPlan(t, 1, "Legs")

		w := f.do(t, http.MethodGet, fmt.Sprintf("/api/workout-plans/%d/get-link", id), 0, nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, strings.HasPrefix(decode[shortLinkBody](t, w).ShortLink, testBaseURL+"/a/w/"))
	})

	t.Run("unknown resource is 404", func(t *testing.T) {
		f := newFixture(t)

		w := f.do(t, http.MethodGet, "/api/recipes/999/get-link", 0, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "recipe not found", decode[errorBody](t, w).Error)
	})
}

func TestRedirect(t *testing.T) {
	linkCode := func(t *testing.T, f *fixture, path string) string {
		t.Helper()

		link := decode[shortLinkBody](t, f.do(t, http.MethodGet, path, 0, nil)).ShortLink

		return link[strings.LastIndex(link, "/")+1:]
	}

	t.Run("redirects recipe codes with 302", func(t *testing.T) {
		f := newFixture(t)
		id := f.createRecipe(t, 1, "Pancakes")
		code := linkCode(t, f, fmt.Sprintf("/api/recipes/%d/get-link", id))

		w := f.do(t, http.MethodGet, "/a/r/"+code, 0, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, fmt.Sprintf("%s/api/recipes/%d", testBaseURL, id), w.Header().Get("Location"))
	})

	t.Run("redirects plan codes to the plan", func(t *testing.T) {
		f := newFixture(t)
		id := f.createPlan(t, 1, "Legs")
		code := linkCode(t, f, fmt.Sprintf("/api/workout-plans/%d/get-link", id))

		w := f.do(t, http.MethodGet, "/a/w/"+code, 0, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, fmt.Sprintf("%s/api/workout-plans/%d", testBaseURL, id), w.Header().Get("Location"))
	})

	t.Run("publishes resolution events with cache status", func(t *testing.T) {
		f := newFixture(t)
		id := f.createRecipe(t, 1, "Pancakes")
		code := linkCode(t, f, fmt.Sprintf("/api/recipes/%d/get-link", id))

		f.do(t, http.MethodGet, "/a/r/"+code, 0, nil)
		f.do(t, http.MethodGet, "/a/r/"+code, 0, nil)

		require.Len(t, f.events.resolved, 2)
		assert.False(t, f.events.resolved[0].CacheHit)
		assert.True(t, f.events.resolved[1].CacheHit)
		assert.Equal(t, id, f.events.resolved[1].ResourceID)
	})

	t.Run("recipe codes do not resolve as plans", func(t *testing.T) {
		f := newFixture(t)
		id := f.createRecipe(t, 1, "Pancakes")
		code := linkCode(t, f, fmt.Sprintf("/api/recipes/%d/get-link", id))

		w := f.do(t, http.MethodGet, "/a/w/"+code, 0, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown code is 404", func(t *testing.T) {
		f := newFixture(t)

		w := f.do(t, http.MethodGet, "/a/r/AAAAAAAA", 0, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotEmpty(t, decode[errorBody](t, w).Error)
	})

	t.Run("malformed code is 400", func(t *testing.T) {
		f := newFixture(t)

		w := f.do(t, http.MethodGet, "/a/r/short", 0, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("other methods are 405", func(t *testing.T) {
		f := newFixture(t)

		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := f.do(t, method, "/a/r/AAAAAAAA", 0, nil)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, "method not allowed", decode[errorBody](t, w).Error)
		}
	})

	t.Run("unknown paths are 404 with an error body", func(t *testing.T) {
		f := newFixture(t)

		w := f.do(t, http.MethodGet, "/a/x/AAAAAAAA", 0, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, "not found", decode[errorBody](t, w).Error)
	})

	t.Run("deleting the recipe removes its link", func(t *testing.T) {
		f := newFixture(t)
		id := f.createRecipe(t, 1, "Pancakes")
		code := linkCode(t, f, fmt.Sprintf("/api/recipes/%d/get-link", id))

		require.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, fmt.Sprintf("/api/recipes/%d", id), 1, nil).Code)

		_, err := f.links.GetByCode(t.Context(), shortlink.KindRecipe, shortlink.Code(code))
		assert.ErrorIs(t, err, shortlink.ErrNotFound)
	})
}
