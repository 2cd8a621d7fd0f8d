package shortlink_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/serroba/foodgram-go/internal/shortlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	res := shortlink.Resource{
		Kind:      shortlink.KindRecipe,
		ID:        1,
		Name:      "Pancakes",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	assert.Equal(t, "1Pancakes2024-01-02T03:04:05Z", shortlink.Identity(res, ""))
	assert.Equal(t, "1Pancakes2024-01-02T03:04:05Zsalt", shortlink.Identity(res, "salt"))
}

func TestGenerateCode(t *testing.T) {
	t.Run("matches the sha256 url-safe base64 prefix", func(t *testing.T) {
		assert.Equal(t, shortlink.Code("kw4nXfUH"), shortlink.GenerateCode("1Pancakes2024-01-02T03:04:05Z"))
		assert.Equal(t, shortlink.Code("r6QIOEK0"),
			shortlink.GenerateCode("42Full body split2025-03-04T05:06:07.123456Z"))
	})

	t.Run("same input produces same code", func(t *testing.T) {
		assert.Equal(t, shortlink.GenerateCode("recipe-1"), shortlink.GenerateCode("recipe-1"))
	})

	t.Run("code is 8 url-safe characters", func(t *testing.T) {
		code := shortlink.GenerateCode("recipe-1")

		require.Len(t, string(code), shortlink.CodeLength)

		_, err := shortlink.ParseCode(string(code))
		assert.NoError(t, err)
	})

	t.Run("no collision across 10000 identities", func(t *testing.T) {
		seen := make(map[shortlink.Code]string, 10000)

		for i := range 10000 {
			identity := fmt.Sprintf("%dRecipe %d2024-01-02T03:04:05Z", i, i)
			code := shortlink.GenerateCode(identity)

			if prev, ok := seen[code]; ok {
				t.Fatalf("collision between %q and %q", prev, identity)
			}

			seen[code] = identity
		}
	})
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "valid code", input: "kw4nXfUH", valid: true},
		{name: "dash and underscore", input: "ab-_CD12", valid: true},
		{name: "empty", input: "", valid: false},
		{name: "too short", input: "abc", valid: false},
		{name: "too long", input: "abcdefghi", valid: false},
		{name: "padding character", input: "abcdefg=", valid: false},
		{name: "standard base64 characters", input: "abc+/efg", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := shortlink.ParseCode(tt.input)

			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, shortlink.Code(tt.input), code)

				return
			}

			assert.ErrorIs(t, err, shortlink.ErrInvalidCode)
		})
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "/api/recipes/3", shortlink.KindRecipe.CanonicalPath(3))
	assert.Equal(t, "/api/workout-plans/3", shortlink.KindWorkoutPlan.CanonicalPath(3))
	assert.Equal(t, "r", shortlink.KindRecipe.Segment())
	assert.Equal(t, "w", shortlink.KindWorkoutPlan.Segment())
	assert.False(t, shortlink.Kind("article").Valid())
}
