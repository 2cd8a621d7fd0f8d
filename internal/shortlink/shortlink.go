package shortlink

import (
	"fmt"
	"time"
)

// Code is the 8-character public identifier of a short link.
type Code string

// Kind identifies which kind of resource a short link points to.
type Kind string

const (
	KindRecipe      Kind = "recipe"
	KindWorkoutPlan Kind = "workout_plan"
)

// Kinds lists every linkable kind.
var Kinds = []Kind{KindRecipe, KindWorkoutPlan}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindRecipe || k == KindWorkoutPlan
}

// CanonicalPath is the API path of the resource a link resolves to.
func (k Kind) CanonicalPath(id int64) string {
	switch k {
	case KindWorkoutPlan:
		return fmt.Sprintf("/api/workout-plans/%d", id)
	default:
		return fmt.Sprintf("/api/recipes/%d", id)
	}
}

// Segment is the single-letter path segment short links of this kind use.
func (k Kind) Segment() string {
	if k == KindWorkoutPlan {
		return "w"
	}

	return "r"
}

// Resource is the identity a short link is derived from.
type Resource struct {
	Kind      Kind
	ID        int64
	Name      string
	CreatedAt time.Time
}

// ShortLink maps a code to exactly one resource.
type ShortLink struct {
	Code       Code
	Kind       Kind
	ResourceID int64
	CreatedAt  time.Time
}
