package catalog

import (
	"fmt"
	"strings"

	"github.com/serroba/foodgram-go/internal/media"
)

// MaxNameLength bounds recipe and ingredient names.
const MaxNameLength = 128

// Validate checks r before it reaches the repository.
func (r *NewRecipe) Validate() error {
	name := strings.TrimSpace(r.Name)

	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidRecipe)
	case len([]rune(name)) > MaxNameLength:
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidRecipe, MaxNameLength)
	case strings.TrimSpace(r.Text) == "":
		return fmt.Errorf("%w: text is required", ErrInvalidRecipe)
	case r.CookingTime < 1:
		return fmt.Errorf("%w: cooking time must be at least 1 minute", ErrInvalidRecipe)
	case len(r.Ingredients) == 0:
		return fmt.Errorf("%w: at least one ingredient is required", ErrInvalidRecipe)
	}

	seen := make(map[int64]struct{}, len(r.Ingredients))

	for _, ing := range r.Ingredients {
		if ing.Amount < 1 {
			return fmt.Errorf("%w: ingredient %d amount must be at least 1", ErrInvalidRecipe, ing.ID)
		}

		if _, dup := seen[ing.ID]; dup {
			return fmt.Errorf("%w: ingredient %d listed twice", ErrInvalidRecipe, ing.ID)
		}

		seen[ing.ID] = struct{}{}
	}

	if r.Image != "" {
		if _, err := media.DecodeImage(r.Image); err != nil {
			return err
		}
	}

	return nil
}
