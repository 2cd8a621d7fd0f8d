package apperror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/serroba/foodgram-go/internal/apperror"
	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"wrapped not found", fmt.Errorf("short link: %w", apperror.ErrNotFound), apperror.ErrNotFound},
		{"wrapped invalid input", fmt.Errorf("code: %w", apperror.ErrInvalidInput), apperror.ErrInvalidInput},
		{"conflict", apperror.ErrConflict, apperror.ErrConflict},
		{"empty collection", fmt.Errorf("cart: %w", apperror.ErrEmptyCollection), apperror.ErrEmptyCollection},
		{"forbidden", apperror.ErrForbidden, apperror.ErrForbidden},
		{"unauthenticated", apperror.ErrUnauthenticated, apperror.ErrUnauthenticated},
		{"unknown error becomes internal", errors.New("connection reset"), apperror.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, apperror.Kind(tt.err))
		})
	}
}
