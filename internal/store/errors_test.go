package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"ErrPlantNotFound", ErrPlantNotFound, true},
		{"wrapped ErrJournalNotFound", fmt.Errorf("lookup: %w", ErrJournalNotFound), true},
		{"ErrRegionNotSet", ErrRegionNotSet, true},
		{"store error around not found", NewStoreError("plant", "get", "missing", ErrPlantNotFound), true},
		{"duplicate", ErrDuplicate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	wrapped := NewStoreError("journal", "create", "insert failed", ErrDuplicate)
	assert.Equal(t, "create operation on journal failed: insert failed: entity already exists", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrDuplicate)

	bare := NewStoreError("plant", "delete", "no rows", nil)
	assert.Equal(t, "delete operation on plant failed: no rows", bare.Error())
	assert.Nil(t, bare.Unwrap())

	var storeErr *StoreError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &storeErr))
	assert.Equal(t, "journal", storeErr.Entity)
}
