package catalog

import (
	"context"
	"testing"

	apperrors "github.com/abgdnv/mangahaven/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewMemoryStore(t *testing.T) {
	t.Run("rejects duplicate ids", func(t *testing.T) {
		items := fixtureItems()
		items[1].ID = items[0].ID

		_, err := NewMemoryStore(items)

		require.ErrorIs(t, err, apperrors.ErrInvalidCatalog)
	})
	t.Run("rejects invalid item", func(t *testing.T) {
		items := fixtureItems()
		items[2].Volume = 0

		_, err := NewMemoryStore(items)

		require.ErrorIs(t, err, apperrors.ErrInvalidCatalog)
	})
	t.Run("empty catalog", func(t *testing.T) {
		s, err := NewMemoryStore(nil)

		require.NoError(t, err)
		assert.Equal(t, 0, s.Len())
	})
}

func Test_MemoryStore_GetAll(t *testing.T) {
	// given
	s, err := NewMemoryStore(fixtureItems())
	require.NoError(t, err)

	// when
	first, err := s.GetAll(context.Background())
	require.NoError(t, err)
	first[0].Title = "changed"
	first[0].Genres[0] = "changed"
	second, err := s.GetAll(context.Background())
	require.NoError(t, err)

	// then
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(second))
	assert.Equal(t, "Naruto, Vol. 1", second[0].Title)
	assert.Equal(t, "action", second[0].Genres[0])
	assert.Equal(t, 5, s.Len())
}

func Test_MemoryStore_GetByID(t *testing.T) {
	s, err := NewMemoryStore(fixtureItems())
	require.NoError(t, err)

	testCases := []struct {
		name      string
		id        string
		expectErr error
	}{
		{name: "found", id: "3"},
		{name: "not found", id: "99", expectErr: apperrors.ErrItemNotFound},
		{name: "empty id", id: "", expectErr: apperrors.ErrItemNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			it, err := s.GetByID(context.Background(), tc.id)

			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				assert.Nil(t, it)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.id, it.ID)
		})
	}
}
