package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

func TestCreateCard(t *testing.T) {
	ctx := context.Background()

	t.Run("generates an 8 character id and a local timestamp", func(t *testing.T) {
		b := setupBackend(t)
		card := &types.Card{Machine: "M12", Set: types.SetMittelsatz, Operator: "Jan"}

		id, err := b.CreateCard(ctx, card)
		require.NoError(t, err)
		assert.Len(t, id, types.CardIDLength)
		assert.Equal(t, id, card.ID)
		assert.NotZero(t, card.Seq)

		got, err := b.GetCard(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "M12", got.Machine)
		assert.Equal(t, types.SetMittelsatz, got.Set)
		assert.Equal(t, "Jan", got.Operator)
		assert.Equal(t, "2024-03-05 10:15:30", got.CreatedAt.Format(types.TimestampLayout))
		assert.Equal(t, "Europe/Warsaw", got.CreatedAt.Location().String())
	})

	t.Run("keeps a supplied id", func(t *testing.T) {
		b := setupBackend(t)
		id, err := b.CreateCard(ctx, &types.Card{ID: "SK-0001", Set: types.SetGrundsatz})
		require.NoError(t, err)
		assert.Equal(t, "SK-0001", id)
	})

	t.Run("rejects an unknown set", func(t *testing.T) {
		b := setupBackend(t)
		_, err := b.CreateCard(ctx, &types.Card{Set: 7})
		assert.ErrorIs(t, err, types.ErrInvalidSet)

		cards, err := b.QueryCards(ctx, types.Filter{})
		require.NoError(t, err)
		assert.Empty(t, cards)
	})
}

func TestGetCard(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	_, err := b.GetCard(ctx, "missing1")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.False(t, types.IsStorageError(err))

	_, err = b.GetCard(ctx, "")
	assert.ErrorIs(t, err, types.ErrInvalidID)

	t.Run("exact match only", func(t *testing.T) {
		_, err := b.CreateCard(ctx, &types.Card{ID: "abcd1234", Set: types.SetGrundsatz})
		require.NoError(t, err)
		_, err = b.GetCard(ctx, "abcd")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("newest duplicate wins", func(t *testing.T) {
		_, err := b.CreateCard(ctx, &types.Card{ID: "dup00001", Machine: "first", Set: types.SetGrundsatz})
		require.NoError(t, err)
		_, err = b.CreateCard(ctx, &types.Card{ID: "dup00001", Machine: "second", Set: types.SetGrundsatz})
		require.NoError(t, err)

		got, err := b.GetCard(ctx, "dup00001")
		require.NoError(t, err)
		assert.Equal(t, "second", got.Machine)
	})
}

func TestQueryCards(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	warsaw, err := time.LoadLocation(types.DefaultTimezone)
	require.NoError(t, err)

	seed := []types.Card{
		{ID: "aa000001", Machine: "M12", Set: types.SetMittelsatz, CreatedAt: time.Date(2024, 1, 10, 8, 0, 0, 0, warsaw)},
		{ID: "aa000002", Machine: "M13", Set: types.SetGrundsatz, CreatedAt: time.Date(2024, 1, 15, 23, 59, 59, 0, warsaw)},
		{ID: "bb000003", Machine: "X12", Set: types.SetMittelsatz, CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, warsaw)},
		{ID: "50%_0004", Machine: "M99", Set: types.SetUntersatz, CreatedAt: time.Date(2024, 2, 2, 12, 0, 0, 0, warsaw)},
	}
	for i := range seed {
		_, err := b.CreateCard(ctx, &seed[i])
		require.NoError(t, err)
	}

	ids := func(cards []*types.Card) []string {
		out := make([]string, 0, len(cards))
		for _, c := range cards {
			out = append(out, c.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter types.Filter
		want   []string
	}{
		{
			name:   "empty filter returns all newest first",
			filter: types.Filter{},
			want:   []string{"50%_0004", "bb000003", "aa000002", "aa000001"},
		},
		{
			name:   "id substring",
			filter: types.Filter{CardID: "aa"},
			want:   []string{"aa000002", "aa000001"},
		},
		{
			name:   "machine substring",
			filter: types.Filter{Machine: "12"},
			want:   []string{"bb000003", "aa000001"},
		},
		{
			name:   "exact set",
			filter: types.Filter{Set: types.SetMittelsatz},
			want:   []string{"bb000003", "aa000001"},
		},
		{
			name: "inclusive date range at date granularity",
			filter: types.Filter{
				DateFrom: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				DateTo:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			},
			want: []string{"bb000003", "aa000002"},
		},
		{
			name:   "conjunctive predicates",
			filter: types.Filter{Machine: "M1", Set: types.SetMittelsatz},
			want:   []string{"aa000001"},
		},
		{
			name:   "wildcards in input match literally",
			filter: types.Filter{CardID: "%_"},
			want:   []string{"50%_0004"},
		},
		{
			name:   "no match returns empty",
			filter: types.Filter{Machine: "nope"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.QueryCards(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestDeleteCard(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	id, err := b.CreateCard(ctx, &types.Card{Set: types.SetMittelsatz})
	require.NoError(t, err)
	require.NoError(t, b.SaveLineItems(ctx, id, []types.Line{{Code: "A1", Diameter: 0.462}, {Code: "A2", Diameter: 0.42}}))

	other, err := b.CreateCard(ctx, &types.Card{Set: types.SetMittelsatz})
	require.NoError(t, err)
	require.NoError(t, b.SaveLineItems(ctx, other, []types.Line{{Code: "B1", Diameter: 0.462}}))

	require.NoError(t, b.DeleteCard(ctx, id))

	items, err := b.QueryLineItems(ctx, types.Filter{CardID: id})
	require.NoError(t, err)
	assert.Empty(t, items)
	cards, err := b.QueryCards(ctx, types.Filter{CardID: id})
	require.NoError(t, err)
	assert.Empty(t, cards)
	raw, err := b.CardLineItems(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, raw, "no orphaned details rows")

	remaining, err := b.CardLineItems(ctx, other)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	assert.NoError(t, b.DeleteCard(ctx, id), "deleting again is not an error")
	assert.ErrorIs(t, b.DeleteCard(ctx, ""), types.ErrInvalidID)
}
