package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/brickstore/brickstore/internal/domain"
)

func flowerBouquetRow() *domain.LegoSet {
	return &domain.LegoSet{
		SetNumber:  "10280",
		Name:       "Flower Bouquet",
		PieceCount: 756,
		AgeGroup:   "18+",
		Price:      49.99,
		HasBuilt:   true,
		Type:       domain.SetTypePlants,
		Details:    datatypes.JSON(`{"plantType":"rose","height":30,"vaseIncluded":true}`),
	}
}

func vehicleRow(name string) *domain.LegoSet {
	row := flowerBouquetRow()
	row.Name = name
	row.Type = domain.SetTypeVehicles
	row.Details = datatypes.JSON(`{"vehicleType":"car","brand":"Ferrari","model":"SF-24"}`)
	return row
}

// runStoreSuite exercises the behaviour every backend must share.
func runStoreSuite(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("insert assigns id and timestamps", func(t *testing.T) {
		s := open(t)
		row := flowerBouquetRow()
		require.NoError(t, s.Insert(ctx, row))
		assert.NotEmpty(t, row.ID)
		assert.False(t, row.CreatedAt.IsZero())
		assert.True(t, row.CreatedAt.Equal(row.UpdatedAt))

		got, err := s.SelectByID(ctx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, row.Name, got.Name)
		assert.Equal(t, row.Type, got.Type)
		assert.JSONEq(t, string(row.Details), string(got.Details))
		assert.True(t, row.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("select by unknown id", func(t *testing.T) {
		s := open(t)
		_, err := s.SelectByID(ctx, "1234567890")
		assert.ErrorIs(t, err, ErrNoRows)
	})

	t.Run("select all newest first", func(t *testing.T) {
		s := open(t)
		empty, err := s.SelectAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, empty)

		var ids []string
		for _, name := range []string{"a", "b", "c"} {
			row := flowerBouquetRow()
			row.Name = name
			require.NoError(t, s.Insert(ctx, row))
			ids = append(ids, row.ID)
			time.Sleep(2 * time.Millisecond)
		}
		sets, err := s.SelectAll(ctx)
		require.NoError(t, err)
		require.Len(t, sets, 3)
		assert.Equal(t, ids[2], sets[0].ID)
		assert.Equal(t, ids[1], sets[1].ID)
		assert.Equal(t, ids[0], sets[2].ID)
	})

	t.Run("select by type", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Insert(ctx, flowerBouquetRow()))
		car := vehicleRow("Ferrari")
		require.NoError(t, s.Insert(ctx, car))

		sets, err := s.SelectByType(ctx, domain.SetTypeVehicles)
		require.NoError(t, err)
		require.Len(t, sets, 1)
		assert.Equal(t, car.ID, sets[0].ID)

		none, err := s.SelectByType(ctx, domain.SetTypeBuildings)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("update writes only given columns", func(t *testing.T) {
		s := open(t)
		row := flowerBouquetRow()
		require.NoError(t, s.Insert(ctx, row))

		updated, err := s.UpdateByID(ctx, row.ID, Columns{
			ColumnName:     "Wildflower Bouquet",
			ColumnHasBuilt: false,
		})
		require.NoError(t, err)
		assert.Equal(t, row.ID, updated.ID)
		assert.Equal(t, "Wildflower Bouquet", updated.Name)
		assert.False(t, updated.HasBuilt)
		assert.Equal(t, row.SetNumber, updated.SetNumber)
		assert.Equal(t, row.Price, updated.Price)
		assert.True(t, row.CreatedAt.Equal(updated.CreatedAt))
		assert.False(t, updated.UpdatedAt.Before(row.UpdatedAt))
	})

	t.Run("update changes type index", func(t *testing.T) {
		s := open(t)
		row := flowerBouquetRow()
		require.NoError(t, s.Insert(ctx, row))

		_, err := s.UpdateByID(ctx, row.ID, Columns{
			ColumnType:    string(domain.SetTypeBuildings),
			ColumnDetails: datatypes.JSON(`{"buildingType":"residential","floors":1,"furnished":false}`),
		})
		require.NoError(t, err)

		plants, err := s.SelectByType(ctx, domain.SetTypePlants)
		require.NoError(t, err)
		assert.Empty(t, plants)
		buildings, err := s.SelectByType(ctx, domain.SetTypeBuildings)
		require.NoError(t, err)
		require.Len(t, buildings, 1)
		assert.Equal(t, "residential (1 floors)", buildings[0].Summary())
	})

	t.Run("update unknown id", func(t *testing.T) {
		s := open(t)
		_, err := s.UpdateByID(ctx, "1234567890", Columns{ColumnName: "x"})
		assert.ErrorIs(t, err, ErrNoRows)
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		row := flowerBouquetRow()
		require.NoError(t, s.Insert(ctx, row))

		require.NoError(t, s.DeleteByID(ctx, row.ID))
		_, err := s.SelectByID(ctx, row.ID)
		assert.ErrorIs(t, err, ErrNoRows)
		sets, err := s.SelectAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, sets)

		assert.NoError(t, s.DeleteByID(ctx, row.ID))
	})
}

func TestApplyColumns(t *testing.T) {
	set := flowerBouquetRow()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := ApplyColumns(set, Columns{
		ColumnSetNumber:  "10281",
		ColumnPieceCount: 100,
		ColumnPrice:      12.5,
		ColumnType:       "vehicles",
		ColumnUpdatedAt:  now,
	})
	require.NoError(t, err)
	assert.Equal(t, "10281", set.SetNumber)
	assert.Equal(t, 100, set.PieceCount)
	assert.Equal(t, 12.5, set.Price)
	assert.Equal(t, domain.SetTypeVehicles, set.Type)
	assert.Equal(t, now, set.UpdatedAt)
}

func TestApplyColumnsRejectsBadInput(t *testing.T) {
	assert.Error(t, ApplyColumns(flowerBouquetRow(), Columns{"color": "red"}))
	assert.Error(t, ApplyColumns(flowerBouquetRow(), Columns{ColumnPieceCount: "756"}))
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestMemoryStoreOrdersSameInstant(t *testing.T) {
	s := NewMemoryStore()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	first, second := flowerBouquetRow(), flowerBouquetRow()
	require.NoError(t, s.Insert(context.Background(), first))
	require.NoError(t, s.Insert(context.Background(), second))

	sets, err := s.SelectAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, second.ID, sets[0].ID)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	row := flowerBouquetRow()
	require.NoError(t, s.Insert(context.Background(), row))

	got, err := s.SelectByID(context.Background(), row.ID)
	require.NoError(t, err)
	got.Name = "changed"
	got.Details[0] = '['

	again, err := s.SelectByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flower Bouquet", again.Name)
	assert.JSONEq(t, string(flowerBouquetRow().Details), string(again.Details))
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()
	assert.ErrorIs(t, s.Insert(ctx, flowerBouquetRow()), context.Canceled)
	_, err := s.SelectAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
