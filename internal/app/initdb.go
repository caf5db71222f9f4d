package app

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/brickstore/brickstore/internal/collection"
	"github.com/brickstore/brickstore/internal/domain"
)

const seedWorkers = 4

func boolPtr(b bool) *bool { return &b }

// DemoSets returns the sets inserted by SeedDemoSets.
func DemoSets() []collection.Draft {
	return []collection.Draft{
		{
			SetNumber: "10280", Name: "Flower Bouquet", PieceCount: 756, AgeGroup: "18+",
			Price: 49.99, HasBuilt: boolPtr(true), Type: domain.SetTypePlants,
			Details: map[string]interface{}{"plantType": "rose", "height": 30, "vaseIncluded": true},
		},
		{
			SetNumber: "10290", Name: "Pickup Truck", PieceCount: 1677, AgeGroup: "18+",
			Price: 119.99, HasBuilt: boolPtr(false), Type: domain.SetTypeVehicles,
			Details: map[string]interface{}{"vehicleType": "car", "brand": "Ford", "model": "F-150"},
		},
		{
			SetNumber: "10278", Name: "Police Station", PieceCount: 743, AgeGroup: "18+",
			Price: 199.99, HasBuilt: boolPtr(true), Type: domain.SetTypeBuildings,
			Details: map[string]interface{}{"buildingType": "residential", "floors": 3, "furnished": true},
		},
		{
			SetNumber: "10311", Name: "Orchid", PieceCount: 608, AgeGroup: "18+",
			Price: 49.99, HasBuilt: boolPtr(false), Type: domain.SetTypePlants,
			Details: map[string]interface{}{"plantType": "orchid", "height": 39, "vaseIncluded": true},
		},
	}
}

// SeedDemoSets adds the demo sets through the cache. Unless force is set it
// does nothing when the collection already holds sets. It returns the number
// of sets added.
func (a *Application) SeedDemoSets(ctx context.Context, force bool) (int, error) {
	if !force {
		existing, err := a.cache.List(ctx)
		if err != nil {
			return 0, err
		}
		if len(existing) > 0 {
			return 0, nil
		}
	}

	pool, err := ants.NewPool(seedWorkers)
	if err != nil {
		return 0, err
	}
	defer pool.Release()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
		errs  error
	)
	for _, d := range DemoSets() {
		d := d
		wg.Add(1)
		task := func() {
			defer wg.Done()
			set, err := a.cache.Add(ctx, d)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, err)
				return
			}
			added++
			zap.L().Info("seeded demo set", zap.String("id", set.ID), zap.String("name", set.Name))
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			errs = multierr.Append(errs, err)
			mu.Unlock()
		}
	}
	wg.Wait()
	return added, errs
}

// checkLegoSets seeds the demo sets into an empty collection when the demo
// flag is set.
func (a *Application) checkLegoSets(ctx context.Context) {
	if !a.appConfig.System.Demo {
		return
	}
	n, err := a.SeedDemoSets(ctx, false)
	if err != nil {
		zap.L().Error("failed to seed demo sets", zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("initialized demo collection", zap.Int("sets", n))
	}
}
