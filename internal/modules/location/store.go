// README: Driver location hints backed by Redis GEO.
package location

import (
	"context"

	"github.com/redis/go-redis/v9"

	"cargolink/internal/types"
)

const geoKey = "driver:locations"

type Store struct {
	redis *redis.Client
}

func NewStore(r *redis.Client) *Store {
	return &Store{redis: r}
}

// Record upserts the driver's last reported position. Claims record here
// best effort; pricing and dispatch never read it.
func (s *Store) Record(ctx context.Context, driverID types.ID, pos types.Point) error {
	return s.redis.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      string(driverID),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

// Nearby returns up to count driver ids within radiusKm of pos, closest
// first. count <= 0 means no limit.
func (s *Store) Nearby(ctx context.Context, pos types.Point, radiusKm float64, count int) ([]types.ID, error) {
	results, err := s.redis.GeoSearch(ctx, geoKey, &redis.GeoSearchQuery{
		Longitude:  pos.Lng,
		Latitude:   pos.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
		Count:      count,
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(results))
	for i, r := range results {
		ids[i] = types.ID(r)
	}
	return ids, nil
}
