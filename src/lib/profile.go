package lib

import (
	"context"
	"encoding/json"
	"fmt"

	"travl/src/types"

	"github.com/redis/go-redis/v9"
)

// RedisProfileStore appends booking snapshots to a traveler's profile list.
type RedisProfileStore struct {
	rdb *redis.Client
}

func NewRedisProfileStore(rdb *redis.Client) *RedisProfileStore {
	return &RedisProfileStore{rdb: rdb}
}

func profileBookingsKey(userID string) string {
	return fmt.Sprintf("%s:bookings", userID)
}

func (s *RedisProfileStore) AppendBooking(ctx context.Context, userID string, b types.ProfileBooking) error {
	v, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return s.rdb.RPush(ctx, profileBookingsKey(userID), v).Err()
}

func (s *RedisProfileStore) ListBookings(ctx context.Context, userID string) ([]types.ProfileBooking, error) {
	items, err := s.rdb.LRange(ctx, profileBookingsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]types.ProfileBooking, 0, len(items))
	for _, item := range items {
		var b types.ProfileBooking
		if err := json.Unmarshal([]byte(item), &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
