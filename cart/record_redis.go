package cart

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RecordKey is the fixed name of the persisted cart record, shared by all
// keyed record stores.
const RecordKey = "cart"

// RedisRecordStore keeps the cart record under a single Redis key, for
// storefront deployments that want the cart to survive the local host.
type RedisRecordStore struct {
	client *redis.Client
	key    string
}

// NewRedisRecordStore creates a record store over client using the fixed
// record key.
func NewRedisRecordStore(client *redis.Client) *RedisRecordStore {
	return &RedisRecordStore{client: client, key: RecordKey}
}

func (r *RedisRecordStore) Read(ctx context.Context) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *RedisRecordStore) Write(ctx context.Context, value []byte) error {
	return r.client.Set(ctx, r.key, value, 0).Err()
}

func (r *RedisRecordStore) Delete(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
