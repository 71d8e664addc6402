package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

const (
	shirtKeyPrefix    = "shirt:"
	shirtIndexKey     = "shirts"
	idempotencyKeyTTL = 24 * time.Hour
)

// Status codes in the first slot of the adjust script reply. Stock may be
// negative, so it never shares a slot with a status.
const (
	adjustApplied      = 0
	adjustNotFound     = 1
	adjustInsufficient = 2
)

// adjustStockScript refuses a decrement that would take stock below zero.
// Replies {status, stock}.
var adjustStockScript = redis.NewScript(`
local key = KEYS[1]
local delta = tonumber(ARGV[1])

if redis.call('EXISTS', key) == 0 then
	return {1, 0}
end

local current = tonumber(redis.call('HGET', key, 'stock'))
if delta < 0 and current + delta < 0 then
	return {2, current}
end

local stock = redis.call('HINCRBY', key, 'stock', delta)
redis.call('HSET', key, 'updated_at', ARGV[2])
return {0, stock}
`)

var replaceScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

var removeScript = redis.NewScript(`
if redis.call('DEL', KEYS[1]) == 0 then
	return 0
end
redis.call('SREM', KEYS[2], ARGV[1])
return 1
`)

// RedisAdapter stores each shirt as a hash plus an index set of ids, and
// doubles as the idempotency store.
type RedisAdapter struct {
	client      *redis.Client
	idempotency time.Duration
	now         func() time.Time
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client, idempotency: idempotencyKeyTTL, now: time.Now}
}

// WithIdempotencyTTL overrides how long a claimed request id is remembered.
func (r *RedisAdapter) WithIdempotencyTTL(ttl time.Duration) *RedisAdapter {
	if ttl > 0 {
		r.idempotency = ttl
	}
	return r
}

func shirtKey(id string) string {
	return shirtKeyPrefix + id
}

func (r *RedisAdapter) Get(ctx context.Context, id string) (*domain.Shirt, error) {
	fields, err := r.client.HGetAll(ctx, shirtKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	return decodeShirt(fields)
}

func (r *RedisAdapter) List(ctx context.Context, filter domain.Filter) ([]domain.Shirt, error) {
	ids, err := r.client.SMembers(ctx, shirtIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Shirt{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, shirtKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis pipeline: %w", err)
	}

	out := make([]domain.Shirt, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		shirt, err := decodeShirt(fields)
		if err != nil {
			return nil, err
		}
		if filter.Match(*shirt) {
			out = append(out, *shirt)
		}
	}
	sortShirts(out)
	return out, nil
}

func (r *RedisAdapter) Insert(ctx context.Context, shirt domain.Shirt) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, shirtKey(shirt.ID), encodeShirt(shirt)...)
		pipe.SAdd(ctx, shirtIndexKey, shirt.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis insert shirt: %w", err)
	}
	return nil
}

func (r *RedisAdapter) Replace(ctx context.Context, id string, patch domain.ShirtPatch) (*domain.Shirt, error) {
	args := encodePatch(patch)
	args = append(args, "updated_at", formatTime(r.now()))

	ok, err := replaceScript.Run(ctx, r.client, []string{shirtKey(id)}, args...).Int()
	if err != nil {
		return nil, fmt.Errorf("redis replace shirt: %w", err)
	}
	if ok == 0 {
		return nil, domain.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *RedisAdapter) AdjustStock(ctx context.Context, id string, delta int) (*domain.Shirt, error) {
	reply, err := adjustStockScript.Run(ctx, r.client, []string{shirtKey(id)}, delta, formatTime(r.now())).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis adjust stock: %w", err)
	}
	if len(reply) != 2 {
		return nil, fmt.Errorf("redis adjust stock: unexpected reply %v", reply)
	}
	switch reply[0] {
	case adjustApplied:
	case adjustNotFound:
		return nil, domain.ErrNotFound
	case adjustInsufficient:
		return nil, domain.ErrInsufficientStock
	default:
		return nil, fmt.Errorf("redis adjust stock: unknown status %d", reply[0])
	}
	return r.Get(ctx, id)
}

func (r *RedisAdapter) Remove(ctx context.Context, id string) error {
	ok, err := removeScript.Run(ctx, r.client, []string{shirtKey(id), shirtIndexKey}, id).Int()
	if err != nil {
		return fmt.Errorf("redis remove shirt: %w", err)
	}
	if ok == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RedisAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, r.idempotency).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func encodeShirt(s domain.Shirt) []interface{} {
	values := []interface{}{
		"id", s.ID,
		"color", s.Color,
		"size", s.Size,
		"price", strconv.FormatFloat(s.Price, 'f', -1, 64),
		"stock", s.Stock,
		"created_at", formatTime(s.CreatedAt),
		"updated_at", formatTime(s.UpdatedAt),
	}
	if s.Name != nil {
		values = append(values, "name", *s.Name)
	}
	return values
}

func encodePatch(p domain.ShirtPatch) []interface{} {
	var values []interface{}
	if p.Name != nil {
		values = append(values, "name", *p.Name)
	}
	if p.Color != nil {
		values = append(values, "color", *p.Color)
	}
	if p.Size != nil {
		values = append(values, "size", *p.Size)
	}
	if p.Price != nil {
		values = append(values, "price", strconv.FormatFloat(*p.Price, 'f', -1, 64))
	}
	if p.Stock != nil {
		values = append(values, "stock", *p.Stock)
	}
	return values
}

func decodeShirt(fields map[string]string) (*domain.Shirt, error) {
	s := domain.Shirt{
		ID:    fields["id"],
		Color: fields["color"],
		Size:  fields["size"],
	}
	if name, ok := fields["name"]; ok {
		s.Name = &name
	}

	var err error
	if s.Price, err = strconv.ParseFloat(fields["price"], 64); err != nil {
		return nil, fmt.Errorf("decode price of shirt %s: %w", s.ID, err)
	}
	if s.Stock, err = strconv.Atoi(fields["stock"]); err != nil {
		return nil, fmt.Errorf("decode stock of shirt %s: %w", s.ID, err)
	}
	if s.CreatedAt, err = parseTime(fields["created_at"]); err != nil {
		return nil, fmt.Errorf("decode created_at of shirt %s: %w", s.ID, err)
	}
	if s.UpdatedAt, err = parseTime(fields["updated_at"]); err != nil {
		return nil, fmt.Errorf("decode updated_at of shirt %s: %w", s.ID, err)
	}
	return &s, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	return time.Parse(time.RFC3339Nano, s)
}
