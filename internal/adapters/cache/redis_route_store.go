package cache

import (
	"context"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "route_plan:"

// RedisRouteStore keeps whole plans as JSON values that expire after TTL.
// A zero TTL keeps plans forever.
type RedisRouteStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteStore(client *redis.Client, ttl time.Duration) *RedisRouteStore {
	return &RedisRouteStore{Client: client, TTL: ttl}
}

func (s *RedisRouteStore) SaveRoutePlan(ctx context.Context, plan *domain.RoutePlan) (err error) {
	defer obs.Time(ctx, "route.store.redis.Save")(&err)

	if s.Client == nil {
		return errors.New("save route plan: redis client is nil")
	}
	if plan == nil || plan.ID == "" {
		return errors.New("save route plan: plan id must not be empty")
	}

	doc, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("save route plan %s: marshal: %w", plan.ID, err)
	}

	ok, err := s.Client.SetNX(ctx, redisKeyPrefix+plan.ID, doc, s.TTL).Result()
	if err != nil {
		return fmt.Errorf("save route plan %s: redis set: %w", plan.ID, err)
	}
	if !ok {
		return fmt.Errorf("save route plan %s: id already exists", plan.ID)
	}
	return nil
}

func (s *RedisRouteStore) GetRoutePlan(ctx context.Context, id string) (_ *domain.RoutePlan, err error) {
	defer obs.Time(ctx, "route.store.redis.Get")(&err)

	if s.Client == nil {
		return nil, errors.New("get route plan: redis client is nil")
	}

	doc, err := s.Client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get route plan %s: %w", id, ports.ErrPlanNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route plan %s: redis get: %w", id, err)
	}

	var plan domain.RoutePlan
	if err := json.Unmarshal(doc, &plan); err != nil {
		return nil, fmt.Errorf("get route plan %s: unmarshal: %w", id, err)
	}
	return &plan, nil
}
