package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	roleKeyPrefix = "plantnet:role:"
)

type roleCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRoleCache(client redis.Cmdable, ttl time.Duration) repository.RoleCache {
	return &roleCache{
		client: client,
		ttl:    ttl,
	}
}

func roleKey(email string) string {
	return roleKeyPrefix + email
}

func (c *roleCache) Get(ctx context.Context, email string) (entity.Role, error) {
	val, err := c.client.Get(ctx, roleKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get role for %s from redis: %w", email, err)
	}
	return entity.Role(val), nil
}

func (c *roleCache) Set(ctx context.Context, email string, role entity.Role) error {
	if err := c.client.Set(ctx, roleKey(email), string(role), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache role for %s: %w", email, err)
	}
	return nil
}

func (c *roleCache) Delete(ctx context.Context, email string) error {
	if err := c.client.Del(ctx, roleKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to evict role for %s: %w", email, err)
	}
	return nil
}
