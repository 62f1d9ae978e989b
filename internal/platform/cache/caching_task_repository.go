// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"dispatch_backend/internal/feature/tasks/domain/entity"
	"dispatch_backend/internal/feature/tasks/usecase"
)

// cachedList is the cached payload for a single list query.
type cachedList struct {
	Tasks []entity.Task `json:"tasks"`
	Total int64         `json:"total"`
}

// CachingTaskRepository decorates a TaskRepository with Redis caching of list
// queries. It implements the decorator pattern, transparently adding caching
// without modifying the underlying repository. Any mutation for a user
// invalidates all of that user's cached pages.
type CachingTaskRepository struct {
	inner     usecase.TaskRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingTaskRepositoryがTaskRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.TaskRepository = (*CachingTaskRepository)(nil)

// NewCachingTaskRepository decorates a TaskRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "tasks".
func NewCachingTaskRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TaskRepository, namespace string) *CachingTaskRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "tasks"
	}
	return &CachingTaskRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create inserts a task and invalidates the owner's cached list pages.
func (c *CachingTaskRepository) Create(ctx context.Context, t *entity.Task) error {
	if err := c.inner.Create(ctx, t); err != nil {
		return err
	}
	c.invalidateUser(ctx, t.UserID)
	return nil
}

// List retrieves tasks, checking cache first then falling back to the database.
func (c *CachingTaskRepository) List(ctx context.Context, userID uint, q usecase.ListQuery) ([]entity.Task, int64, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.List(ctx, userID, q)
	}

	key := c.cacheKey(userID, q)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out cachedList
		if err := json.Unmarshal(b, &out); err == nil {
			return out.Tasks, out.Total, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	tasks, total, err := c.inner.List(ctx, userID, q)
	if err != nil {
		return nil, 0, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(cachedList{Tasks: tasks, Total: total}); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return tasks, total, nil
}

// FindByID delegates to the underlying repository. Single-row primary key
// lookups are not cached.
func (c *CachingTaskRepository) FindByID(ctx context.Context, userID, id uint) (*entity.Task, error) {
	return c.inner.FindByID(ctx, userID, id)
}

// Update saves a task and invalidates the owner's cached list pages.
func (c *CachingTaskRepository) Update(ctx context.Context, t *entity.Task) error {
	if err := c.inner.Update(ctx, t); err != nil {
		return err
	}
	c.invalidateUser(ctx, t.UserID)
	return nil
}

// Delete removes a task and invalidates the owner's cached list pages.
func (c *CachingTaskRepository) Delete(ctx context.Context, userID, id uint) error {
	if err := c.inner.Delete(ctx, userID, id); err != nil {
		return err
	}
	c.invalidateUser(ctx, userID)
	return nil
}

// invalidateUser removes all cached list pages for a user (best effort).
func (c *CachingTaskRepository) invalidateUser(ctx context.Context, userID uint) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.userKeyPrefix(userID)+"*")
}

// cacheKey generates a cache key for a specific list query.
func (c *CachingTaskRepository) cacheKey(userID uint, q usecase.ListQuery) string {
	return fmt.Sprintf("%s%s_%s_%d_%d_%s_%s",
		c.userKeyPrefix(userID),
		safe(q.Search),
		safe(q.Status),
		q.Page,
		q.Limit,
		safe(q.SortBy),
		safe(q.SortOrder),
	)
}

// userKeyPrefix generates the key prefix holding all of a user's list pages.
func (c *CachingTaskRepository) userKeyPrefix(userID uint) string {
	return fmt.Sprintf("%s:%d:", c.namespace, userID)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingTaskRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	// Simple escaping of characters that are problematic for Redis keys
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
