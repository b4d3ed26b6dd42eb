package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	keyServices      = "clinic:catalog:services"
	keyProfessionals = "clinic:catalog:professionals"
)

// CatalogRepository serves the read-only catalog (services, staff) from
// Redis and delegates everything else. Redis failures fall through to
// the wrapped repository.
type CatalogRepository struct {
	domain.Repository
	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

func NewCatalogRepository(next domain.Repository, rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *CatalogRepository {
	return &CatalogRepository{Repository: next, rdb: rdb, ttl: ttl, log: log}
}

func (r *CatalogRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	return cached(ctx, r, keyServices, r.Repository.ListServices)
}

func (r *CatalogRepository) GetService(ctx context.Context, id uint) (*models.Service, error) {
	services, err := r.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	for i := range services {
		if services[i].ID == id {
			return &services[i], nil
		}
	}
	// Not in the cached list; it may be newer than the cache.
	return r.Repository.GetService(ctx, id)
}

func (r *CatalogRepository) ListProfessionals(ctx context.Context) ([]models.Professional, error) {
	return cached(ctx, r, keyProfessionals, r.Repository.ListProfessionals)
}

func cached[T any](
	ctx context.Context,
	r *CatalogRepository,
	key string,
	load func(context.Context) ([]T, error),
) ([]T, error) {

	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []T
		if jerr := json.Unmarshal(raw, &items); jerr == nil {
			return items, nil
		}
		r.log.Warnf("discarding corrupt cache entry %s", key)
	case !errors.Is(err, redis.Nil):
		r.log.Warnf("redis get %s: %v", key, err)
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if b, jerr := json.Marshal(items); jerr == nil {
		if serr := r.rdb.Set(ctx, key, b, r.ttl).Err(); serr != nil {
			r.log.Warnf("redis set %s: %v", key, serr)
		}
	}

	return items, nil
}

// Invalidate drops the cached catalog.
func (r *CatalogRepository) Invalidate(ctx context.Context) error {
	if err := r.rdb.Del(ctx, keyServices, keyProfessionals).Err(); err != nil {
		return fmt.Errorf("invalidate catalog: %w", err)
	}
	return nil
}
