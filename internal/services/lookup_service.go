package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/bizops-api/internal/cache"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
)

var ErrLookupNotFound = errors.New("record not found")

// Lookup is one of the reference tables an offer points at.
type Lookup interface {
	models.CorporateEntity | models.PaymentTerm | models.DeliveryCondition | models.OfferLinkPreset
}

// LookupService offers cached CRUD for a reference table. Writes take the
// values a form has already validated and whitelisted.
type LookupService[T Lookup] struct {
	repo     repository.LookupRepository[T]
	cache    cache.Cache
	cacheKey string
	ttl      time.Duration
	name     string
}

func NewLookupService[T Lookup](repo repository.LookupRepository[T], c cache.Cache, name string, ttl time.Duration) *LookupService[T] {
	return &LookupService[T]{repo: repo, cache: c, cacheKey: "lookup:" + name, ttl: ttl, name: name}
}

func (s *LookupService[T]) List(ctx context.Context) ([]T, error) {
	return cache.GetOrLoad(ctx, s.cache, s.cacheKey, s.ttl, func(context.Context) ([]T, error) {
		items, err := s.repo.List()
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", s.name, err)
		}
		return items, nil
	})
}

func (s *LookupService[T]) Get(id uint64) (*T, error) {
	item, err := s.repo.FindByID(id)
	if err != nil {
		return nil, findError(err, ErrLookupNotFound, s.name)
	}
	return item, nil
}

// Create stores a new row built from validated form values.
func (s *LookupService[T]) Create(ctx context.Context, values map[string]any) (*T, error) {
	var item T
	if err := assign(&item, values); err != nil {
		return nil, err
	}
	if err := s.repo.Create(&item); err != nil {
		return nil, writeError(err, s.name)
	}
	cache.Invalidate(ctx, s.cache, s.cacheKey)
	return &item, nil
}

// Update overwrites only the fields present in values.
func (s *LookupService[T]) Update(ctx context.Context, id uint64, values map[string]any) (*T, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := assign(item, values); err != nil {
		return nil, err
	}
	if err := s.repo.Update(item); err != nil {
		return nil, writeError(err, s.name)
	}
	cache.Invalidate(ctx, s.cache, s.cacheKey)
	return item, nil
}

func (s *LookupService[T]) Delete(ctx context.Context, id uint64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return deleteError(err, s.name)
	}
	cache.Invalidate(ctx, s.cache, s.cacheKey)
	return nil
}

// assign copies values onto dst through their JSON names.
func assign(dst any, values map[string]any) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode values: %w", err)
	}
	return nil
}

// SetField updates a single column, such as the logo key after an upload.
func (s *LookupService[T]) SetField(ctx context.Context, id uint64, field string, value any) (*T, error) {
	return s.Update(ctx, id, map[string]any{field: value})
}
