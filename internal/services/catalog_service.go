package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/bizops-api/internal/cache"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
)

const catalogCacheKey = "catalog:services"

var (
	ErrServiceNotFound          = errors.New("service not found")
	ErrInvalidServiceName       = errors.New("service name cannot be empty")
	ErrInvalidServicePrice      = errors.New("service price must be zero or positive")
	ErrInvalidServiceGroup      = errors.New("invalid service group type")
	ErrInvalidRecurringInterval = errors.New("recurring services need a monthly or yearly interval")
)

// CatalogService manages the service catalog offers are composed from.
type CatalogService struct {
	serviceRepo repository.ServiceRepository
	cache       cache.Cache
	ttl         time.Duration
}

func NewCatalogService(serviceRepo repository.ServiceRepository, c cache.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{serviceRepo: serviceRepo, cache: c, ttl: ttl}
}

type ServiceInput struct {
	Name              *string                   `json:"name"`
	Description       *string                   `json:"description"`
	Price             *decimal.Decimal          `json:"price"`
	IsRecurring       *bool                     `json:"is_recurring"`
	RecurringInterval *models.RecurringInterval `json:"recurring_interval"`
	GroupType         *models.ServiceGroupType  `json:"group_type"`
	IsActive          *bool                     `json:"is_active"`
}

func (in ServiceInput) apply(svc *models.Service) error {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return ErrInvalidServiceName
	}
	if in.Price != nil && in.Price.IsNegative() {
		return ErrInvalidServicePrice
	}
	if in.GroupType != nil && !in.GroupType.Valid() {
		return ErrInvalidServiceGroup
	}

	setString(&svc.Name, in.Name)
	setString(&svc.Description, in.Description)
	if in.Price != nil {
		svc.Price = *in.Price
	}
	if in.IsRecurring != nil {
		svc.IsRecurring = *in.IsRecurring
	}
	if in.RecurringInterval != nil {
		svc.RecurringInterval = *in.RecurringInterval
	}
	if in.GroupType != nil {
		svc.GroupType = *in.GroupType
	}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}

	if !svc.IsRecurring {
		svc.RecurringInterval = ""
	} else if svc.RecurringInterval != models.RecurringMonthly && svc.RecurringInterval != models.RecurringYearly {
		return ErrInvalidRecurringInterval
	}
	return nil
}

// List returns the catalog, served from cache for a short time.
func (s *CatalogService) List(ctx context.Context) ([]models.Service, error) {
	return cache.GetOrLoad(ctx, s.cache, catalogCacheKey, s.ttl, func(context.Context) ([]models.Service, error) {
		services, err := s.serviceRepo.List()
		if err != nil {
			return nil, findError(err, ErrServiceNotFound, "services")
		}
		return services, nil
	})
}

func (s *CatalogService) Get(id uint64) (*models.Service, error) {
	svc, err := s.serviceRepo.FindByID(id)
	if err != nil {
		return nil, findError(err, ErrServiceNotFound, "service")
	}
	return svc, nil
}

func (s *CatalogService) Create(ctx context.Context, input ServiceInput) (*models.Service, error) {
	if input.Name == nil {
		return nil, ErrInvalidServiceName
	}
	if input.Price == nil {
		return nil, ErrInvalidServicePrice
	}

	svc := &models.Service{GroupType: models.ServiceGroupOther, IsActive: true}
	if err := input.apply(svc); err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Create(svc); err != nil {
		return nil, writeError(err, "service")
	}
	cache.Invalidate(ctx, s.cache, catalogCacheKey)
	return svc, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint64, input ServiceInput) (*models.Service, error) {
	svc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(svc); err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Update(svc); err != nil {
		return nil, writeError(err, "service")
	}
	cache.Invalidate(ctx, s.cache, catalogCacheKey)
	return svc, nil
}

// Delete removes a service no offer line refers to.
func (s *CatalogService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.serviceRepo.Delete(id); err != nil {
		return deleteError(err, "service")
	}
	cache.Invalidate(ctx, s.cache, catalogCacheKey)
	return nil
}
