package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/bizops-api/internal/constants"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/storage"
)

var (
	ErrStorageUnavailable = errors.New("object storage is not configured")
	ErrLogoTooLarge       = errors.New("logo exceeds the maximum upload size")
	ErrNoLogo             = errors.New("corporate entity has no logo")
)

// LogoService stores corporate entity logos in object storage.
type LogoService struct {
	store    storage.ObjectStore
	entities *LookupService[models.CorporateEntity]
}

func NewLogoService(store storage.ObjectStore, entities *LookupService[models.CorporateEntity]) *LogoService {
	return &LogoService{store: store, entities: entities}
}

// Upload replaces the logo of a corporate entity. The previous object is
// removed once the new key is saved.
func (s *LogoService) Upload(ctx context.Context, entityID uint64, filename string, r io.Reader, size int64) (*models.CorporateEntity, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	if size > constants.MaxLogoSizeBytes {
		return nil, ErrLogoTooLarge
	}

	entity, err := s.entities.Get(entityID)
	if err != nil {
		return nil, err
	}
	previous := entity.LogoKey

	key, contentType, err := storage.LogoKey(entityID, filename)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload logo: %w", err)
	}

	updated, err := s.entities.SetField(ctx, entityID, "logo_key", key)
	if err != nil {
		if rmErr := s.store.Remove(ctx, key); rmErr != nil {
			logrus.WithError(rmErr).WithField("key", key).Warn("failed to remove orphaned logo")
		}
		return nil, err
	}

	if previous != "" {
		if err := s.store.Remove(ctx, previous); err != nil {
			logrus.WithError(err).WithField("key", previous).Warn("failed to remove previous logo")
		}
	}
	return updated, nil
}

// URL returns a temporary download link for the entity's logo.
func (s *LogoService) URL(ctx context.Context, entityID uint64) (string, error) {
	if s.store == nil {
		return "", ErrStorageUnavailable
	}
	entity, err := s.entities.Get(entityID)
	if err != nil {
		return "", err
	}
	if entity.LogoKey == "" {
		return "", ErrNoLogo
	}
	url, err := s.store.URL(ctx, entity.LogoKey, logoURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign logo url: %w", err)
	}
	return url, nil
}
