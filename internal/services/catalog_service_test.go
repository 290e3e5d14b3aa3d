package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/bizops-api/internal/cache"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
	"github.com/yukikurage/bizops-api/internal/testutil"
)

func TestCatalogService_ListIsCachedUntilWrite(t *testing.T) {
	db := testutil.OpenDB(t)
	catalog := NewCatalogService(repository.NewServiceRepository(db), cache.NewMemoryCache(), time.Minute)
	ctx := context.Background()

	createCatalogService(t, db, "Hosting", "100")

	list, err := catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// written behind the service's back, so the cached list is still served
	createCatalogService(t, db, "Support", "40")
	list, err = catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	inactive := false
	svc, err := catalog.Create(ctx, ServiceInput{Name: strPtr("Archive"), Price: dec("10"), IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, svc.IsActive)

	stored, err := catalog.Get(svc.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive)
	require.Equal(t, models.ServiceGroupOther, stored.GroupType)

	list, err = catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
}

func TestCatalogService_Validation(t *testing.T) {
	db := testutil.OpenDB(t)
	catalog := NewCatalogService(repository.NewServiceRepository(db), nil, 0)
	ctx := context.Background()

	recurring := true
	yearly := models.RecurringYearly
	badGroup := models.ServiceGroupType("food")

	_, err := catalog.Create(ctx, ServiceInput{Price: dec("1")})
	require.ErrorIs(t, err, ErrInvalidServiceName)

	_, err = catalog.Create(ctx, ServiceInput{Name: strPtr("Hosting"), Price: dec("-1")})
	require.ErrorIs(t, err, ErrInvalidServicePrice)

	_, err = catalog.Create(ctx, ServiceInput{Name: strPtr("Hosting"), Price: dec("1"), GroupType: &badGroup})
	require.ErrorIs(t, err, ErrInvalidServiceGroup)

	_, err = catalog.Create(ctx, ServiceInput{Name: strPtr("Hosting"), Price: dec("1"), IsRecurring: &recurring})
	require.ErrorIs(t, err, ErrInvalidRecurringInterval)

	svc, err := catalog.Create(ctx, ServiceInput{Name: strPtr("Hosting"), Price: dec("1"), IsRecurring: &recurring, RecurringInterval: &yearly})
	require.NoError(t, err)
	require.Equal(t, models.RecurringYearly, svc.RecurringInterval)
}

func TestCatalogService_DeleteReferencedService(t *testing.T) {
	env := setupOfferTestEnv(t)
	catalog := NewCatalogService(repository.NewServiceRepository(env.db), nil, 0)
	hosting := createCatalogService(t, env.db, "Hosting", "100")
	spare := createCatalogService(t, env.db, "Spare", "1")

	_, err := env.service.Create(1, OfferInput{
		Title:          strPtr("Hosting"),
		OrganizationID: &env.org.ID,
		Lines:          []OfferLineInput{{ServiceID: &hosting.ID}},
	})
	require.NoError(t, err)

	require.ErrorIs(t, catalog.Delete(context.Background(), hosting.ID), ErrHasRelatedRecords)
	require.NoError(t, catalog.Delete(context.Background(), spare.ID))
}
