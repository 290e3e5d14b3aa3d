package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/bizops-api/internal/constants"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
	"github.com/yukikurage/bizops-api/internal/testutil"
	"gorm.io/gorm"
)

type stubDrafter struct {
	brief OfferBrief
	text  string
	err   error
}

func (d *stubDrafter) DraftIntroduction(_ context.Context, brief OfferBrief) (string, error) {
	d.brief = brief
	return d.text, d.err
}

type offerTestEnv struct {
	db      *gorm.DB
	service *OfferService
	org     *models.Organization
	drafter *stubDrafter
}

func setupOfferTestEnv(t *testing.T) offerTestEnv {
	t.Helper()

	db := testutil.OpenDB(t)
	drafter := &stubDrafter{text: "Dear Acme team"}
	svc := NewOfferService(
		repository.NewOfferRepository(db),
		repository.NewServiceRepository(db),
		repository.NewLookupRepository[models.OfferLinkPreset](db),
		drafter,
	)

	org := &models.Organization{Name: "Acme GmbH"}
	require.NoError(t, db.Create(org).Error)

	return offerTestEnv{db: db, service: svc, org: org, drafter: drafter}
}

func createCatalogService(t *testing.T, db *gorm.DB, name, price string) *models.Service {
	t.Helper()
	svc := &models.Service{Name: name, Price: decimal.RequireFromString(price), GroupType: models.ServiceGroupDevelopment, IsActive: true}
	require.NoError(t, db.Create(svc).Error)
	return svc
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func TestOfferService_CreatePricesLines(t *testing.T) {
	env := setupOfferTestEnv(t)
	hosting := createCatalogService(t, env.db, "Hosting", "100")

	offer, err := env.service.Create(7, OfferInput{
		Title:                    strPtr("Website relaunch"),
		OrganizationID:           &env.org.ID,
		GlobalDiscountPercentage: dec("10"),
		TaxPercentage:            dec("20"),
		Lines: []OfferLineInput{
			{ServiceID: &hosting.ID, Quantity: 2, Price: dec("1")},
			{IsCustom: true, CustomTitle: "Workshop", Price: dec("50.50"), Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.Equal(t, models.OfferStatusDraft, offer.Status)
	require.Equal(t, constants.DefaultCurrency, offer.Currency)
	require.Equal(t, models.DiscountModeGlobal, offer.DiscountMode)
	require.NotEmpty(t, offer.Number)
	require.NotEmpty(t, offer.PublicToken)
	require.NotNil(t, offer.ValidUntil)
	require.NotNil(t, offer.CreatedByID)
	require.EqualValues(t, 7, *offer.CreatedByID)

	require.Len(t, offer.Lines, 2)
	require.True(t, offer.Lines[0].Price.Equal(decimal.NewFromInt(100)), "catalog price wins over the submitted one")
	require.Equal(t, "Hosting", offer.Lines[0].Title())
	require.Equal(t, "Workshop", offer.Lines[1].Title())

	// (200 + 50.50) * 0.9 * 1.2 = 270.54
	require.True(t, offer.TotalAmount.Equal(decimal.NewFromInt(271)), "got %s", offer.TotalAmount)

	totals, err := Totals(offer)
	require.NoError(t, err)
	require.True(t, totals.GrandTotal.Equal(offer.TotalAmount))
}

func TestOfferService_CustomPriceServices(t *testing.T) {
	env := setupOfferTestEnv(t)
	custom := createCatalogService(t, env.db, constants.ServiceCustomDevelopment, "0")

	totals, err := env.service.Calculate(CalculateInput{
		Lines: []OfferLineInput{{ServiceID: &custom.ID, Quantity: 3, Price: dec("400")}},
	})
	require.NoError(t, err)
	require.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(1200)))
}

func TestOfferService_CreateRejectsInvalidInput(t *testing.T) {
	env := setupOfferTestEnv(t)
	hosting := createCatalogService(t, env.db, "Hosting", "100")
	missing := uint64(999)
	badMode := models.DiscountMode("sometimes")

	tests := []struct {
		name  string
		input OfferInput
		want  error
	}{
		{"missing title", OfferInput{OrganizationID: &env.org.ID}, ErrInvalidOfferTitle},
		{"blank title", OfferInput{Title: strPtr("  "), OrganizationID: &env.org.ID}, ErrInvalidOfferTitle},
		{"missing organization", OfferInput{Title: strPtr("x")}, ErrOfferOrgIDRequired},
		{"unknown organization", OfferInput{Title: strPtr("x"), OrganizationID: &missing}, ErrInvalidReference},
		{"bad discount mode", OfferInput{Title: strPtr("x"), OrganizationID: &env.org.ID, DiscountMode: &badMode}, ErrInvalidDiscountMode},
		{"bad currency", OfferInput{Title: strPtr("x"), OrganizationID: &env.org.ID, Currency: strPtr("EURO")}, ErrInvalidCurrency},
		{"bad date", OfferInput{Title: strPtr("x"), OrganizationID: &env.org.ID, ValidUntil: strPtr("next week")}, ErrInvalidDate},
		{"custom line without title", OfferInput{Title: strPtr("x"), OrganizationID: &env.org.ID,
			Lines: []OfferLineInput{{IsCustom: true, Price: dec("1")}}}, ErrCustomLineTitle},
		{"custom line without price", OfferInput{Title: strPtr("x"), OrganizationID: &env.org.ID,
			Lines: []OfferLineInput{{IsCustom: true, CustomTitle: "Extra"}}}, ErrCustomLinePrice},
		{"line without service", OfferInput{Title: strPtr("x"), OrganizationID: &env.org.ID,
			Lines: []OfferLineInput{{Quantity: 1}}}, ErrLineServiceRequired},
		{"unknown service", OfferInput{Title: strPtr("x"), OrganizationID: &env.org.ID,
			Lines: []OfferLineInput{{ServiceID: &missing}}}, ErrServiceNotFound},
		{"unknown link preset", OfferInput{Title: strPtr("x"), OrganizationID: &env.org.ID,
			Lines: []OfferLineInput{{ServiceID: &hosting.ID}}, LinkPresetIDs: []uint64{missing}}, ErrLinkPresetNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Create(1, tt.input)
			require.ErrorIs(t, err, tt.want)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Offer{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestOfferService_UpdateReplacesLinesAndLinks(t *testing.T) {
	env := setupOfferTestEnv(t)
	hosting := createCatalogService(t, env.db, "Hosting", "100")
	support := createCatalogService(t, env.db, "Support", "40")

	docs := &models.OfferLinkPreset{Name: "Docs", URL: "https://docs.example.com"}
	faq := &models.OfferLinkPreset{Name: "FAQ", URL: "https://faq.example.com"}
	require.NoError(t, env.db.Create(docs).Error)
	require.NoError(t, env.db.Create(faq).Error)

	offer, err := env.service.Create(1, OfferInput{
		Title:          strPtr("Hosting"),
		OrganizationID: &env.org.ID,
		Lines:          []OfferLineInput{{ServiceID: &hosting.ID, Quantity: 1}},
		LinkPresetIDs:  []uint64{docs.ID},
	})
	require.NoError(t, err)

	// header-only update keeps lines and links
	updated, err := env.service.Update(offer.ID, OfferInput{Introduction: strPtr("Hello")})
	require.NoError(t, err)
	require.Equal(t, "Hello", updated.Introduction)
	require.Len(t, updated.Lines, 1)
	require.Len(t, updated.SelectedLinks, 1)

	perLine := models.DiscountModePerLine
	updated, err = env.service.Update(offer.ID, OfferInput{
		DiscountMode: &perLine,
		Lines: []OfferLineInput{
			{ServiceID: &support.ID, Quantity: 5, DiscountPercentage: decimal.NewNullDecimal(decimal.NewFromInt(50))},
			{ServiceID: &hosting.ID, Quantity: 1},
		},
		LinkPresetIDs: []uint64{faq.ID},
	})
	require.NoError(t, err)
	require.Len(t, updated.Lines, 2)
	require.Equal(t, "Support", updated.Lines[0].Title())
	require.Len(t, updated.SelectedLinks, 1)
	require.Equal(t, faq.ID, updated.SelectedLinks[0].LinkPresetID)
	// 5 * 40 * 0.5 + 100
	require.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(200)), "got %s", updated.TotalAmount)

	var lineCount int64
	require.NoError(t, env.db.Model(&models.OfferService{}).Where("offer_id = ?", offer.ID).Count(&lineCount).Error)
	require.EqualValues(t, 2, lineCount)
}

func TestOfferService_UpdateToAcceptedStampsAcceptance(t *testing.T) {
	env := setupOfferTestEnv(t)

	offer, err := env.service.Create(1, OfferInput{Title: strPtr("Retainer"), OrganizationID: &env.org.ID})
	require.NoError(t, err)
	require.Nil(t, offer.AcceptedAt)

	accepted := models.OfferStatusAccepted
	updated, err := env.service.Update(offer.ID, OfferInput{Status: &accepted})
	require.NoError(t, err)
	require.NotNil(t, updated.AcceptedAt)

	_, err = env.service.Update(offer.ID, OfferInput{Title: strPtr("")})
	require.ErrorIs(t, err, ErrInvalidOfferTitle)

	_, err = env.service.Update(12345, OfferInput{})
	require.ErrorIs(t, err, ErrOfferNotFound)
}

func TestOfferService_Duplicate(t *testing.T) {
	env := setupOfferTestEnv(t)
	hosting := createCatalogService(t, env.db, "Hosting", "100")

	sent := models.OfferStatusSent
	src, err := env.service.Create(1, OfferInput{
		Title:          strPtr("Hosting"),
		OrganizationID: &env.org.ID,
		Status:         &sent,
		Lines:          []OfferLineInput{{ServiceID: &hosting.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	dup, err := env.service.Duplicate(src.ID, 2)
	require.NoError(t, err)

	require.NotEqual(t, src.ID, dup.ID)
	require.Equal(t, "Copy of Hosting", dup.Title)
	require.Equal(t, models.OfferStatusDraft, dup.Status)
	require.NotEqual(t, src.Number, dup.Number)
	require.NotEqual(t, src.PublicToken, dup.PublicToken)
	require.Len(t, dup.Lines, 1)
	require.True(t, dup.TotalAmount.Equal(src.TotalAmount))

	// the source keeps its own lines
	again, err := env.service.Get(src.ID)
	require.NoError(t, err)
	require.Len(t, again.Lines, 1)
}

func TestOfferService_DeleteCascadesLines(t *testing.T) {
	env := setupOfferTestEnv(t)
	hosting := createCatalogService(t, env.db, "Hosting", "100")

	offer, err := env.service.Create(1, OfferInput{
		Title:          strPtr("Hosting"),
		OrganizationID: &env.org.ID,
		Lines:          []OfferLineInput{{ServiceID: &hosting.ID}},
	})
	require.NoError(t, err)

	require.NoError(t, env.service.Delete(offer.ID))
	require.ErrorIs(t, env.service.Delete(offer.ID), ErrOfferNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.OfferService{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestOfferService_DraftIntroduction(t *testing.T) {
	env := setupOfferTestEnv(t)
	hosting := createCatalogService(t, env.db, "Hosting", "100")

	offer, err := env.service.Create(1, OfferInput{
		Title:          strPtr("Hosting"),
		OrganizationID: &env.org.ID,
		Lines:          []OfferLineInput{{ServiceID: &hosting.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	text, err := env.service.DraftIntroduction(context.Background(), offer.ID)
	require.NoError(t, err)
	require.Equal(t, "Dear Acme team", text)
	require.Equal(t, "Acme GmbH", env.drafter.brief.Organization)
	require.Equal(t, []string{"Hosting x3"}, env.drafter.brief.Lines)

	env.drafter.err = errors.New("quota exceeded")
	_, err = env.service.DraftIntroduction(context.Background(), offer.ID)
	require.Error(t, err)

	env.service.drafter = nil
	_, err = env.service.DraftIntroduction(context.Background(), offer.ID)
	require.ErrorIs(t, err, ErrAIUnavailable)
}
