package services

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
)

type publicTestEnv struct {
	offerTestEnv
	public *PublicService
	store  *memoryStore
}

func setupPublicTestEnv(t *testing.T) publicTestEnv {
	t.Helper()

	env := setupOfferTestEnv(t)
	store := newMemoryStore()
	public := NewPublicService(
		repository.NewOfferRepository(env.db),
		repository.NewProjectRepository(env.db),
		store,
	)
	return publicTestEnv{offerTestEnv: env, public: public, store: store}
}

func (env publicTestEnv) createOffer(t *testing.T, status models.OfferStatus) *models.Offer {
	t.Helper()
	hosting := createCatalogService(t, env.db, "Hosting "+string(status), "100")
	offer, err := env.service.Create(1, OfferInput{
		Title:          strPtr("Hosting"),
		OrganizationID: &env.org.ID,
		Status:         &status,
		Lines:          []OfferLineInput{{ServiceID: &hosting.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	return offer
}

func TestPublicService_ViewOfferLogsAccess(t *testing.T) {
	env := setupPublicTestEnv(t)

	entity := &models.CorporateEntity{Name: "Bizops Ltd", LogoKey: "logos/1/logo.png"}
	require.NoError(t, env.db.Create(entity).Error)

	offer := env.createOffer(t, models.OfferStatusSent)
	require.NoError(t, env.db.Model(offer).Update("corporate_entity_id", entity.ID).Error)

	view, err := env.public.ViewOffer(context.Background(), offer.PublicToken, Visit{
		IPAddress: "203.0.113.9",
		UserAgent: strings.Repeat("x", 600),
		Referrer:  "https://mail.example.com",
	})
	require.NoError(t, err)

	require.Equal(t, offer.Number, view.Number)
	require.True(t, view.CanAccept)
	require.False(t, view.Expired)
	require.True(t, view.Totals.GrandTotal.Equal(decimal.NewFromInt(200)))
	require.Equal(t, num2words.Convert(200)+" EUR", view.AmountInWords)
	require.Len(t, view.Lines, 1)
	require.NotNil(t, view.CorporateEntity)
	require.Equal(t, "memory://logos/1/logo.png", view.CorporateEntity.LogoURL)

	logs, total, err := env.service.AccessLogs(offer.ID, paginationAll())
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "203.0.113.9", logs[0].IPAddress)
	require.Len(t, logs[0].UserAgent, 512)
}

func TestPublicService_DraftsAndUnknownTokensAreHidden(t *testing.T) {
	env := setupPublicTestEnv(t)
	draft := env.createOffer(t, models.OfferStatusDraft)

	for _, token := range []string{draft.PublicToken, "not-a-token", "6f1c1e8e-3f6a-4b53-9a4e-000000000000"} {
		_, err := env.public.ViewOffer(context.Background(), token, Visit{})
		require.ErrorIs(t, err, ErrOfferNotFound, token)

		_, err = env.public.Accept(token, AcceptInput{Name: "Jane", Email: "jane@example.com"}, "")
		require.ErrorIs(t, err, ErrOfferNotFound, token)
	}
}

func TestPublicService_Accept(t *testing.T) {
	env := setupPublicTestEnv(t)
	offer := env.createOffer(t, models.OfferStatusSent)

	acceptance, err := env.public.Accept(offer.PublicToken, AcceptInput{
		Name:    "  Jane Doe ",
		Email:   "jane@example.com",
		Comment: "Looking forward",
	}, "198.51.100.4")
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", acceptance.Name)
	require.Equal(t, offer.ID, acceptance.OfferID)

	stored, err := env.service.Get(offer.ID)
	require.NoError(t, err)
	require.Equal(t, models.OfferStatusAccepted, stored.Status)
	require.NotNil(t, stored.AcceptedAt)
	require.NotNil(t, stored.Acceptance)
	require.Equal(t, "198.51.100.4", stored.Acceptance.IPAddress)

	_, err = env.public.Accept(offer.PublicToken, AcceptInput{Name: "Jane", Email: "jane@example.com"}, "")
	require.ErrorIs(t, err, ErrOfferAlreadyDecided)

	view, err := env.public.ViewOffer(context.Background(), offer.PublicToken, Visit{})
	require.NoError(t, err)
	require.False(t, view.CanAccept)
	require.NotNil(t, view.Acceptance)
}

func TestPublicService_AcceptRejectsClosedOffers(t *testing.T) {
	env := setupPublicTestEnv(t)

	rejected := env.createOffer(t, models.OfferStatusRejected)
	expiredStatus := env.createOffer(t, models.OfferStatusExpired)

	pastDue := env.createOffer(t, models.OfferStatusSent)
	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, env.db.Model(pastDue).Update("valid_until", yesterday).Error)

	tests := []struct {
		name  string
		token string
		input AcceptInput
		want  error
	}{
		{"rejected", rejected.PublicToken, AcceptInput{Name: "Jane", Email: "jane@example.com"}, ErrOfferAlreadyDecided},
		{"expired status", expiredStatus.PublicToken, AcceptInput{Name: "Jane", Email: "jane@example.com"}, ErrOfferExpired},
		{"past valid until", pastDue.PublicToken, AcceptInput{Name: "Jane", Email: "jane@example.com"}, ErrOfferExpired},
		{"missing name", pastDue.PublicToken, AcceptInput{Email: "jane@example.com"}, ErrAcceptanceName},
		{"bad email", pastDue.PublicToken, AcceptInput{Name: "Jane", Email: "jane"}, ErrAcceptanceEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.public.Accept(tt.token, tt.input, "")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPublicService_AcceptOnLastValidDay(t *testing.T) {
	env := setupPublicTestEnv(t)

	lastDay := env.createOffer(t, models.OfferStatusSent)
	dayAfter := env.createOffer(t, models.OfferStatusSent)
	for _, offer := range []*models.Offer{lastDay, dayAfter} {
		_, err := env.service.Update(offer.ID, OfferInput{ValidUntil: strPtr("2026-10-16")})
		require.NoError(t, err)
	}

	env.public.now = func() time.Time { return time.Date(2026, time.October, 16, 23, 59, 0, 0, time.UTC) }
	view, err := env.public.ViewOffer(context.Background(), lastDay.PublicToken, Visit{})
	require.NoError(t, err)
	require.False(t, view.Expired)
	require.True(t, view.CanAccept)

	_, err = env.public.Accept(lastDay.PublicToken, AcceptInput{Name: "Jane", Email: "jane@example.com"}, "")
	require.NoError(t, err)

	env.public.now = func() time.Time { return time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC) }
	_, err = env.public.Accept(dayAfter.PublicToken, AcceptInput{Name: "Jane", Email: "jane@example.com"}, "")
	require.ErrorIs(t, err, ErrOfferExpired)
}

func TestPublicService_ViewProject(t *testing.T) {
	env := setupPublicTestEnv(t)

	project := &models.Project{
		Name:           "Relaunch",
		Status:         models.ProjectStatusActive,
		OrganizationID: env.org.ID,
		PublicToken:    "0b7d2a8c-6a55-4b1e-8f0e-3f7c2d1a9b64",
	}
	require.NoError(t, env.db.Create(project).Error)

	view, err := env.public.ViewProject(project.PublicToken)
	require.NoError(t, err)
	require.Equal(t, "Relaunch", view.Name)
	require.Equal(t, "Acme GmbH", view.OrganizationName)

	_, err = env.public.ViewProject("0b7d2a8c-6a55-4b1e-8f0e-000000000000")
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestPublicService_ViewOfferKeepsMultibyteUserAgentValid(t *testing.T) {
	env := setupPublicTestEnv(t)
	offer := env.createOffer(t, models.OfferStatusSent)

	_, err := env.public.ViewOffer(context.Background(), offer.PublicToken, Visit{
		UserAgent: "a" + strings.Repeat("ü", 300),
	})
	require.NoError(t, err)

	logs, _, err := env.service.AccessLogs(offer.ID, paginationAll())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.True(t, utf8.ValidString(logs[0].UserAgent))
	require.Len(t, logs[0].UserAgent, 511)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abc", truncate("abcdef", 3))
	require.Equal(t, "a", truncate("aü", 2))
	require.Equal(t, "aü", truncate("aüb", 3))
	require.Equal(t, "", truncate("日本", 2))
}

func TestAmountInWords(t *testing.T) {
	require.Equal(t, num2words.Convert(1200)+" EUR", AmountInWords(decimal.RequireFromString("1200.40"), "EUR"))
	require.Equal(t, num2words.Convert(1201)+" USD", AmountInWords(decimal.RequireFromString("1200.50"), "USD"))
	require.Contains(t, AmountInWords(decimal.NewFromInt(3000), "EUR"), "thousand")
}
