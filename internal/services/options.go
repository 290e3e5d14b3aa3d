package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/yukikurage/bizops-api/internal/forms"
	"github.com/yukikurage/bizops-api/internal/models"
)

// OptionResolver fills relation fields of forms from the current records.
type OptionResolver struct {
	organizations      *OrganizationService
	contacts           *ContactService
	catalog            *CatalogService
	corporateEntities  *LookupService[models.CorporateEntity]
	paymentTerms       *LookupService[models.PaymentTerm]
	deliveryConditions *LookupService[models.DeliveryCondition]
	linkPresets        *LookupService[models.OfferLinkPreset]
}

func NewOptionResolver(
	organizations *OrganizationService,
	contacts *ContactService,
	catalog *CatalogService,
	corporateEntities *LookupService[models.CorporateEntity],
	paymentTerms *LookupService[models.PaymentTerm],
	deliveryConditions *LookupService[models.DeliveryCondition],
	linkPresets *LookupService[models.OfferLinkPreset],
) *OptionResolver {
	return &OptionResolver{
		organizations:      organizations,
		contacts:           contacts,
		catalog:            catalog,
		corporateEntities:  corporateEntities,
		paymentTerms:       paymentTerms,
		deliveryConditions: deliveryConditions,
		linkPresets:        linkPresets,
	}
}

func (r *OptionResolver) Options(ctx context.Context, source string) ([]forms.Option, error) {
	switch source {
	case forms.SourceOrganizations:
		orgs, err := r.organizations.List()
		return toOptions(orgs, err, func(o models.Organization) (uint64, string) { return o.ID, o.Name })
	case forms.SourceContacts:
		contacts, err := r.contacts.List(nil)
		return toOptions(contacts, err, func(c models.Contact) (uint64, string) { return c.ID, c.FullName() })
	case forms.SourceServices:
		services, err := r.catalog.List(ctx)
		active := services[:0:0]
		for _, s := range services {
			if s.IsActive {
				active = append(active, s)
			}
		}
		return toOptions(active, err, func(s models.Service) (uint64, string) { return s.ID, s.Name })
	case forms.SourceCorporateEntities:
		items, err := r.corporateEntities.List(ctx)
		return toOptions(items, err, func(c models.CorporateEntity) (uint64, string) { return c.ID, c.Name })
	case forms.SourcePaymentTerms:
		items, err := r.paymentTerms.List(ctx)
		return toOptions(items, err, func(p models.PaymentTerm) (uint64, string) { return p.ID, p.Name })
	case forms.SourceDeliveryConditions:
		items, err := r.deliveryConditions.List(ctx)
		return toOptions(items, err, func(d models.DeliveryCondition) (uint64, string) { return d.ID, d.Name })
	case forms.SourceLinkPresets:
		items, err := r.linkPresets.List(ctx)
		return toOptions(items, err, func(l models.OfferLinkPreset) (uint64, string) { return l.ID, l.Name })
	}
	return nil, fmt.Errorf("unknown option source %q", source)
}

func toOptions[T any](items []T, err error, pick func(T) (uint64, string)) ([]forms.Option, error) {
	if err != nil {
		return nil, err
	}
	out := make([]forms.Option, len(items))
	for i, item := range items {
		id, label := pick(item)
		out[i] = forms.Option{Value: strconv.FormatUint(id, 10), Label: label}
	}
	return out, nil
}
