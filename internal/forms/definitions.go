package forms

import (
	"github.com/yukikurage/bizops-api/internal/constants"
	"github.com/yukikurage/bizops-api/internal/models"
)

// Entity names used by the form registry and the /api/forms routes.
const (
	EntityOrganization      = "organization"
	EntityContact           = "contact"
	EntityProject           = "project"
	EntityService           = "service"
	EntityOffer             = "offer"
	EntityOfferLine         = "offer_line"
	EntityCorporateEntity   = "corporate_entity"
	EntityPaymentTerm       = "payment_term"
	EntityDeliveryCondition = "delivery_condition"
	EntityLinkPreset        = "link_preset"
)

// Option sources understood by the form option resolver.
const (
	SourceOrganizations      = "organizations"
	SourceContacts           = "contacts"
	SourceServices           = "services"
	SourceCorporateEntities  = "corporate_entities"
	SourcePaymentTerms       = "payment_terms"
	SourceDeliveryConditions = "delivery_conditions"
	SourceLinkPresets        = "link_presets"
)

func float(v float64) *float64 { return &v }

func options[T ~string](values ...T) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: string(v), Label: humanize(string(v))}
	}
	return out
}

func humanize(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] == '_' {
			b[i] = ' '
		}
	}
	if len(b) > 0 && b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

func mustNew(entity, title string, fields ...Field) *Form {
	f, err := New(entity, title, fields...)
	if err != nil {
		panic(err)
	}
	return f
}

// Default returns the registry of every dashboard entity form.
func Default() *Registry {
	return NewRegistry(
		mustNew(EntityOrganization, "Organization",
			Field{Name: "name", Label: "Name", Type: TypeText, Required: true, MaxLength: 255},
			Field{Name: "email", Label: "Email", Type: TypeEmail, MaxLength: 255},
			Field{Name: "phone", Label: "Phone", Type: TypeText, MaxLength: 50},
			Field{Name: "website", Label: "Website", Type: TypeURL, MaxLength: 255, Placeholder: "https://"},
			Field{Name: "address", Label: "Address", Type: TypeTextarea},
			Field{Name: "vat_number", Label: "VAT number", Type: TypeText, MaxLength: 50},
			Field{Name: "notes", Label: "Notes", Type: TypeTextarea},
		),
		mustNew(EntityContact, "Contact",
			Field{Name: "first_name", Label: "First name", Type: TypeText, Required: true, MaxLength: 100},
			Field{Name: "last_name", Label: "Last name", Type: TypeText, Required: true, MaxLength: 100},
			Field{Name: "email", Label: "Email", Type: TypeEmail, MaxLength: 255},
			Field{Name: "phone", Label: "Phone", Type: TypeText, MaxLength: 50},
			Field{Name: "position", Label: "Position", Type: TypeText, MaxLength: 100},
			Field{Name: "notes", Label: "Notes", Type: TypeTextarea},
			Field{Name: "organization_id", Label: "Organization", Type: TypeRelation, Required: true, OptionsSource: SourceOrganizations},
		),
		mustNew(EntityProject, "Project",
			Field{Name: "name", Label: "Name", Type: TypeText, Required: true, MaxLength: 255},
			Field{Name: "description", Label: "Description", Type: TypeTextarea},
			Field{Name: "status", Label: "Status", Type: TypeSelect, Required: true, Options: options(models.ProjectStatuses...), Default: string(models.ProjectStatusPlanned)},
			Field{Name: "start_date", Label: "Start date", Type: TypeDate},
			Field{Name: "end_date", Label: "End date", Type: TypeDate},
			Field{Name: "budget", Label: "Budget", Type: TypeCurrency},
			Field{Name: "organization_id", Label: "Organization", Type: TypeRelation, Required: true, OptionsSource: SourceOrganizations},
		),
		mustNew(EntityService, "Service",
			Field{Name: "name", Label: "Name", Type: TypeText, Required: true, MaxLength: 255},
			Field{Name: "description", Label: "Description", Type: TypeTextarea},
			Field{Name: "price", Label: "Price", Type: TypeCurrency, Required: true},
			Field{Name: "is_recurring", Label: "Recurring", Type: TypeCheckbox, Default: false},
			Field{Name: "recurring_interval", Label: "Interval", Type: TypeSelect, Required: true,
				Options: options(models.RecurringMonthly, models.RecurringYearly), VisibleWhen: "is_recurring == true"},
			Field{Name: "group_type", Label: "Group", Type: TypeSelect, Required: true, Options: options(models.ServiceGroupTypes...), Default: string(models.ServiceGroupOther)},
			Field{Name: "is_active", Label: "Active", Type: TypeCheckbox, Default: true},
		),
		mustNew(EntityOffer, "Offer",
			Field{Name: "title", Label: "Title", Type: TypeText, Required: true, MaxLength: 255},
			Field{Name: "introduction", Label: "Introduction", Type: TypeTextarea},
			Field{Name: "status", Label: "Status", Type: TypeSelect, Options: options(models.OfferStatuses...), Default: string(models.OfferStatusDraft)},
			Field{Name: "organization_id", Label: "Organization", Type: TypeRelation, Required: true, OptionsSource: SourceOrganizations},
			Field{Name: "contact_id", Label: "Contact", Type: TypeRelation, OptionsSource: SourceContacts},
			Field{Name: "corporate_entity_id", Label: "Issued by", Type: TypeRelation, OptionsSource: SourceCorporateEntities},
			Field{Name: "payment_term_id", Label: "Payment term", Type: TypeRelation, OptionsSource: SourcePaymentTerms},
			Field{Name: "delivery_condition_id", Label: "Delivery condition", Type: TypeRelation, OptionsSource: SourceDeliveryConditions},
			Field{Name: "discount_mode", Label: "Discount mode", Type: TypeSelect,
				Options: options(models.DiscountModeGlobal, models.DiscountModePerLine), Default: string(models.DiscountModeGlobal)},
			Field{Name: "global_discount_percentage", Label: "Discount %", Type: TypePercentage, Default: 0,
				VisibleWhen: "discount_mode == 'global'"},
			Field{Name: "tax_percentage", Label: "Tax %", Type: TypePercentage, Max: float(999.99), Default: 0},
			Field{Name: "currency", Label: "Currency", Type: TypeText, MaxLength: 3, Default: constants.DefaultCurrency},
			Field{Name: "valid_until", Label: "Valid until", Type: TypeDate},
			Field{Name: "link_preset_ids", Label: "Links", Type: TypeMultiselect, OptionsSource: SourceLinkPresets},
		),
		mustNew(EntityOfferLine, "Offer line",
			Field{Name: "is_custom", Label: "Custom line", Type: TypeCheckbox, Default: false},
			Field{Name: "service_id", Label: "Service", Type: TypeRelation, Required: true, OptionsSource: SourceServices,
				VisibleWhen: "is_custom != true"},
			Field{Name: "custom_title", Label: "Title", Type: TypeText, Required: true, MaxLength: 255,
				VisibleWhen: "is_custom == true"},
			Field{Name: "custom_description", Label: "Description", Type: TypeTextarea},
			Field{Name: "price", Label: "Price", Type: TypeCurrency,
				HelpText: "Only used for custom lines and custom-priced services"},
			Field{Name: "quantity", Label: "Quantity", Type: TypeNumber, Required: true, Integer: true, Min: float(1), Default: 1},
			Field{Name: "discount_percentage", Label: "Discount %", Type: TypePercentage},
			Field{Name: "position", Label: "Position", Type: TypeNumber, Integer: true, Min: float(0)},
		),
		mustNew(EntityCorporateEntity, "Corporate entity",
			Field{Name: "name", Label: "Name", Type: TypeText, Required: true, MaxLength: 255},
			Field{Name: "legal_name", Label: "Legal name", Type: TypeText, MaxLength: 255},
			Field{Name: "address", Label: "Address", Type: TypeTextarea},
			Field{Name: "vat_number", Label: "VAT number", Type: TypeText, MaxLength: 50},
			Field{Name: "iban", Label: "IBAN", Type: TypeText, MaxLength: 34},
			Field{Name: "email", Label: "Email", Type: TypeEmail, MaxLength: 255},
			Field{Name: "phone", Label: "Phone", Type: TypeText, MaxLength: 50},
		),
		mustNew(EntityPaymentTerm, "Payment term",
			Field{Name: "name", Label: "Name", Type: TypeText, Required: true, MaxLength: 255},
			Field{Name: "description", Label: "Description", Type: TypeTextarea},
			Field{Name: "days_due", Label: "Days due", Type: TypeNumber, Integer: true, Min: float(0), Default: 30},
		),
		mustNew(EntityDeliveryCondition, "Delivery condition",
			Field{Name: "name", Label: "Name", Type: TypeText, Required: true, MaxLength: 255},
			Field{Name: "description", Label: "Description", Type: TypeTextarea},
		),
		mustNew(EntityLinkPreset, "Link preset",
			Field{Name: "name", Label: "Name", Type: TypeText, Required: true, MaxLength: 255},
			Field{Name: "url", Label: "URL", Type: TypeURL, Required: true, MaxLength: 1024},
			Field{Name: "description", Label: "Description", Type: TypeTextarea},
		),
	)
}
