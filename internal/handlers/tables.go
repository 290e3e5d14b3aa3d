package handlers

import (
	"github.com/yukikurage/bizops-api/internal/datatable"
	"github.com/yukikurage/bizops-api/internal/models"
)

// Columns offered by the list and export endpoints of each entity.

var organizationTable = datatable.New(
	datatable.Column[models.Organization]{Key: "id", Label: "ID", Value: func(o models.Organization) any { return o.ID }},
	datatable.Column[models.Organization]{Key: "name", Label: "Name", Value: func(o models.Organization) any { return o.Name }, Searchable: true},
	datatable.Column[models.Organization]{Key: "email", Label: "Email", Value: func(o models.Organization) any { return o.Email }, Searchable: true},
	datatable.Column[models.Organization]{Key: "phone", Label: "Phone", Value: func(o models.Organization) any { return o.Phone }},
	datatable.Column[models.Organization]{Key: "website", Label: "Website", Value: func(o models.Organization) any { return o.Website }},
	datatable.Column[models.Organization]{Key: "vat_number", Label: "VAT number", Value: func(o models.Organization) any { return o.VATNumber }, Searchable: true},
	datatable.Column[models.Organization]{Key: "created_at", Label: "Created", Value: func(o models.Organization) any { return o.CreatedAt }},
)

var contactTable = datatable.New(
	datatable.Column[models.Contact]{Key: "id", Label: "ID", Value: func(c models.Contact) any { return c.ID }},
	datatable.Column[models.Contact]{Key: "first_name", Label: "First name", Value: func(c models.Contact) any { return c.FirstName }, Searchable: true},
	datatable.Column[models.Contact]{Key: "last_name", Label: "Last name", Value: func(c models.Contact) any { return c.LastName }, Searchable: true},
	datatable.Column[models.Contact]{Key: "email", Label: "Email", Value: func(c models.Contact) any { return c.Email }, Searchable: true},
	datatable.Column[models.Contact]{Key: "phone", Label: "Phone", Value: func(c models.Contact) any { return c.Phone }},
	datatable.Column[models.Contact]{Key: "position", Label: "Position", Value: func(c models.Contact) any { return c.Position }},
	datatable.Column[models.Contact]{Key: "organization_id", Label: "Organization ID", Value: func(c models.Contact) any { return c.OrganizationID }},
	datatable.Column[models.Contact]{Key: "organization", Label: "Organization", Value: func(c models.Contact) any {
		if c.Organization == nil {
			return nil
		}
		return c.Organization.Name
	}, Searchable: true},
	datatable.Column[models.Contact]{Key: "created_at", Label: "Created", Value: func(c models.Contact) any { return c.CreatedAt }},
)

var projectTable = datatable.New(
	datatable.Column[models.Project]{Key: "id", Label: "ID", Value: func(p models.Project) any { return p.ID }},
	datatable.Column[models.Project]{Key: "name", Label: "Name", Value: func(p models.Project) any { return p.Name }, Searchable: true},
	datatable.Column[models.Project]{Key: "status", Label: "Status", Value: func(p models.Project) any { return string(p.Status) }},
	datatable.Column[models.Project]{Key: "start_date", Label: "Start", Value: func(p models.Project) any { return p.StartDate }},
	datatable.Column[models.Project]{Key: "end_date", Label: "End", Value: func(p models.Project) any { return p.EndDate }},
	datatable.Column[models.Project]{Key: "budget", Label: "Budget", Value: func(p models.Project) any { return p.Budget }},
	datatable.Column[models.Project]{Key: "organization_id", Label: "Organization ID", Value: func(p models.Project) any { return p.OrganizationID }},
	datatable.Column[models.Project]{Key: "organization", Label: "Organization", Value: func(p models.Project) any {
		if p.Organization == nil {
			return nil
		}
		return p.Organization.Name
	}, Searchable: true},
	datatable.Column[models.Project]{Key: "created_at", Label: "Created", Value: func(p models.Project) any { return p.CreatedAt }},
)

var serviceTable = datatable.New(
	datatable.Column[models.Service]{Key: "id", Label: "ID", Value: func(s models.Service) any { return s.ID }},
	datatable.Column[models.Service]{Key: "name", Label: "Name", Value: func(s models.Service) any { return s.Name }, Searchable: true},
	datatable.Column[models.Service]{Key: "description", Label: "Description", Value: func(s models.Service) any { return s.Description }, Searchable: true},
	datatable.Column[models.Service]{Key: "price", Label: "Price", Value: func(s models.Service) any { return s.Price }},
	datatable.Column[models.Service]{Key: "group_type", Label: "Group", Value: func(s models.Service) any { return string(s.GroupType) }},
	datatable.Column[models.Service]{Key: "is_recurring", Label: "Recurring", Value: func(s models.Service) any { return s.IsRecurring }},
	datatable.Column[models.Service]{Key: "recurring_interval", Label: "Interval", Value: func(s models.Service) any { return string(s.RecurringInterval) }},
	datatable.Column[models.Service]{Key: "is_active", Label: "Active", Value: func(s models.Service) any { return s.IsActive }},
)

var offerTable = datatable.New(
	datatable.Column[models.Offer]{Key: "id", Label: "ID", Value: func(o models.Offer) any { return o.ID }},
	datatable.Column[models.Offer]{Key: "number", Label: "Number", Value: func(o models.Offer) any { return o.Number }, Searchable: true},
	datatable.Column[models.Offer]{Key: "title", Label: "Title", Value: func(o models.Offer) any { return o.Title }, Searchable: true},
	datatable.Column[models.Offer]{Key: "status", Label: "Status", Value: func(o models.Offer) any { return string(o.Status) }},
	datatable.Column[models.Offer]{Key: "organization_id", Label: "Organization ID", Value: func(o models.Offer) any { return o.OrganizationID }},
	datatable.Column[models.Offer]{Key: "organization", Label: "Organization", Value: func(o models.Offer) any {
		if o.Organization == nil {
			return nil
		}
		return o.Organization.Name
	}, Searchable: true},
	datatable.Column[models.Offer]{Key: "contact", Label: "Contact", Value: func(o models.Offer) any {
		if o.Contact == nil {
			return nil
		}
		return o.Contact.FullName()
	}, Searchable: true},
	datatable.Column[models.Offer]{Key: "currency", Label: "Currency", Value: func(o models.Offer) any { return o.Currency }},
	datatable.Column[models.Offer]{Key: "total_amount", Label: "Total", Value: func(o models.Offer) any { return o.TotalAmount }},
	datatable.Column[models.Offer]{Key: "valid_until", Label: "Valid until", Value: func(o models.Offer) any { return o.ValidUntil }},
	datatable.Column[models.Offer]{Key: "accepted_at", Label: "Accepted", Value: func(o models.Offer) any { return o.AcceptedAt }},
	datatable.Column[models.Offer]{Key: "created_at", Label: "Created", Value: func(o models.Offer) any { return o.CreatedAt }},
)

var corporateEntityTable = datatable.New(
	datatable.Column[models.CorporateEntity]{Key: "id", Label: "ID", Value: func(e models.CorporateEntity) any { return e.ID }},
	datatable.Column[models.CorporateEntity]{Key: "name", Label: "Name", Value: func(e models.CorporateEntity) any { return e.Name }, Searchable: true},
	datatable.Column[models.CorporateEntity]{Key: "legal_name", Label: "Legal name", Value: func(e models.CorporateEntity) any { return e.LegalName }, Searchable: true},
	datatable.Column[models.CorporateEntity]{Key: "vat_number", Label: "VAT number", Value: func(e models.CorporateEntity) any { return e.VATNumber }, Searchable: true},
	datatable.Column[models.CorporateEntity]{Key: "iban", Label: "IBAN", Value: func(e models.CorporateEntity) any { return e.IBAN }},
	datatable.Column[models.CorporateEntity]{Key: "email", Label: "Email", Value: func(e models.CorporateEntity) any { return e.Email }},
)

var paymentTermTable = datatable.New(
	datatable.Column[models.PaymentTerm]{Key: "id", Label: "ID", Value: func(p models.PaymentTerm) any { return p.ID }},
	datatable.Column[models.PaymentTerm]{Key: "name", Label: "Name", Value: func(p models.PaymentTerm) any { return p.Name }, Searchable: true},
	datatable.Column[models.PaymentTerm]{Key: "description", Label: "Description", Value: func(p models.PaymentTerm) any { return p.Description }, Searchable: true},
	datatable.Column[models.PaymentTerm]{Key: "days_due", Label: "Days due", Value: func(p models.PaymentTerm) any { return p.DaysDue }},
)

var deliveryConditionTable = datatable.New(
	datatable.Column[models.DeliveryCondition]{Key: "id", Label: "ID", Value: func(d models.DeliveryCondition) any { return d.ID }},
	datatable.Column[models.DeliveryCondition]{Key: "name", Label: "Name", Value: func(d models.DeliveryCondition) any { return d.Name }, Searchable: true},
	datatable.Column[models.DeliveryCondition]{Key: "description", Label: "Description", Value: func(d models.DeliveryCondition) any { return d.Description }, Searchable: true},
)

var linkPresetTable = datatable.New(
	datatable.Column[models.OfferLinkPreset]{Key: "id", Label: "ID", Value: func(l models.OfferLinkPreset) any { return l.ID }},
	datatable.Column[models.OfferLinkPreset]{Key: "name", Label: "Name", Value: func(l models.OfferLinkPreset) any { return l.Name }, Searchable: true},
	datatable.Column[models.OfferLinkPreset]{Key: "url", Label: "URL", Value: func(l models.OfferLinkPreset) any { return l.URL }, Searchable: true},
	datatable.Column[models.OfferLinkPreset]{Key: "description", Label: "Description", Value: func(l models.OfferLinkPreset) any { return l.Description }},
)
