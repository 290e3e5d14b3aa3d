package constants

import "time"

const (
	// Session / context keys
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	ContextKeyLogger   = "logger"
	SessionCookieName  = "bizops_session"

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Auth
	MinPasswordLength = 8

	// Offers
	DefaultCurrency       = "EUR"
	OfferNumberPrefix     = "OF"
	DefaultOfferValidDays = 30

	// Services whose offer lines may carry a custom price
	ServiceCustomDevelopment = "Custom Development"
	ServiceCustomLicense     = "Custom License"

	// Cache
	DefaultCacheTTL = 30 * time.Second

	// Uploads
	MaxLogoSizeBytes = 2 << 20
)
