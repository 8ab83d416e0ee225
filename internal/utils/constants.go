package utils

import "time"

// Application Constants
const (
	AppName    = "EkuseyEcom"
	AppVersion = "1.0.0"

	// Default values
	DefaultCurrency = "USD"
	DefaultTimeZone = "UTC"

	// Response status
	StatusSuccess = "success"
	StatusError   = "error"

	// Pagination
	DefaultPageSize = 12
	MaxPageSize     = 100
	MinPageSize     = 1

	// Referral tracking
	RefQueryParam      = "ref"
	ReferralCookieName = "affiliate_bloom_ref"
	ReferralCookieTTL  = 30 * 24 * time.Hour
	ReferralCookiePath = "/"

	// Commission
	DefaultCommissionRate  = 0.30
	ClaimResponseBodyLimit = 200
	ConversionAPITimeout   = 30 * time.Second

	// Authentication
	JWTAccessTokenTTL = 24 * time.Hour

	// Cache TTLs
	ProductListCacheTTL = 5 * time.Minute
	BannerCacheTTL      = 10 * time.Minute
)

// Error messages
const (
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Unauthorized access"
	ErrForbidden        = "Access forbidden"
)
