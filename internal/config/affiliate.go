package config

import "time"

// AffiliateConfig drives referral tracking and commission handling.
// CommissionRate is injected here rather than hardcoded so the rate
// can change without redeploying the calculator.
type AffiliateConfig struct {
	CommissionRate    float64       `yaml:"commission_rate"`
	ConversionAPIURL  string        `yaml:"conversion_api_url"`
	ConversionTimeout time.Duration `yaml:"conversion_timeout"`
	CookieName        string        `yaml:"cookie_name"`
	CookieTTL         time.Duration `yaml:"cookie_ttl"`
	CookieSecure      bool          `yaml:"cookie_secure"`
}

func loadAffiliateConfig() *AffiliateConfig {
	return &AffiliateConfig{
		CommissionRate:    getEnvAsFloat("AFFILIATE_COMMISSION_RATE", 0.30),
		ConversionAPIURL:  getEnv("AFFILIATE_CONVERSION_API_URL", "https://affiliate-bloom.example.com/wp-json/affiliate-bloom/v1/conversion"),
		ConversionTimeout: getEnvAsDuration("AFFILIATE_CONVERSION_TIMEOUT", 30*time.Second),
		CookieName:        getEnv("AFFILIATE_COOKIE_NAME", "affiliate_bloom_ref"),
		CookieTTL:         getEnvAsDuration("AFFILIATE_COOKIE_TTL", 30*24*time.Hour),
		CookieSecure:      getEnvAsBool("AFFILIATE_COOKIE_SECURE", false),
	}
}
