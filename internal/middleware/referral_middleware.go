package middleware

import (
	"ekuseyecom/internal/config"
	"ekuseyecom/internal/utils"
	"ekuseyecom/pkg/logger"

	"github.com/gin-gonic/gin"
)

const refContextKey = "affiliate_ref"

// ReferralTracker captures the affiliate code from ?ref=<code> on any
// storefront request and stores it in the visitor's tracking cookie
// for 30 days, overwriting any previously stored value. Requests
// without the parameter pass through untouched.
func ReferralTracker(cfg *config.AffiliateConfig, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Query(utils.RefQueryParam)
		if ref == "" {
			c.Next()
			return
		}

		code := utils.SanitizeText(ref)
		if code == "" {
			c.Next()
			return
		}

		host := c.Request.Host

		// Local and dev hosts get no domain restriction; anything else
		// is scoped to the current host.
		domain := ""
		if !utils.IsLocalHost(host) {
			domain = host
		}

		secure := cfg.CookieSecure || c.Request.TLS != nil

		c.SetCookie(
			cfg.CookieName,
			code,
			int(cfg.CookieTTL.Seconds()),
			utils.ReferralCookiePath,
			domain,
			secure,
			true,
		)

		// Make the capture visible to handlers within this request;
		// the cookie itself only arrives on the next one.
		c.Set(refContextKey, code)

		log.LogReferralCapture(code, host)

		c.Next()
	}
}

// CurrentRef returns the visitor's active referral code: the one
// captured during this request if any, otherwise the cookie value.
// Empty means no attribution (none stored, or expired client-side).
func CurrentRef(c *gin.Context, cookieName string) string {
	if v, exists := c.Get(refContextKey); exists {
		if code, ok := v.(string); ok {
			return code
		}
	}

	value, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}

	return utils.SanitizeText(value)
}
