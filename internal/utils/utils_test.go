package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain code passes through", "partner42", "partner42"},
		{"tags are stripped", "<b>partner42</b>", "partner42"},
		{"script tags are stripped", "<script>alert(1)</script>code", "alert(1)code"},
		{"control characters removed", "part\x00ner\x0942", "partner42"},
		{"whitespace collapses", "  a   b  ", "a b"},
		{"empty after cleaning", "<br/>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.input))
		})
	}
}

func TestIsLocalHost(t *testing.T) {
	assert.True(t, IsLocalHost("localhost"))
	assert.True(t, IsLocalHost("localhost:8080"))
	assert.True(t, IsLocalHost("shop.example.com:3000"))
	assert.False(t, IsLocalHost("shop.example.com"))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$12.00", FormatCurrency(12, "USD"))
	assert.Equal(t, "$12.35", FormatCurrency(12.349, "USD"))
	assert.Equal(t, "৳99.99", FormatCurrency(99.99, "BDT"))
	assert.Equal(t, "¥1200", FormatCurrency(1200, "JPY"))
	// Unknown currencies fall back to the default.
	assert.Equal(t, "$5.00", FormatCurrency(5, "XXX"))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 12.35, RoundMoney(12.349))
	assert.Equal(t, 0.0, RoundMoney(0.001))
	assert.Equal(t, -2.5, RoundMoney(-2.499))
}

func TestTruncateBody(t *testing.T) {
	long := strings.Repeat("x", 300)
	assert.Len(t, TruncateBody(long, ClaimResponseBodyLimit), ClaimResponseBodyLimit)
	assert.Equal(t, "short", TruncateBody("short", ClaimResponseBodyLimit))
}

func TestServiceErrorHTTPStatus(t *testing.T) {
	assert.Equal(t, 403, NewServiceError(ErrCodePermissionDenied, "").HTTPStatus())
	assert.Equal(t, 404, NewServiceError(ErrCodeNotFound, "").HTTPStatus())
	assert.Equal(t, 400, NewServiceError(ErrCodeInvalidInput, "").HTTPStatus())
	assert.Equal(t, 409, NewServiceError(ErrCodeAlreadyProcessed, "").HTTPStatus())
	assert.Equal(t, 502, NewServiceError(ErrCodeExternalCallRejected, "").HTTPStatus())
	assert.Equal(t, 500, NewServiceError(ErrCodeInternal, "").HTTPStatus())
}
