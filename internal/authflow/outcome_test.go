package authflow

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeTarget(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		landing string
		want    string
	}{
		{"success", Outcome{Kind: Success}, "/", "/?success=true"},
		{"provider error", Outcome{Kind: ProviderError, Reason: "access_denied"}, "/", "/?error=access_denied"},
		{"missing code", Outcome{Kind: MissingCode, Reason: ReasonNoCode}, "/", "/?error=no_code"},
		{"exchange rejected", Outcome{Kind: ExchangeFailed, Reason: ReasonCallbackFailed}, "/", "/?error=callback_failed"},
		{"check failed", Outcome{Kind: PostExchangeCheckFailed, Reason: ReasonAuthFailed}, "/", "/?error=auth_failed"},
		{"message is escaped", Outcome{Kind: ExchangeFailed, Reason: "backend unreachable & down"}, "/", "/?error=backend+unreachable+%26+down"},
		{"empty landing", Outcome{Kind: Success}, "", "/?success=true"},
		{"landing with query", Outcome{Kind: Success}, "/app?tab=home", "/app?tab=home&success=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.Target(tt.landing))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", Outcome{Kind: Success}.String())
	assert.Equal(t, "provider_error(access_denied)", Outcome{Kind: ProviderError, Reason: "access_denied"}.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
	assert.True(t, Outcome{Kind: Success}.OK())
	assert.False(t, Outcome{Kind: MissingCode}.OK())
}

func TestParseCallback(t *testing.T) {
	t.Run("code only", func(t *testing.T) {
		cb := ParseCallback(url.Values{"code": {"abc123"}})
		assert.True(t, cb.HasCode())
		assert.False(t, cb.HasError())
		assert.Equal(t, "abc123", cb.Code)
	})

	t.Run("empty values count as absent", func(t *testing.T) {
		cb := ParseCallbackQuery("?code=&error=")
		assert.False(t, cb.HasCode())
		assert.False(t, cb.HasError())
	})

	t.Run("both present", func(t *testing.T) {
		cb := ParseCallbackQuery("code=abc&error=access_denied&state=xyz")
		assert.Equal(t, "abc", cb.Code)
		assert.Equal(t, "access_denied", cb.Error)
	})

	t.Run("unparseable pairs are skipped", func(t *testing.T) {
		cb := ParseCallbackQuery("bad=%zz&code=ok")
		assert.Equal(t, "ok", cb.Code)
	})
}
