package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Madhav-Gupta-28/storefront-go/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "API_URL", "REACT_APP_API_URL", "RAZORPAY_KEY_ID", "REACT_APP_RAZORPAY_KEY",
		"JWT_SECRET", "STORE_DRIVER", "UPSTREAM_TIMEOUT", "PRICING_FILE", "SESSION_TTL", "SESSION_IDLE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_URL", "http://api.local/api")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://api.local/api", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, database.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 100.0, cfg.Rules.ShippingFee)
}

func TestLoadLegacyNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("REACT_APP_API_URL", "http://legacy/api")
	t.Setenv("REACT_APP_RAZORPAY_KEY", "rzp_test_1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://legacy/api", cfg.APIURL)
	assert.Equal(t, "rzp_test_1", cfg.RazorpayKey)
}

func TestLoadRequiresAPIURL(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingAPIURL)
}

func TestLoadDurations(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_URL", "http://api")
	t.Setenv("UPSTREAM_TIMEOUT", "5")
	t.Setenv("SESSION_IDLE", "2m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 2*time.Minute, cfg.SessionIdle)

	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	_, err = Load()
	assert.ErrorContains(t, err, "UPSTREAM_TIMEOUT")
}

func TestLoadPricingFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shipping_fee: 80\n"), 0o600))
	t.Setenv("API_URL", "http://api")
	t.Setenv("PRICING_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 80.0, cfg.Rules.ShippingFee)
	assert.Equal(t, 50.0, cfg.Rules.CODSurcharge)
}
