package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_JWTProviderDefaults(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("SITE_DOMAIN", "https://lessons.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, AuthProviderJWT, cfg.AuthProvider)
	assert.Equal(t, "https://lessons.example.com", cfg.SiteDomain)
	assert.Equal(t, 30*time.Second, cfg.ServerTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTAccessTokenExpiry)
	assert.Equal(t, int64(1500), cfg.PremiumPrice)
	assert.Equal(t, "bdt", cfg.PaymentCurrency)
	assert.False(t, cfg.PaymentConfigured())
	assert.False(t, cfg.SearchEnabled())
}

func TestLoad_JWTProviderRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")
}

func TestLoad_FirebaseProviderRequiresKeyFile(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "firebase")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", filepath.Join(t.TempDir(), "missing.json"))

	_, err := Load()
	assert.ErrorContains(t, err, "not found")
}

func TestLoad_FirebaseProviderWithKeyFile(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(keyPath, []byte(`{}`), 0o600))
	t.Setenv("AUTH_PROVIDER", "FIREBASE")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", keyPath)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, AuthProviderFirebase, cfg.AuthProvider)
	assert.True(t, cfg.PaymentConfigured())
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "saml")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported AUTH_PROVIDER")
}
