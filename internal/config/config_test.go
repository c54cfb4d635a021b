package config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duotier/duostore/pkg/backend"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	// Keep a developer's real ~/.duostore/duostore.yaml out of the tests.
	t.Setenv("HOME", t.TempDir())

	// Test basic config loading with defaults
	t.Run("LoadDefaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "s3", cfg.Backend)
		assert.Equal(t, "public/", cfg.PublicPrefix)
		assert.Zero(t, cfg.PageRateLimit)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, 10*time.Second, cfg.Vendor.Timeout)
	})

	// Test config file overrides
	t.Run("ConfigFile", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "duostore.yaml"), []byte(`
backend: file
public_prefix: shared/
page_rate_limit: 25
logging:
  level: debug
account:
  account: acct
  access_key: secret
  container_prefix: team
`), 0o644))

		cfg, err := Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, "file", cfg.Backend)
		assert.Equal(t, "shared/", cfg.PublicPrefix)
		assert.Equal(t, 25.0, cfg.PageRateLimit)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "acct", cfg.Account.Account)
		assert.Equal(t, "secret", cfg.Account.AccessKey)
		assert.Equal(t, "team", cfg.Account.ContainerPrefix)
	})

	// Test environment variable overrides
	t.Run("EnvOverrides", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("DUOSTORE_LOGGING_LEVEL", "warn")
		t.Setenv("DUOSTORE_ACCOUNT_ACCESS_KEY", "env-secret")
		t.Setenv("DUOSTORE_VENDOR_TIMEOUT", "45s")

		cfg, err := Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, "env-secret", cfg.Account.AccessKey)
		assert.Equal(t, 45*time.Second, cfg.Vendor.Timeout)
	})

	// Test config precedence: env > file > defaults
	t.Run("ConfigPrecedence", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "duostore.yaml"), []byte(`
logging:
  level: debug
`), 0o644))
		t.Setenv("DUOSTORE_LOGGING_LEVEL", "error")

		cfg, err := Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Logging.Level)
	})

	t.Run("MalformedConfigFile", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "duostore.yaml"), []byte("backend: [unterminated"), 0o644))

		_, err := Load(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config")
	})
}

func TestResolveCredentials_Account(t *testing.T) {
	cfg := &Config{Account: AccountConfig{
		Account:         "acct",
		AccessKey:       "secret",
		ContainerPrefix: "team",
		Region:          "eu-west-1",
	}}

	creds, err := cfg.ResolveCredentials(context.Background())
	require.NoError(t, err)
	require.NotNil(t, creds.Account)
	assert.Equal(t, "team", creds.Account.ContainerPrefix)
	assert.Equal(t, "eu-west-1", creds.Account.Region)
}

func TestResolveCredentials_Delegated(t *testing.T) {
	cfg := &Config{Delegated: DelegatedConfig{
		PrivateURL: "https://storage.example.com/team-private?access-key-id=id&secret-access-key=sk",
		PublicURL:  "https://storage.example.com/team-public?access-key-id=id&secret-access-key=sk",
	}}

	creds, err := cfg.ResolveCredentials(context.Background())
	require.NoError(t, err)
	require.NotNil(t, creds.Delegated)
	assert.Nil(t, creds.Account)
}

func TestResolveCredentials_DelegatedIncomplete(t *testing.T) {
	cfg := &Config{Delegated: DelegatedConfig{
		PrivateURL: "https://storage.example.com/team-private?access-key-id=id&secret-access-key=sk",
	}}

	_, err := cfg.ResolveCredentials(context.Background())
	require.Error(t, err)

	var ce *backend.CredentialError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Delegated.PublicURL", ce.Field)
}

func TestResolveCredentials_VendorTokenWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tok-1", req.Token)

		_, _ = w.Write([]byte(`{
			"privateUrl": "https://storage.example.com/p?access-key-id=id&secret-access-key=sk",
			"publicUrl": "https://storage.example.com/q?access-key-id=id&secret-access-key=sk"
		}`))
	}))
	defer srv.Close()

	cfg := &Config{
		Vendor: VendorConfig{URL: srv.URL, Token: "tok-1"},
		Account: AccountConfig{
			Account:         "acct",
			AccessKey:       "secret",
			ContainerPrefix: "team",
		},
	}

	creds, err := cfg.ResolveCredentials(context.Background())
	require.NoError(t, err)
	require.NotNil(t, creds.Delegated)
	assert.Nil(t, creds.Account)
}

func TestResolveCredentials_VendorTimeoutBoundsExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := &Config{
		Vendor: VendorConfig{URL: srv.URL, Token: "tok-1", Timeout: 20 * time.Millisecond},
	}

	start := time.Now()
	_, err := cfg.ResolveCredentials(context.Background())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestResolveCredentials_NoInput(t *testing.T) {
	cfg := &Config{}

	_, err := cfg.ResolveCredentials(context.Background())
	require.Error(t, err)

	var ce *backend.CredentialError
	require.ErrorAs(t, err, &ce)
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "staging.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: s3
account:
  account: staging-acct
  accessKey: staging-secret
  containerPrefix: staging
  region: us-west-2
`), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "s3", p.Backend)
	assert.Equal(t, "staging-acct", p.Account.Account)
	assert.Equal(t, "us-west-2", p.Account.Region)
}

func TestLoadProfile_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
account:
  acount: oops
`), 0o644))

	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse profile")
}

func TestLoadProfile_Missing(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open profile")
}

func TestProfile_Apply(t *testing.T) {
	cfg := &Config{
		Backend: "s3",
		Account: AccountConfig{Account: "orig", AccessKey: "orig-key", ContainerPrefix: "orig-prefix"},
	}

	var p Profile
	p.Account.Account = "override"
	p.Vendor.Token = "tok"
	p.Apply(cfg)

	// Non-empty profile values win, everything else is untouched.
	assert.Equal(t, "override", cfg.Account.Account)
	assert.Equal(t, "orig-key", cfg.Account.AccessKey)
	assert.Equal(t, "orig-prefix", cfg.Account.ContainerPrefix)
	assert.Equal(t, "tok", cfg.Vendor.Token)
	assert.Equal(t, "s3", cfg.Backend)
}
