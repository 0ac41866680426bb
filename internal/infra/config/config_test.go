package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "8001", cfg.Server.HTTPS.Port)
	assert.Equal(t, "open", cfg.State.Collection)
	assert.Equal(t, "sesame", cfg.State.Doc)
	assert.Equal(t, 10*time.Second, cfg.State.WriteTimeout)
	assert.Equal(t, "swagger-ui/dist", cfg.Docs.Dir)
	assert.False(t, cfg.Papertrail.Enabled())
	assert.False(t, cfg.HTTPSEnabled())

	require.Len(t, cfg.Watches, 2)
	assert.Equal(t, WatchConfig{Name: "cart", Collection: "cart", Field: "price", CloseDelay: 3 * time.Second}, cfg.Watches[0])
	assert.Equal(t, 15*time.Second, cfg.Watches[1].CloseDelay)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PAPERTRAIL_HOST", "logs.example.com")
	t.Setenv("PAPERTRAIL_PORT", "1234")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "from-gcp")
	t.Setenv("FIRESTORE_PROJECT_ID", "from-firestore")
	t.Setenv("WRITE_TIMEOUT", "2500")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.Papertrail.Enabled())
	assert.Equal(t, "logs.example.com:1234", cfg.Papertrail.Addr())
	assert.Equal(t, "from-firestore", cfg.Firestore.ProjectID)
	assert.Equal(t, 2500*time.Millisecond, cfg.State.WriteTimeout)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cartserver.yaml")
	body := `
server:
  port: "7000"
state:
  collection: gates
  doc: main
watches:
  - name: cart
    collection: cart
    field: price
    closeDelay: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("STATE_DOC", "override")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "gates", cfg.State.Collection)
	assert.Equal(t, "override", cfg.State.Doc)
	require.Len(t, cfg.Watches, 1)
	assert.Equal(t, 5*time.Second, cfg.Watches[0].CloseDelay)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_RequireAuth(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Server.RequireAuth)

	t.Setenv("CART_API_REQUIRE_AUTH", "true")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Server.RequireAuth)

	t.Setenv("CART_API_REQUIRE_AUTH", "maybe")
	_, err = Load("")
	require.Error(t, err)
}

func TestLoad_Alert(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("SENDGRID_FROM", "cart@example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Alert.Enabled())

	t.Setenv("ALERT_EMAIL_TO", "ops@example.com, ,oncall@example.com")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Alert.Enabled())
	assert.Equal(t, []string{"ops@example.com", "oncall@example.com"}, cfg.Alert.To)
}

func TestLoad_BadWriteTimeout(t *testing.T) {
	t.Setenv("WRITE_TIMEOUT", "soon")
	_, err := Load("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		watches []WatchConfig
		https   HTTPSConfig
		wantErr bool
	}{
		{name: "defaults", watches: DefaultWatches()},
		{
			name:    "missing field",
			watches: []WatchConfig{{Name: "cart", Collection: "cart", CloseDelay: time.Second}},
			wantErr: true,
		},
		{
			name:    "zero delay",
			watches: []WatchConfig{{Name: "cart", Collection: "cart", Field: "price"}},
			wantErr: true,
		},
		{
			name: "duplicate name",
			watches: []WatchConfig{
				{Name: "cart", Collection: "cart", Field: "price", CloseDelay: time.Second},
				{Name: "cart", Collection: "order", Field: "total", CloseDelay: time.Second},
			},
			wantErr: true,
		},
		{
			name:    "cert without key",
			watches: DefaultWatches(),
			https:   HTTPSConfig{Cert: "server.crt"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Watches: tt.watches, Server: ServerConfig{HTTPS: tt.https}}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHTTPSEnabled_RequiresExistingCert(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "server.crt")

	cfg := &Config{Server: ServerConfig{HTTPS: HTTPSConfig{Cert: cert, Key: "k"}}}
	assert.False(t, cfg.HTTPSEnabled())

	require.NoError(t, os.WriteFile(cert, []byte("cert"), 0o600))
	assert.True(t, cfg.HTTPSEnabled())
}
