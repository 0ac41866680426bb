// internal/infra/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds process configuration. It is loaded once at startup and not
// mutated afterwards.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Papertrail PapertrailConfig `yaml:"papertrail"`
	Log        LogConfig        `yaml:"log"`
	Firestore  FirestoreConfig  `yaml:"firestore"`
	State      StateConfig      `yaml:"state"`
	Docs       DocsConfig       `yaml:"docs"`
	Alert      AlertConfig      `yaml:"alert"`
	Watches    []WatchConfig    `yaml:"watches"`
}

type ServerConfig struct {
	Port  string      `yaml:"port"`
	HTTPS HTTPSConfig `yaml:"https"`
	// RequireAuth puts the state-changing routes behind Firebase ID token
	// verification.
	RequireAuth bool `yaml:"requireAuth"`
}

// HTTPSConfig is optional. The HTTPS listener only starts when Cert points to
// an existing file.
type HTTPSConfig struct {
	Port string `yaml:"port"`
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
	CA   string `yaml:"ca"`
}

// PapertrailConfig is the optional log shipping endpoint. Empty host means
// stdout only.
type PapertrailConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

func (p PapertrailConfig) Enabled() bool {
	return strings.TrimSpace(p.Host) != "" && strings.TrimSpace(p.Port) != ""
}

func (p PapertrailConfig) Addr() string {
	return strings.TrimSpace(p.Host) + ":" + strings.TrimSpace(p.Port)
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type FirestoreConfig struct {
	ProjectID string `yaml:"projectId"`
	// CredentialsFile is a service account JSON path. Empty means ADC.
	CredentialsFile string `yaml:"credentialsFile"`
	// CredentialsSecret is a Secret Manager version name holding the
	// service account JSON (projects/p/secrets/s/versions/v).
	CredentialsSecret string `yaml:"credentialsSecret"`
}

// StateConfig locates the singleton cart state document.
type StateConfig struct {
	Collection   string        `yaml:"collection"`
	Doc          string        `yaml:"doc"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

type DocsConfig struct {
	Dir    string `yaml:"dir"`
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// AlertConfig enables the "cart left open" mail sent through SendGrid when a
// scheduled close fails.
type AlertConfig struct {
	SendGridAPIKey string   `yaml:"sendgridApiKey"`
	From           string   `yaml:"from"`
	To             []string `yaml:"to"`
}

func (a AlertConfig) Enabled() bool {
	return strings.TrimSpace(a.SendGridAPIKey) != "" && strings.TrimSpace(a.From) != "" && len(a.To) > 0
}

// WatchConfig describes one watched collection: documents of Collection with
// Field > 0, reverting the cart to closed CloseDelay after an open.
type WatchConfig struct {
	Name       string        `yaml:"name"`
	Collection string        `yaml:"collection"`
	Field      string        `yaml:"field"`
	CloseDelay time.Duration `yaml:"closeDelay"`
}

const (
	defaultPort              = "8000"
	defaultHTTPSPort         = "8001"
	defaultCredentialsFile   = "serviceAccount.json"
	defaultStateCollection   = "open"
	defaultStateDoc          = "sesame"
	defaultStateWriteTimeout = 10 * time.Second
	defaultDocsDir           = "swagger-ui/dist"
	defaultLogLevel          = "info"
)

// DefaultWatches are the cart and order feeds.
func DefaultWatches() []WatchConfig {
	return []WatchConfig{
		{Name: "cart", Collection: "cart", Field: "price", CloseDelay: 3 * time.Second},
		{Name: "order", Collection: "order", Field: "total", CloseDelay: 15 * time.Second},
	}
}

// Load reads the optional YAML file at path and then applies environment
// variables on top of it. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if p := strings.TrimSpace(path); p != "" {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", p, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", p, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setIfEnv(&cfg.Server.Port, "PORT")
	setIfEnv(&cfg.Server.HTTPS.Port, "HTTPS_PORT")
	setIfEnv(&cfg.Server.HTTPS.Cert, "HTTPS_CERT")
	setIfEnv(&cfg.Server.HTTPS.Key, "HTTPS_KEY")
	setIfEnv(&cfg.Server.HTTPS.CA, "HTTPS_CA")
	if v := strings.TrimSpace(os.Getenv("CART_API_REQUIRE_AUTH")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: CART_API_REQUIRE_AUTH: %w", err)
		}
		cfg.Server.RequireAuth = b
	}

	setIfEnv(&cfg.Papertrail.Host, "PAPERTRAIL_HOST")
	setIfEnv(&cfg.Papertrail.Port, "PAPERTRAIL_PORT")

	setIfEnv(&cfg.Log.Level, "LOG_LEVEL")
	setIfEnv(&cfg.Log.File, "LOG_FILE")

	// project id priority: FIRESTORE_PROJECT_ID > GOOGLE_CLOUD_PROJECT > FIREBASE_PROJECT_ID
	if cfg.Firestore.ProjectID == "" {
		for _, k := range []string{"GOOGLE_CLOUD_PROJECT", "FIREBASE_PROJECT_ID"} {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				cfg.Firestore.ProjectID = v
				break
			}
		}
	}
	setIfEnv(&cfg.Firestore.ProjectID, "FIRESTORE_PROJECT_ID")
	setIfEnv(&cfg.Firestore.CredentialsFile, "FIREBASE_CREDENTIALS_FILE")
	setIfEnv(&cfg.Firestore.CredentialsSecret, "FIREBASE_CREDENTIALS_SECRET")

	setIfEnv(&cfg.State.Collection, "STATE_COLLECTION")
	setIfEnv(&cfg.State.Doc, "STATE_DOC")
	if v := strings.TrimSpace(os.Getenv("WRITE_TIMEOUT")); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("config: WRITE_TIMEOUT: %w", err)
		}
		cfg.State.WriteTimeout = d
	}

	setIfEnv(&cfg.Docs.Dir, "DOCS_DIR")
	setIfEnv(&cfg.Docs.Bucket, "DOCS_BUCKET")
	setIfEnv(&cfg.Docs.Prefix, "DOCS_PREFIX")

	setIfEnv(&cfg.Alert.SendGridAPIKey, "SENDGRID_API_KEY")
	setIfEnv(&cfg.Alert.From, "SENDGRID_FROM")
	if v := strings.TrimSpace(os.Getenv("ALERT_EMAIL_TO")); v != "" {
		cfg.Alert.To = splitCSV(v)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = defaultPort
	}
	if cfg.Server.HTTPS.Port == "" {
		cfg.Server.HTTPS.Port = defaultHTTPSPort
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Firestore.CredentialsFile == "" && cfg.Firestore.CredentialsSecret == "" {
		// same lookup the admin SDK bootstrap used to do: ./serviceAccount.json if present
		if fileExists(defaultCredentialsFile) {
			cfg.Firestore.CredentialsFile = defaultCredentialsFile
		}
	}
	if cfg.State.Collection == "" {
		cfg.State.Collection = defaultStateCollection
	}
	if cfg.State.Doc == "" {
		cfg.State.Doc = defaultStateDoc
	}
	if cfg.State.WriteTimeout <= 0 {
		cfg.State.WriteTimeout = defaultStateWriteTimeout
	}
	if cfg.Docs.Dir == "" {
		cfg.Docs.Dir = defaultDocsDir
	}
	if len(cfg.Watches) == 0 {
		cfg.Watches = DefaultWatches()
	}
}

// Validate checks the watch list and the HTTPS pairing.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: nil")
	}
	seen := make(map[string]struct{}, len(c.Watches))
	for i, w := range c.Watches {
		name := strings.TrimSpace(w.Name)
		if name == "" || strings.TrimSpace(w.Collection) == "" || strings.TrimSpace(w.Field) == "" {
			return fmt.Errorf("config: watches[%d]: name, collection and field are required", i)
		}
		if w.CloseDelay <= 0 {
			return fmt.Errorf("config: watches[%d] (%s): closeDelay must be positive", i, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("config: watches[%d]: duplicate name %q", i, name)
		}
		seen[name] = struct{}{}
	}
	if c.Server.HTTPS.Cert != "" && c.Server.HTTPS.Key == "" {
		return errors.New("config: server.https.key is required when server.https.cert is set")
	}
	return nil
}

// HTTPSEnabled reports whether the configured certificate exists on disk.
func (c *Config) HTTPSEnabled() bool {
	return c != nil && c.Server.HTTPS.Cert != "" && fileExists(c.Server.HTTPS.Cert)
}

func setIfEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// parseDuration accepts Go durations ("3s") or bare milliseconds ("3000").
func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}

// splitCSV parses "a,b,c" / "a, b, c"; empty items are dropped.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
