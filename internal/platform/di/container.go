// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	httpin "github.com/azaky/cartserver/internal/adapters/in/http"
	"github.com/azaky/cartserver/internal/adapters/in/http/middleware"
	fs "github.com/azaky/cartserver/internal/adapters/out/firestore"
	"github.com/azaky/cartserver/internal/adapters/out/gcs"
	"github.com/azaky/cartserver/internal/adapters/out/mail"
	"github.com/azaky/cartserver/internal/adapters/out/static"
	"github.com/azaky/cartserver/internal/application/relay"
	cartdom "github.com/azaky/cartserver/internal/domain/cart"
	catalogdom "github.com/azaky/cartserver/internal/domain/catalog"
	docsdom "github.com/azaky/cartserver/internal/domain/docs"
	"github.com/azaky/cartserver/internal/domain/watch"
	"github.com/azaky/cartserver/internal/infra/config"
	firestoreinfra "github.com/azaky/cartserver/internal/infra/firestore"
	"github.com/azaky/cartserver/internal/infra/metrics"
)

const pingTimeout = 5 * time.Second

// Container は main.go から使う依存オブジェクトの束。
type Container struct {
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics

	Firestore *firestoreinfra.ClientWrapper
	CartState cartdom.Repository
	Actuator  *relay.Actuator
	Relay     *relay.Relay
	Catalog   *catalogdom.Catalog
	Docs      docsdom.Store

	tokenVerifier middleware.TokenVerifier
	closers       []func() error
}

// NewContainer wires every dependency from cfg. Only the Firestore client is
// mandatory; docs and auth degrade with a warning.
func NewContainer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("di: config is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &Container{
		Config:  cfg,
		Log:     log,
		Metrics: metrics.New(),
		Catalog: catalogdom.Default(),
	}

	// ------------------------------------------------------------
	// 1. Firestore / Firebase Admin
	// ------------------------------------------------------------
	fsClient, err := firestoreinfra.NewClient(ctx, cfg.Firestore.ProjectID, firestoreinfra.Credentials{
		File:   cfg.Firestore.CredentialsFile,
		Secret: cfg.Firestore.CredentialsSecret,
	}, log.Named("firestore"))
	if err != nil {
		return nil, err
	}
	c.Firestore = fsClient
	c.closers = append(c.closers, fsClient.Close)

	pingFirestore(ctx, fsClient, log)

	// ------------------------------------------------------------
	// 2. Repositories (outbound adapters)
	// ------------------------------------------------------------
	c.CartState = fs.NewCartStateRepositoryFS(fsClient.Client, cfg.State.Collection, cfg.State.Doc)
	source := fs.NewSnapshotSourceFS(fsClient.Client)

	// ------------------------------------------------------------
	// 3. Relay
	// ------------------------------------------------------------
	actOpts := []relay.ActuatorOption{
		relay.WithWriteTimeout(cfg.State.WriteTimeout),
		relay.WithMetrics(c.Metrics),
		relay.WithLogger(log.Named("relay.actuator")),
	}
	if alerter := buildAlerter(cfg.Alert, log); alerter != nil {
		actOpts = append(actOpts, relay.WithAlerter(alerter))
	}
	c.Actuator, err = relay.NewActuator(c.CartState, relay.NewCloseScheduler(nil), actOpts...)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	targets, err := Watches(cfg.Watches)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Relay, err = relay.New(targets, source, c.Actuator, log.Named("relay"), c.Metrics)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	// ------------------------------------------------------------
	// 4. Docs / Auth (optional)
	// ------------------------------------------------------------
	c.Docs = c.buildDocs(ctx)

	if cfg.Server.RequireAuth {
		authClient, err := fsClient.App.Auth(ctx)
		if err != nil {
			// FirebaseAuth middleware returns 503 with a nil verifier
			log.Error("firebase auth init failed; /cart routes will answer 503", zap.Error(err))
		} else {
			c.tokenVerifier = authClient
		}
	}

	return c, nil
}

func (c *Container) buildDocs(ctx context.Context) docsdom.Store {
	bucket := strings.TrimSpace(c.Config.Docs.Bucket)
	if bucket == "" {
		c.Log.Info("serving docs from directory", zap.String("dir", c.Config.Docs.Dir))
		return static.NewDocsRepositoryDir(c.Config.Docs.Dir)
	}

	client, err := storage.NewClient(ctx, c.Firestore.Options()...)
	if err != nil {
		c.Log.Warn("storage client init failed; falling back to docs directory",
			zap.String("bucket", bucket), zap.Error(err))
		return static.NewDocsRepositoryDir(c.Config.Docs.Dir)
	}
	c.closers = append(c.closers, client.Close)
	c.Log.Info("serving docs from bucket", zap.String("bucket", bucket), zap.String("prefix", c.Config.Docs.Prefix))
	return gcs.NewDocsRepositoryGCS(client, bucket, c.Config.Docs.Prefix)
}

// buildAlerter returns nil when alert mail is not configured.
type pinger interface {
	Ping(ctx context.Context) error
}

// 疎通確認（失敗しても続行: listener 側でエラーが出る）
func pingFirestore(ctx context.Context, p pinger, log *zap.Logger) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		log.Warn("firestore ping failed; continuing", zap.Error(err))
		return false
	}
	return true
}

func buildAlerter(cfg config.AlertConfig, log *zap.Logger) *mail.AlertMailer {
	if !cfg.Enabled() {
		log.Info("cart-left-open alert mail disabled (SENDGRID_API_KEY / SENDGRID_FROM / ALERT_EMAIL_TO)")
		return nil
	}
	client, err := mail.NewSendGridClient(cfg.SendGridAPIKey, "cartserver", log.Named("mail"))
	if err != nil {
		log.Warn("sendgrid client init failed; alert mail disabled", zap.Error(err))
		return nil
	}
	return mail.NewAlertMailer(client, cfg.From, cfg.To)
}

// RouterDeps は HTTP 層へ渡す依存を返す。
func (c *Container) RouterDeps() httpin.RouterDeps {
	return httpin.RouterDeps{
		Actuator:      c.Actuator,
		CartState:     c.CartState,
		Catalog:       c.Catalog,
		Docs:          c.Docs,
		Metrics:       c.Metrics,
		Logger:        c.Log,
		RequireAuth:   c.Config.Server.RequireAuth,
		TokenVerifier: c.tokenVerifier,
	}
}

// Close releases clients in reverse order of creation.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Watches converts configured watches into domain values.
func Watches(in []config.WatchConfig) ([]watch.Collection, error) {
	out := make([]watch.Collection, 0, len(in))
	for i, w := range in {
		c := watch.Collection{
			Name:       strings.TrimSpace(w.Name),
			Collection: strings.TrimSpace(w.Collection),
			Field:      strings.TrimSpace(w.Field),
			CloseDelay: w.CloseDelay,
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("di: watches[%d]: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}
