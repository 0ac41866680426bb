// internal/cli/serve.go
package cli

import (
	"context"
	"crypto/tls"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httpin "github.com/azaky/cartserver/internal/adapters/in/http"
	"github.com/azaky/cartserver/internal/infra/config"
	"github.com/azaky/cartserver/internal/platform/di"
)

const shutdownTimeout = 25 * time.Second

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the relay and the HTTP(S) servers (default)",
		Long: `Start the Firestore watchers and the HTTP server. An HTTPS server is started
as well when server.https.cert points to an existing file.

Example:
  cartserver serve --config cartserver.yaml
  PORT=9000 cartserver`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), rootOpts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, err := boot(opts)
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Logger.Named("boot")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cont, err := di.NewContainer(ctx, cfg, logger.Logger)
	if err != nil {
		log.Error("di init failed", zap.Error(err))
		return err
	}
	defer cont.Close()

	handler := httpin.NewRouter(cont.RouterDeps())

	servers := []*http.Server{newServer(":"+cfg.Server.Port, handler)}
	if cfg.HTTPSEnabled() {
		tlsCfg, err := loadTLS(cfg.Server.HTTPS)
		if err != nil {
			return err
		}
		srv := newServer(":"+cfg.Server.HTTPS.Port, handler)
		srv.TLSConfig = tlsCfg
		servers = append(servers, srv)
	}

	g, gctx := errgroup.WithContext(ctx)

	// relay の終了はサーバを止めない
	g.Go(func() error {
		if err := cont.Relay.Run(gctx); err != nil {
			log.Error("relay stopped", zap.Error(err))
		}
		return nil
	})

	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			var err error
			if srv.TLSConfig != nil {
				log.Info("https: cartserver started", zap.String("addr", srv.Addr))
				err = srv.ListenAndServeTLS("", "")
			} else {
				log.Info("cartserver started", zap.String("addr", srv.Addr))
				err = srv.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("server shutdown error", zap.String("addr", srv.Addr), zap.Error(err))
			}
		}
		return nil
	})

	err = g.Wait()

	// watchers have returned; no new opens can be scheduled past this point
	cont.Actuator.Shutdown()
	log.Info("server stopped")
	return err
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// loadTLS reads the certificate pair. An optional CA file is appended to the
// served chain.
func loadTLS(c config.HTTPSConfig) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(c.Cert, c.Key)
	if err != nil {
		return nil, fmt.Errorf("https: load key pair: %w", err)
	}
	if c.CA != "" {
		raw, err := os.ReadFile(c.CA)
		if err != nil {
			return nil, fmt.Errorf("https: read ca: %w", err)
		}
		var n int
		for {
			var block *pem.Block
			block, raw = pem.Decode(raw)
			if block == nil {
				break
			}
			if block.Type == "CERTIFICATE" {
				cert.Certificate = append(cert.Certificate, block.Bytes)
				n++
			}
		}
		if n == 0 {
			return nil, fmt.Errorf("https: no certificates in %s", c.CA)
		}
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
