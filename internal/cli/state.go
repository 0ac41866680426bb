// internal/cli/state.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	fs "github.com/azaky/cartserver/internal/adapters/out/firestore"
	"github.com/azaky/cartserver/internal/application/relay"
	cartdom "github.com/azaky/cartserver/internal/domain/cart"
	firestoreinfra "github.com/azaky/cartserver/internal/infra/firestore"
)

// NewStateCommand creates "state open|close|get" for one-shot manual control.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "state <open|close|get>",
		Short: "Write or read the cart state document once",
		Long: `Write the cart state without running the watchers, or print the
current value.

Example:
  cartserver state open
  cartserver state get --config cartserver.yaml`,
		ValidArgs:     []string{"open", "close", "get"},
		Args:          cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runState(ctx, rootOpts, args[0], func(s string) {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			})
		},
	}
}

func runState(ctx context.Context, opts *RootOptions, action string, out func(string)) error {
	cfg, logger, err := boot(opts)
	if err != nil {
		return err
	}
	defer logger.Close()

	client, err := firestoreinfra.NewClient(ctx, cfg.Firestore.ProjectID, firestoreinfra.Credentials{
		File:   cfg.Firestore.CredentialsFile,
		Secret: cfg.Firestore.CredentialsSecret,
	}, logger.Named("firestore"))
	if err != nil {
		return err
	}
	defer client.Close()

	repo := fs.NewCartStateRepositoryFS(client.Client, cfg.State.Collection, cfg.State.Doc)
	return applyState(ctx, repo, action, cfg.State.WriteTimeout, logger.Logger, out)
}

// applyState runs one action against repo. Writes go through the actuator so
// they get the same timeout and logging as the server's.
func applyState(ctx context.Context, repo cartdom.Repository, action string, timeout time.Duration, log *zap.Logger, out func(string)) error {
	switch action {
	case "get":
		st, err := repo.Get(ctx)
		if errors.Is(err, cartdom.ErrStateNotFound) {
			out(cartdom.LabelOf(false))
			return nil
		}
		if err != nil {
			return err
		}
		out(st.Label())
		return nil
	case "open", "close":
		act, err := relay.NewActuator(repo, nil,
			relay.WithWriteTimeout(timeout),
			relay.WithLogger(log.Named("relay.actuator")),
		)
		if err != nil {
			return err
		}
		open := action == "open"
		if err := act.SetState(ctx, open); err != nil {
			return err
		}
		out("cart " + cartdom.LabelOf(open))
		return nil
	default:
		return fmt.Errorf("unknown state action %q", action)
	}
}
