package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vipinkashyap/go-guardian/internal/refresh"
)

func init() {
	flags := &probeFlags{}
	cmd := &cobra.Command{
		Use:   "watch <path>",
		Short: "Re-decide a path whenever the route table changes on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]
			if err := checkPath(flags, path); err != nil {
				return err
			}

			source, err := refresh.NewFileSource(flags.configPath)
			if err != nil {
				return err
			}
			agg := refresh.New(func() {
				if err := checkPath(flags, path); err != nil {
					fmt.Fprintf(os.Stderr, "re-check failed: %v\n", err)
				}
			})
			defer agg.Close()
			agg.AttachNotifier(source)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return source.Run(ctx)
		},
	}
	flags.register(cmd)
	rootCmd.AddCommand(cmd)
}
