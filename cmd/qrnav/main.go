package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"qrnav/internal/bootstrap"
	navdto "qrnav/internal/modules/navigate/dto"
	"qrnav/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataDir    string
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "qrnav",
		Short:         "Checkpoint QR navigation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data", ".", "data directory (routes.yaml, media/, qrnav.yaml)")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "settings file (default <data>/qrnav.yaml)")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newScanCmd(flags))
	root.AddCommand(newRouteCmd(flags))
	root.AddCommand(newVoiceCmd(flags))
	return root
}

func loadApp(ctx context.Context, flags *rootFlags, opts bootstrap.Options) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.dataDir, flags.configPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, opts)
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the navigation terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
}

func newScanCmd(flags *rootFlags) *cobra.Command {
	var destination string
	var limit int

	scan := &cobra.Command{
		Use:   "scan",
		Short: "Scan checkpoints headless and print guidance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(destination) == "" {
				return fmt.Errorf("--destination is required")
			}
			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := loadApp(sigCtx, flags, bootstrap.Options{Headless: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ctx, cancel := context.WithCancel(sigCtx)
			defer cancel()
			out := cmd.OutOrStdout()
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				defer cancel()
				return app.NavigateCLI.Follow(gctx, destination, limit, func(d navdto.DisplayOutput) {
					printDisplay(out, d)
				})
			})
			g.Go(func() error {
				<-gctx.Done()
				return app.Close()
			})
			return g.Wait()
		},
	}
	scan.Flags().StringVar(&destination, "destination", "", "destination to navigate to")
	scan.Flags().IntVar(&limit, "limit", 0, "stop after this many guidance lines (0 = until interrupted)")

	scan.AddCommand(&cobra.Command{
		Use:   "inspect <image>",
		Short: "Decode the QR codes in an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{Headless: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			codes, err := app.ScanCLI.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(codes) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no codes found")
				return nil
			}
			for _, c := range codes {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%q checkpoint=%t\n", c.Text, c.Checkpoint)
			}
			return nil
		},
	})
	return scan
}

func printDisplay(out io.Writer, d navdto.DisplayOutput) {
	line := d.Text
	if d.MediaRef != "" {
		line += "  [" + d.MediaRef + "]"
	}
	if d.Spoken {
		line += "  (spoken)"
	}
	_, _ = fmt.Fprintln(out, line)
}

func newRouteCmd(flags *rootFlags) *cobra.Command {
	route := &cobra.Command{Use: "route", Short: "Instruction table commands"}

	route.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List indexed instructions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{Headless: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			items, err := app.RouteCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "destinations: %s\n", strings.Join(app.RouteCLI.Destinations(cmd.Context()), ", "))
			for _, it := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", it.CheckpointID, it.DestinationID, it.Text, it.MediaRef)
			}
			return nil
		},
	})

	route.AddCommand(&cobra.Command{
		Use:   "resolve <checkpoint> [destination]",
		Short: "Resolve the instruction for a checkpoint",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{Headless: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			destination := ""
			if len(args) == 2 {
				destination = args[1]
			}
			out, err := app.RouteCLI.Resolve(cmd.Context(), args[0], destination)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "kind=%s text=%q media=%s\n", out.Kind, out.Text, out.MediaRef)
			return nil
		},
	})

	route.AddCommand(&cobra.Command{
		Use:   "reindex",
		Short: "Reload routes.yaml and rebuild the SQLite index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{Headless: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.RouteCLI.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindex completed source=%s instructions=%d destinations=%d\n", out.Source, out.Instructions, out.Destinations)
			return nil
		},
	})
	return route
}

func newVoiceCmd(flags *rootFlags) *cobra.Command {
	voice := &cobra.Command{Use: "voice", Short: "Speech engine commands"}

	voice.AddCommand(&cobra.Command{
		Use:   "say <text>",
		Short: "Speak text with the configured engine",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{Headless: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return app.VoiceCLI.Say(cmd.Context(), strings.Join(args, " "))
		},
	})

	voice.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Report the speech engine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context(), flags, bootstrap.Options{Headless: true})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			info, err := app.VoiceCLI.Check(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "engine=%s name=%s version=%s\n", info.Engine, info.Name, info.Version)
			return nil
		},
	})
	return voice
}
