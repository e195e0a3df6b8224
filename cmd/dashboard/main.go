package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"announcement-dashboard/config"
	"announcement-dashboard/internal/app"
	"announcement-dashboard/internal/dashboard"
	"announcement-dashboard/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Discord announcement dashboard",
		Long:          "Serve and preview the dashboard that manages stream and YouTube go-live announcements per Discord guild.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.json", "path to the JSON or YAML config file")

	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(previewCmd(&configPath))
	return root
}

func serveCmd(configPath *string) *cobra.Command {
	var logDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx, app.Options{
				ConfigPath: *configPath,
				LogDir:     logDir,
			})
		},
	}
	cmd.Flags().StringVar(&logDir, "log-dir", "data", "directory for dashboard.log and archived logs")
	return cmd
}

func previewCmd(configPath *string) *cobra.Command {
	var (
		guild  string
		editID string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a guild's dashboard page to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			dash, err := app.BuildDashboard(cfg, logging.WithPrefix(logging.NewWithWriter(cmd.ErrOrStderr()), "preview: "))
			if err != nil {
				return err
			}
			if err := dash.RenderPage(cmd.Context(), cmd.OutOrStdout(), dashboard.PageOptions{GuildID: guild, EditID: editID}); err != nil {
				return fmt.Errorf("preview %s: %w", guild, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&guild, "guild", "", "guild id to render")
	cmd.Flags().StringVar(&editID, "edit", "", "announcement id to open in edit mode")
	_ = cmd.MarkFlagRequired("guild")
	return cmd
}
