package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/smartmix/internal/app"
)

var (
	configPath  string
	prefsPath   string
	pollSeconds int
	server      string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "smartmix",
	Short: "Smart Mix editor for the MusicSimilarity plugin",
	Long: `smartmix edits the saved Smart Mixes of an LMS MusicSimilarity plugin.

Run without a subcommand to open the terminal editor. The subcommands talk to
the server directly and print plain text.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file path (default ~/.config/smartmix/config.toml)")
	flags.StringVar(&prefsPath, "prefs", "", "preferences file path (default ~/.config/smartmix/prefs.toml)")
	flags.IntVar(&pollSeconds, "poll", 0, "saved mix refresh interval in seconds")
	flags.StringVar(&server, "server", "", "LMS server URL, overrides the config file")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "smartmix error: %v\n", err)
		os.Exit(1)
	}
}

func options() app.Options {
	return app.Options{
		ConfigPath: configPath,
		PrefsPath:  prefsPath,
		PollEvery:  pollSeconds,
		Server:     server,
		LogLevel:   logLevel,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	return app.Run(cmd.Context(), options())
}

// setup builds the environment for a subcommand. Warnings also go to stderr.
func setup(cmd *cobra.Command) (*app.Env, error) {
	opts := options()
	opts.Console = cmd.ErrOrStderr()
	return app.Setup(opts)
}
