package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/noelruault/lazylinode/internal/config"
	"github.com/noelruault/lazylinode/internal/linode"
	"github.com/noelruault/lazylinode/internal/logging"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// cobra already printed the error.
		stop()
		os.Exit(1)
	}
}

// rootOptions is the state shared by every command once flags are parsed.
type rootOptions struct {
	configFile string
	output     string

	cfg       *config.Config
	client    *linode.Client
	logCloser io.Closer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lazylinode",
		Short: "A terminal console for Linode Managed Services and images",
		Long: `lazylinode lists and edits the Managed Services resources of a Linode
account (monitors, contacts, credentials and per-Linode settings) and
browses its images.

Running without a subcommand in a terminal launches the interactive TUI.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logCloser != nil {
				return opts.logCloser.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return cmd.Help()
			}
			// The TUI owns the screen, so logs go to the log file or nowhere.
			if err := opts.setupLogging(opts.cfg.LogLevel, opts.cfg.LogFile, io.Discard); err != nil {
				return err
			}
			return runTUI(cmd.Context(), opts.cfg, opts.client)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is <user config dir>/lazylinode/lazylinode.yaml or ./lazylinode.yaml)")
	flags.StringVarP(&opts.output, "output", "o", outputTable, `output format for list commands ("table" or "json")`)
	flags.String("api-root", config.DefaultAPIRoot, "API root URL")
	flags.String("token", "", "personal access token (default from LINODE_TOKEN)")
	flags.Duration("timeout", 30*time.Second, "HTTP timeout per request")
	flags.Int("page-size", 100, "page size used when listing")
	flags.String("log-level", "info", `log level ("debug", "info", "warn", "error")`)
	flags.String("log-file", "", "write logs to this file")

	cmd.AddCommand(newManagedCmd(opts))
	cmd.AddCommand(newImagesCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

// load resolves configuration, sets up logging and builds the API client.
func (o *rootOptions) load(cmd *cobra.Command) error {
	if o.output != outputTable && o.output != outputJSON {
		return fmt.Errorf("unsupported output format %q", o.output)
	}

	cfg, err := config.Load(cmd, o.configFile)
	if err != nil {
		return err
	}
	if err := o.setupLogging(cfg.LogLevel, cfg.LogFile, cmd.ErrOrStderr()); err != nil {
		return err
	}
	o.cfg = cfg
	o.client = linode.NewClient(cfg)
	if !o.client.HasToken() {
		logging.Debugf("no API token configured, requests are unauthenticated")
	}
	return nil
}

// setupLogging points the logger at file or w, releasing any log file
// opened by an earlier call.
func (o *rootOptions) setupLogging(level, file string, w io.Writer) error {
	closer, err := logging.Setup(level, file, w)
	if err != nil {
		return err
	}
	if o.logCloser != nil {
		if err := o.logCloser.Close(); err != nil {
			logging.Warnf("failed to close previous log file: %v", err)
		}
	}
	o.logCloser = closer
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", arg)
	}
	return id, nil
}
