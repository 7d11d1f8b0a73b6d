package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pfrederiksen/savedplaces/internal/config"
	"github.com/pfrederiksen/savedplaces/internal/logger"
	"github.com/pfrederiksen/savedplaces/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

// flagKeys maps command-line flags to the config keys they override.
// Flags that a command does not define are ignored.
var flagKeys = []struct {
	flag string
	key  string
}{
	{"store", "store.path"},
	{"store-driver", "store.driver"},
	{"log-level", "log.level"},
	{"log-format", "log.format"},
	{"summary-format", "summary.format"},
	{"input", "resolve.input"},
	{"api-key", "maps.api_key"},
	{"delay", "resolve.delay"},
	{"format", "export.format"},
	{"output", "export.output"},
	{"echo", "export.echo"},
	{"sort", "export.sort"},
}

// app carries state shared by all subcommands of one invocation
type app struct {
	configFile string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "savedplaces",
		Short: "Turn saved map places into a contact list",
		Long: `A CLI tool that turns a Google Takeout "Saved" places export into a contact list.

Run the stages in order:
  savedplaces resolve          look up every saved place and store its details
  savedplaces harvest-emails   scrape each place's website for email addresses
  savedplaces export-contacts  write the name/address/phone/emails report`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	// Define flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (default: ./config.yaml or $XDG_CONFIG_HOME/savedplaces/config.yaml)")
	pf.String("store", "", "Store path (default: $XDG_DATA_HOME/savedplaces/places)")
	pf.String("store-driver", "", "Store driver: file or sqlite")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: console or json")
	pf.String("summary-format", "", "Run summary format: text, json or yaml")
	pf.BoolVar(&a.verbose, "verbose", false, "List every item in the text summary")

	cmd.AddCommand(
		a.newResolveCmd(),
		a.newHarvestCmd(),
		a.newExportCmd(),
		newVersionCmd(),
	)

	return cmd
}

// setup loads configuration and installs the logger before any subcommand runs
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	bindings := make([]config.Binding, 0, len(flagKeys))
	for _, fk := range flagKeys {
		if f := cmd.Flags().Lookup(fk.flag); f != nil {
			bindings = append(bindings, config.Binding{Key: fk.key, Flag: f})
		}
	}

	cfg, err := config.Load(a.configFile, bindings...)
	if err != nil {
		return err
	}

	log, err := logger.Init(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.log.Debug("configuration loaded",
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("store_path", cfg.StorePath()),
	)
	return nil
}

// openStore opens the configured store. Only resolve may create it.
func (a *app) openStore(ctx context.Context, create bool) (storage.Store, error) {
	store, err := storage.Open(ctx, storage.Options{
		Driver: a.cfg.Store.Driver,
		Path:   a.cfg.StorePath(),
		Create: create,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "opening %s store at %s", a.cfg.Store.Driver, a.cfg.StorePath())
	}
	return store, nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	_ = zap.L().Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
