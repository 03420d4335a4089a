package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/five82/popview/internal/app"
	"github.com/five82/popview/internal/config"
)

var exampleUsage = strings.TrimSpace(`
  popview
  popview --storage badger --theme Kanagawa
  popview states
  popview show Ohio --select
  popview favorites add Nevada Texas
  popview logs -n 50 --level warn
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(os.Getenv)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "popview: %v\n", err)
		return 1
	}
	return 0
}

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	configPath  string
	apiURL      string
	timeout     time.Duration
	storage     string
	storagePath string
	logFile     string
	logLevel    string
	theme       string
	ephemeral   bool

	getenv func(string) string
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	root, _ := newRoot(getenv)
	return root
}

func newRoot(getenv func(string) string) (*cobra.Command, *rootFlags) {
	flags := &rootFlags{getenv: getenv}

	root := &cobra.Command{
		Use:   "popview",
		Short: "Browse U.S. state population data from DataUSA",
		Long: strings.TrimSpace(`
Browse population by year for every U.S. state, keep a list of favorite
states, and chart the selected state, in your terminal.

Data comes from the DataUSA public API (https://datausa.io). The selected
state, favorites and theme are saved between runs.`),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stdioIsTerminal() {
				return fmt.Errorf("the interactive view needs a terminal; try `popview states` or `popview show <state>`")
			}
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), app.Options{Config: cfg, Ephemeral: flags.ephemeral, Version: getVersion()})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/popview/config.toml)")
	pf.StringVar(&flags.apiURL, "api-url", "", "DataUSA base URL")
	pf.DurationVar(&flags.timeout, "timeout", 0, "per-request timeout (default 10s)")
	pf.StringVar(&flags.storage, "storage", "", "preference backend: file, badger or memory")
	pf.StringVar(&flags.storagePath, "storage-path", "", "preference store file or badger directory")
	pf.StringVar(&flags.logFile, "log-file", "", "log file for the interactive view")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&flags.theme, "theme", "", "UI theme: Nightfox, Kanagawa or Slate")
	pf.BoolVar(&flags.ephemeral, "ephemeral", false, "keep preferences in memory only")

	root.AddCommand(
		newStatesCmd(flags),
		newShowCmd(flags),
		newFavoritesCmd(flags),
		newLogsCmd(flags),
	)
	return root, flags
}

// resolve builds the effective config: defaults, then the config file, then
// POPVIEW_* variables, then flags the user actually set.
func (f *rootFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	getenv := f.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if err := config.ApplyEnv(&cfg, getenv); err != nil {
		return config.Config{}, err
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(fl *pflag.Flag) { changed[fl.Name] = true })

	if changed["api-url"] {
		cfg.APIURL = f.apiURL
	}
	if changed["timeout"] {
		if f.timeout <= 0 {
			return config.Config{}, fmt.Errorf("--timeout must be positive")
		}
		cfg.RequestTimeout = f.timeout
	}
	if changed["storage"] {
		cfg.Storage = f.storage
	}
	if changed["storage-path"] {
		cfg.StoragePath = f.storagePath
	}
	if changed["log-file"] {
		cfg.LogFile = f.logFile
	}
	if changed["log-level"] {
		cfg.LogLevel = f.logLevel
	}
	if changed["theme"] {
		cfg.Theme = f.theme
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

var stdioIsTerminal = func() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
