package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ethanolivertroy/eso-addons/internal/cache"
	"github.com/ethanolivertroy/eso-addons/internal/clients"
	"github.com/ethanolivertroy/eso-addons/internal/config"
	"github.com/ethanolivertroy/eso-addons/internal/installer"
	"github.com/ethanolivertroy/eso-addons/internal/manager"
	"github.com/ethanolivertroy/eso-addons/internal/models"
)

const appName = "eso-addons"

var (
	flagConfig  string
	flagVerbose bool
	flagNoCache bool
	flagTimeout int
	flagRate    float64
)

// httpClient overrides the fetcher's client when set
var httpClient *http.Client

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "eso-addons",
	Short: "Manage Elder Scrolls Online addons from esoui.com",
	Long: `eso-addons keeps an ESO AddOns directory in line with a list of
desired addons stored in a TOML config file.

It installs addons from their esoui.com pages, removes them, reports
missing and unused dependencies, and cleans up addons that are not
in the config.

Examples:
  # Show what is installed, missing and unused
  eso-addons list

  # Install an addon and add it to the config
  eso-addons add https://www.esoui.com/downloads/info1360-CombatMetrics

  # Reinstall every configured addon
  eso-addons update

  # Remove addons that are not in the config
  eso-addons clean --remove`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", models.DefaultConfigFile(), "Path to the config file")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Print debug logs to stderr")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Do not cache addon pages")
	pf.IntVar(&flagTimeout, "timeout", 60, "HTTP request timeout in seconds")
	pf.Float64Var(&flagRate, "rate", 2, "Maximum HTTP requests per second (0 for unlimited)")
}

// app holds everything a command needs
type app struct {
	cfg     *models.Config
	desired *models.Desired
	manager *manager.Manager
	cache   *cache.Cache
	logger  *log.Logger
}

func runtimeConfig() *models.Config {
	cfg := models.DefaultConfig()
	cfg.ConfigFile = flagConfig
	cfg.Verbose = flagVerbose
	cfg.NoCache = flagNoCache
	cfg.Timeout = time.Duration(flagTimeout) * time.Second
	cfg.RequestsPerSecond = flagRate
	cfg.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
	return cfg
}

func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: appName})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

func newCache(cfg *models.Config, logger *log.Logger) *cache.Cache {
	dir, err := cache.DefaultDir(appName)
	if err != nil {
		logger.Warn("Page cache disabled", "err", err)
		return nil
	}
	c, err := cache.New(dir, cfg.CacheTTL)
	if err != nil {
		// Non-fatal: continue without cache
		logger.Warn("Page cache disabled", "err", err)
		return nil
	}
	return c
}

// newApp loads the config file and wires the addon manager
func newApp() (*app, error) {
	cfg := runtimeConfig()
	logger := newLogger(cfg.Verbose)

	desired, err := config.Load(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}

	var c *cache.Cache
	if !cfg.NoCache {
		c = newCache(cfg, logger)
	}

	fetcher := clients.NewFetcher(clients.FetcherOptions{
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		HTTPClient:        httpClient,
		Logger:            logger,
	})
	resolver := clients.NewResolver(fetcher, c, cfg.CDNPrefix, logger)
	inst := installer.New(fetcher, logger)

	return &app{
		cfg:     cfg,
		desired: desired,
		manager: manager.New(desired.AddonDir, resolver, inst, logger),
		cache:   c,
		logger:  logger,
	}, nil
}

func (a *app) saveConfig() error {
	if err := config.Save(a.cfg.ConfigFile, a.desired); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
