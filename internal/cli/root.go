package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"addrscene/internal/assets"
	"addrscene/internal/config"
	"addrscene/internal/scenedata"
	"addrscene/internal/ui"
	"addrscene/internal/world"
)

var (
	configPath string
	quiet      bool

	appConfig *config.Config
	catalog   *assets.Catalog
	store     *scenedata.Store
	logger    *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scenedata",
	Short: "Record and restore addressable asset placements",
	Long: ui.FormatTitle("scenedata") + " - addressable scene records\n\n" +
		"Scans scenes for instances of addressable prefabs, stores their\n" +
		"placement in a per-scene data file and instantiates them back.",
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(instantiateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(verifyCmd)
}

func initializeApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	appConfig = cfg
	ui.SetTheme(cfg.ColorTheme)

	if quiet {
		logger = log.New(io.Discard, "", 0)
	} else {
		logger = log.New(os.Stderr, "addrscene: ", log.LstdFlags)
	}

	catalog, err = assets.LoadCatalog(cfg.CatalogPath())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	root, err := cfg.DataRoot()
	if err != nil {
		return err
	}
	store = scenedata.NewStore(root, cfg.Extension, logger)
	return nil
}

// newSession wires a headless session over w using the loaded catalog and
// store.
func newSession(w *world.World) *scenedata.Session {
	return scenedata.NewSession(scenedata.SessionConfig{
		Scene:     w.Scene,
		Destroyer: w,
		Registry:  catalog,
		Loader:    assets.NewLoader(catalog, nil, w.Queue, w),
		Store:     store,
		Logger:    logger,
	})
}

// signalContext ends on Ctrl+C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
