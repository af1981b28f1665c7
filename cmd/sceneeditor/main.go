package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"addrscene/internal/assets"
	"addrscene/internal/config"
	"addrscene/internal/editor"
	"addrscene/internal/scenedata"
	"addrscene/internal/world"
)

var (
	configPath string
	prefsPath  string
)

var rootCmd = &cobra.Command{
	Use:          "sceneeditor [scene]",
	Short:        "Edit addressable placements in a scene",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func main() {
	rootCmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "config file")
	rootCmd.Flags().StringVar(&prefsPath, "prefs", "", "editor preferences file")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scenePathFor accepts a scene name or a path to a scene file.
func scenePathFor(cfg *config.Config, arg string) string {
	if strings.HasSuffix(arg, ".json") {
		return arg
	}
	return cfg.ScenePath(arg)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, "sceneeditor: ", log.LstdFlags)

	catalog, err := assets.LoadCatalog(cfg.CatalogPath())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	root, err := cfg.DataRoot()
	if err != nil {
		return err
	}

	prefs := editor.LoadEditorPrefs(prefsPath)

	var scenePath string
	switch {
	case len(args) == 1:
		scenePath = scenePathFor(cfg, args[0])
	case prefs != nil && prefs.ScenePath != "":
		scenePath = prefs.ScenePath
	default:
		scenePath = cfg.ScenePath("Main")
	}

	w := world.New(world.SceneNameFromPath(scenePath))
	if _, err := os.Stat(scenePath); err == nil {
		if err := w.LoadScene(scenePath); err != nil {
			return err
		}
	} else if err := os.MkdirAll(filepath.Dir(scenePath), 0755); err != nil {
		return err
	}

	e := editor.New(editor.Config{
		World:     w,
		Catalog:   catalog,
		Store:     scenedata.NewStore(root, cfg.Extension, logger),
		ScenePath: scenePath,
		PrefsPath: prefsPath,
		Logger:    logger,
	})
	e.ApplyPrefs(prefs)

	width, height := cfg.WindowWidth, cfg.WindowHeight
	if prefs != nil && prefs.WindowWidth > 0 && prefs.WindowHeight > 0 {
		width, height = prefs.WindowWidth, prefs.WindowHeight
	}
	e.Run(width, height)
	return nil
}
