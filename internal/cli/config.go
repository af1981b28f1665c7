package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"addrscene/internal/config"
	"addrscene/internal/ui"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := appConfig.DataRoot()
		if err != nil {
			return err
		}
		fmt.Println(ui.RenderKeyValue("config", configPath))
		fmt.Println(ui.RenderKeyValue("project_root", appConfig.ProjectRoot))
		fmt.Println(ui.RenderKeyValue("path_strategy", appConfig.PathStrategy))
		fmt.Println(ui.RenderKeyValue("data_root", root))
		fmt.Println(ui.RenderKeyValue("extension", appConfig.Extension))
		fmt.Println(ui.RenderKeyValue("catalog", appConfig.CatalogPath()))
		fmt.Println(ui.RenderKeyValue("scenes_dir", appConfig.ScenesDir))
		fmt.Println(ui.RenderKeyValue("watch_debounce_ms", strconv.Itoa(appConfig.WatchDebounceMS)))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Wrote " + configPath))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
