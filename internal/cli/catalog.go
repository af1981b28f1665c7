package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"addrscene/internal/assets"
	"addrscene/internal/ui"
)

var (
	catalogAddress  string
	catalogDisabled bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the addressable asset catalog",
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <prefab.json>",
	Short: "Register a prefab as an addressable asset",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogAdd,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog entries",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

func init() {
	catalogAddCmd.Flags().StringVar(&catalogAddress, "address", "", "address of the asset (default: file name)")
	catalogAddCmd.Flags().BoolVar(&catalogDisabled, "disabled", false, "register the asset without marking it addressable")

	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogListCmd)
}

func runCatalogAdd(cmd *cobra.Command, args []string) error {
	path := args[0]
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(catalog.Root, path)
		if err != nil {
			return fmt.Errorf("prefab is outside the project: %w", err)
		}
		path = rel
	}

	if _, err := assets.NewPrefabCache().Load(catalog.AbsPath(path)); err != nil {
		return err
	}

	entry, err := catalog.Add(path, catalogAddress, !catalogDisabled)
	if err != nil {
		return err
	}
	if err := catalog.Save(appConfig.CatalogPath()); err != nil {
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Registered %s as %s", entry.Path, entry.GUID)))
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	entries := catalog.Entries()
	if len(entries) == 0 {
		fmt.Println(ui.FormatWarning("Catalog is empty: " + appConfig.CatalogPath()))
		return nil
	}

	t := ui.NewTable(
		ui.Column{Header: "GUID"},
		ui.Column{Header: "PATH"},
		ui.Column{Header: "ADDRESS"},
		ui.Column{Header: "ADDRESSABLE"},
	)
	for _, e := range entries {
		t.AddRow(e.GUID, e.Path, e.Address, strconv.FormatBool(e.Addressable))
	}
	fmt.Print(t.Render())
	return nil
}
