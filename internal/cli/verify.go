package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"addrscene/internal/scenedata"
	"addrscene/internal/ui"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <scene>",
	Short: "Check that a scene data file decodes and is consistent",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	records, err := store.Load(args[0])
	if err != nil {
		fmt.Println(ui.FormatError(err.Error()))
		return err
	}

	m := scenedata.Manifest{Records: records}
	if err := m.Validate(); err != nil {
		fmt.Println(ui.FormatError(err.Error()))
		return err
	}

	m.RebuildKeys()
	missing := 0
	for _, k := range m.AssetKeys {
		if !catalog.IsRegistered(k) {
			fmt.Println(ui.FormatWarning("Key not addressable in catalog: " + k))
			missing++
		}
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s: %d records, %d keys, %d unresolved",
		store.Path(args[0]), len(records), len(m.AssetKeys), missing)))
	return nil
}
