package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"addrscene/internal/ui"
	"addrscene/internal/world"
)

var scanRescan bool

var scanCmd = &cobra.Command{
	Use:   "scan <scene.json>",
	Short: "Record the addressable instances placed in a scene",
	Long: `Load a scene file, record every instance of an addressable prefab and
save the records to the scene's data file.

By default every instance gets a new identity. With --rescan the existing
data file is loaded first and instances that still match a saved record
keep its identity.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanRescan, "rescan", false, "keep identities from the existing data file")
}

func runScan(cmd *cobra.Command, args []string) error {
	w := world.New(world.SceneNameFromPath(args[0]))
	if err := w.LoadScene(args[0]); err != nil {
		return err
	}

	s := newSession(w)
	var n int
	if scanRescan {
		s.Load()
		adopted := s.Adopt()
		n = s.Rescan()
		fmt.Println(ui.FormatInfo(fmt.Sprintf("%d saved identities kept", adopted)))
	} else {
		n = s.Scan()
	}

	if err := s.Save(); err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%d records from %d keys saved to %s",
		n, len(s.AssetKeys()), store.Path(w.Scene.Name))))
	return nil
}
