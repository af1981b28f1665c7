package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"addrscene/internal/ui"
	"addrscene/internal/world"
)

var instantiateOut string

var instantiateCmd = &cobra.Command{
	Use:   "instantiate <scene>",
	Short: "Instantiate a scene's records into an empty world",
	Long: `Load the records of a scene and instantiate every one of them, waiting
until all instantiations have finished. With -o the resulting scene is
written as a scene file.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstantiate,
}

func init() {
	instantiateCmd.Flags().StringVarP(&instantiateOut, "output", "o", "", "write the instantiated scene to this file")
}

func runInstantiate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	w := world.New(args[0])
	s := newSession(w)
	defer s.Close()

	report := s.Start(ctx)
	if err := w.Settle(ctx, s.Pending); err != nil {
		return err
	}

	live := s.Cache().Len()
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%d of %d records instantiated", live, len(report.Created))))
	if failed := len(report.Created) - live; failed > 0 {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%d instantiations failed", failed)))
	}

	if instantiateOut != "" {
		if err := w.SaveScene(instantiateOut); err != nil {
			return err
		}
		fmt.Println(ui.FormatInfo("Scene written to " + instantiateOut))
	}
	return nil
}
