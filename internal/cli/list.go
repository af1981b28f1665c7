package cli

import (
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"addrscene/internal/scenedata"
	"addrscene/internal/ui"
)

var (
	listKeys bool
	listCopy int
)

var listCmd = &cobra.Command{
	Use:   "list [scene]",
	Short: "Show the records of a scene data file",
	Long: `Print the records stored for a scene. Without a scene name, pick one
of the data files under the data root interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listKeys, "keys", false, "print the referenced asset keys instead")
	listCmd.Flags().IntVar(&listCopy, "copy", 0, "copy the id of record N to the clipboard")
}

func runList(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		picked, ok, err := pickScene()
		if err != nil || !ok {
			return err
		}
		name = picked
	}

	records, err := store.Load(name)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println(ui.FormatWarning("No records stored for " + name))
		return nil
	}

	if listCopy != 0 {
		if listCopy < 1 || listCopy > len(records) {
			return fmt.Errorf("record %d out of range 1..%d", listCopy, len(records))
		}
		id := records[listCopy-1].ID
		if err := clipboard.WriteAll(id); err != nil {
			fmt.Println(ui.FormatWarning("Clipboard not available: " + err.Error()))
			fmt.Println(id)
			return nil
		}
		fmt.Println(ui.FormatSuccess("Copied " + id))
		return nil
	}

	if listKeys {
		fmt.Print(keysTable(records).Render())
		return nil
	}
	fmt.Print(recordsTable(records).Render())
	return nil
}

// pickScene lets the user choose among the stored scenes. ok is false when
// there is nothing to pick or the finder was aborted.
func pickScene() (string, bool, error) {
	names, err := store.List()
	if err != nil {
		return "", false, err
	}
	if len(names) == 0 {
		fmt.Println(ui.FormatWarning("No scene data found in " + store.Root()))
		return "", false, nil
	}

	idx, err := fuzzyfinder.Find(
		names,
		func(i int) string { return names[i] },
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			records, err := store.Load(names[i])
			if err != nil {
				return err.Error()
			}
			return fmt.Sprintf("Scene: %s\nFile: %s\nRecords: %d",
				names[i], store.Path(names[i]), len(records))
		}),
	)
	if err != nil {
		return "", false, nil
	}
	return names[idx], true, nil
}

func recordsTable(records []scenedata.Record) *ui.Table {
	t := ui.NewTable(
		ui.Column{Header: "#", Right: true},
		ui.Column{Header: "ID"},
		ui.Column{Header: "ASSET"},
		ui.Column{Header: "POSITION"},
		ui.Column{Header: "ROTATION"},
		ui.Column{Header: "SCALE"},
	)
	for i, r := range records {
		t.AddRow(
			strconv.Itoa(i+1),
			r.ID,
			assetLabel(r.AssetKey),
			fmt.Sprintf("%g, %g, %g", r.PosX, r.PosY, r.PosZ),
			fmt.Sprintf("%g, %g, %g, %g", r.RotX, r.RotY, r.RotZ, r.RotW),
			fmt.Sprintf("%g, %g, %g", r.ScaleX, r.ScaleY, r.ScaleZ),
		)
	}
	return t
}

func keysTable(records []scenedata.Record) *ui.Table {
	m := scenedata.Manifest{Records: records}
	m.RebuildKeys()

	counts := make(map[string]int)
	for _, r := range records {
		counts[r.AssetKey]++
	}

	t := ui.NewTable(
		ui.Column{Header: "KEY"},
		ui.Column{Header: "PATH"},
		ui.Column{Header: "COUNT", Right: true},
	)
	for _, k := range m.AssetKeys {
		path, ok := catalog.PathFor(k)
		if !ok {
			path = ui.FormatMuted("(not in catalog)")
		}
		t.AddRow(k, path, strconv.Itoa(counts[k]))
	}
	return t
}

// assetLabel prefers the catalog path over the raw key.
func assetLabel(key string) string {
	if path, ok := catalog.PathFor(key); ok {
		return path
	}
	return key
}
