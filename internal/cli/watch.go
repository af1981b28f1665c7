package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"addrscene/internal/scenedata"
	"addrscene/internal/ui"
	"addrscene/internal/world"
)

var watchCmd = &cobra.Command{
	Use:   "watch <scene>",
	Short: "Keep a headless world in sync with a scene data file",
	Long: `Instantiate a scene's records, then watch its data file. Every change
is reloaded and the live instances are reconciled with it: moved records
are updated in place, new ones instantiated and removed ones destroyed.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	w := world.New(args[0])
	s := newSession(w)
	defer s.Close()

	printReport(s.Start(ctx))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := os.MkdirAll(store.Root(), 0755); err != nil {
		return fmt.Errorf("failed to create data root: %w", err)
	}
	// Saves replace the file by rename, so the directory is watched
	if err := watcher.Add(store.Root()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", store.Root(), err)
	}

	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
	go watchDataFile(ctx, watcher, store.Path(args[0]), debounce, func() {
		w.Queue.Post(func() {
			s.Load()
			printReport(s.Resync(ctx))
		})
	})

	fmt.Println(ui.FormatInfo("Watching " + store.Path(args[0])))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))

	err = w.Queue.RunUntil(ctx, func() bool { return false })
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchDataFile calls onChange once per burst of events touching path.
func watchDataFile(ctx context.Context, watcher *fsnotify.Watcher, path string, debounce time.Duration, onChange func()) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !sameFile(event.Name, path) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Printf("warning: watcher: %v", err)
		}
	}
}

func sameFile(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func printReport(r scenedata.Report) {
	if r.Empty() {
		fmt.Println(ui.FormatMuted("No changes"))
		return
	}
	for _, line := range []struct {
		label string
		ids   []string
	}{
		{"updated", r.Updated},
		{"created", r.Created},
		{"destroyed", r.Destroyed},
		{"cancelled", r.Cancelled},
	} {
		if len(line.ids) > 0 {
			fmt.Println(ui.RenderKeyValue(line.label, strings.Join(line.ids, ", ")))
		}
	}
}
