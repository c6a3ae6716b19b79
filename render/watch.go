package render

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Noofbiz/seqvis"
	"github.com/Noofbiz/seqvis/datasets"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a Watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher re-renders a result directory whenever the variant's arrays or the
// name list change, which makes it possible to follow a training job that
// rewrites its predictions every epoch.
type Watcher struct {
	Driver   *Driver
	Dir      string
	Variant  datasets.Variant
	Debounce time.Duration

	// OnRender, when set, is called after every render attempt.
	OnRender func(path string, err error)
}

// Run renders once, then again after each burst of relevant file events,
// until ctx is done. Failed renders are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: create watcher: %w", seqvis.ErrIO, err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.Dir); err != nil {
		return fmt.Errorf("%w: watch %s: %w", seqvis.ErrIO, w.Dir, err)
	}

	log := w.Driver.logger()
	log.Info("Watching result directory", "dir", w.Dir, "type", w.Variant)
	w.render(ctx)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			log.Debug("result file changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)

		case <-timer.C:
			w.render(ctx)

		case <-ctx.Done():
			log.Debug("watcher stopping")
			return nil
		}
	}
}

func (w *Watcher) render(ctx context.Context) {
	path, err := w.Driver.Visualize(ctx, w.Dir, w.Variant)
	if err != nil {
		w.Driver.logger().Error("Error during visualization", "kind", seqvis.KindOf(err), "error", err)
	}
	if w.OnRender != nil {
		w.OnRender(path, err)
	}
}

// relevant reports whether event touches one of the inputs of the watched
// variant.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
		return false
	}
	switch filepath.Base(event.Name) {
	case w.Variant.TrueFile(), w.Variant.PredFile(), datasets.NameListFile:
		return true
	}
	return false
}
