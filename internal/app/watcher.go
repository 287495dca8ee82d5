package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/fndeploy/internal/ports"
)

// DefaultDebounceDelay is how long a burst of file events is collapsed for.
const DefaultDebounceDelay = 250 * time.Millisecond

// Runner executes one independent deployment.
type Runner interface {
	Run(ctx context.Context) (Run, error)
}

// Watcher redeploys the source file whenever it changes.
type Watcher struct {
	runner   Runner
	path     string
	debounce time.Duration
	logger   ports.Logger
	onRun    func(Run, error)
}

// NewWatcher creates a Watcher for the file at path. onRun, when non-nil,
// receives the result of every run.
func NewWatcher(runner Runner, path string, debounce time.Duration, logger ports.Logger, onRun func(Run, error)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}
	return &Watcher{
		runner:   runner,
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   logger,
		onRun:    onRun,
	}
}

// Run deploys once, then again after every change to the file, until ctx
// is done. Runs never overlap; a failed run does not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Editors often replace files via rename, so watch the directory.
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.logger.Info("watching source for changes", ports.String("source", w.path))
	w.deploy(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Info("source changed, redeploying", ports.String("source", w.path))
			w.deploy(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) deploy(ctx context.Context) {
	run, err := w.runner.Run(ctx)
	if err != nil && ctx.Err() == nil {
		w.logger.Error("deployment run failed", ports.String("run_id", run.ID), ports.Err(err))
	}
	if w.onRun != nil && ctx.Err() == nil {
		w.onRun(run, err)
	}
}
