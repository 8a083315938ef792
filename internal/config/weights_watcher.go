package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/quakecase/engine/internal/logging"
)

// WeightsReloadCallback is called whenever the weights file is reloaded
// successfully. If it returns an error, the error is logged but the
// watcher keeps watching with the previous config still in effect.
type WeightsReloadCallback func(file *WeightsFile) error

// WeightsWatcherConfig configures a WeightsWatcher.
type WeightsWatcherConfig struct {
	// FilePath is the path to the weights YAML file to watch.
	FilePath string

	// DebounceMillis coalesces rapid successive writes (e.g. from an
	// editor's save sequence) into a single reload. Default: 500ms.
	DebounceMillis int
}

// WeightsWatcher watches the similarity weights file for changes and
// triggers debounced reload callbacks, so the weighting in spec §4.4 can
// be retuned without restarting the process. Adapted from the teacher's
// IntegrationWatcher — same fsnotify-plus-debounce shape, applied to a
// different config file.
type WeightsWatcher struct {
	config   WeightsWatcherConfig
	callback WeightsReloadCallback
	logger   *logging.Logger
	cancel   context.CancelFunc
	stopped  chan struct{}
	mu       sync.Mutex

	debounceTimer *time.Timer
}

func NewWeightsWatcher(cfg WeightsWatcherConfig, callback WeightsReloadCallback) (*WeightsWatcher, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("FilePath cannot be empty")
	}
	if callback == nil {
		return nil, fmt.Errorf("callback cannot be nil")
	}
	if cfg.DebounceMillis == 0 {
		cfg.DebounceMillis = 500
	}
	return &WeightsWatcher{
		config:   cfg,
		callback: callback,
		logger:   logging.GetLogger("config.weights_watcher"),
		stopped:  make(chan struct{}),
	}, nil
}

// Start loads the initial weights file, invokes the callback, and begins
// watching for changes. Blocks only long enough to perform the initial
// load; the watch loop itself runs in a goroutine.
func (w *WeightsWatcher) Start(ctx context.Context) error {
	initial, err := LoadWeightsFile(w.config.FilePath)
	if err != nil {
		return fmt.Errorf("failed to load initial weights config: %w", err)
	}
	if err := w.callback(initial); err != nil {
		return fmt.Errorf("initial weights callback failed: %w", err)
	}

	w.logger.Info("loaded initial weights config from %s", w.config.FilePath)

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	go w.watchLoop(watchCtx)
	return nil
}

func (w *WeightsWatcher) watchLoop(ctx context.Context) {
	defer close(w.stopped)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error("failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(w.config.FilePath); err != nil {
		w.logger.Error("failed to watch file %s: %v", w.config.FilePath, err)
		return
	}

	w.logger.Info("watching %s for changes (debounce: %dms)", w.config.FilePath, w.config.DebounceMillis)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				w.handleFileChange(ctx)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error: %v", err)
		}
	}
}

func (w *WeightsWatcher) handleFileChange(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(
		time.Duration(w.config.DebounceMillis)*time.Millisecond,
		func() { w.reload(ctx) },
	)
}

func (w *WeightsWatcher) reload(ctx context.Context) {
	w.logger.Info("reloading weights config from %s", w.config.FilePath)

	newFile, err := LoadWeightsFile(w.config.FilePath)
	if err != nil {
		w.logger.Warn("failed to load weights config (keeping previous config): %v", err)
		return
	}
	if err := w.callback(newFile); err != nil {
		w.logger.Warn("weights callback error (continuing to watch): %v", err)
		return
	}
	w.logger.Info("weights config reloaded successfully")
}

// Stop gracefully stops the watcher, waiting up to 5 seconds for the
// watch loop to exit.
func (w *WeightsWatcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	select {
	case <-w.stopped:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("timeout waiting for weights watcher to stop")
	}
}
