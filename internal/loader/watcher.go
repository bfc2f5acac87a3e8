package loader

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/napolitain/techtree/internal/catalog"
)

// Reload is the outcome of re-reading a watched catalog file
type Reload struct {
	Path    string
	Catalog *catalog.Catalog // nil when Err is set
	Err     error
}

// Watcher re-reads a catalog file whenever it changes on disk.
// Catalogs are immutable, so consumers swap in the new one between turns.
type Watcher struct {
	Path    string
	Reloads <-chan Reload

	reloads  chan Reload
	stop     chan struct{}
	done     chan struct{}
	started  bool
	stopOnce sync.Once
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for the catalog file at path
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if _, err := FormatForPath(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	ch := make(chan Reload, 4)
	return &Watcher{
		Path:     abs,
		Reloads:  ch,
		reloads:  ch,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
		logger:   logger,
		debounce: 100 * time.Millisecond,
	}, nil
}

// Start begins watching. The parent directory is watched so editors that
// replace the file by rename are still seen.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	w.started = true
	go w.loop()
	return nil
}

// Stop closes the watcher and the Reloads channel. It is safe to call more
// than once and without a successful Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.watcher.Close()
		if w.started {
			<-w.done
		}
		close(w.reloads)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case now := <-ticker.C:
			if !pending.IsZero() && now.Sub(pending) >= w.debounce {
				pending = time.Time{}
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watch error", "path", w.Path, "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cat, err := Load(w.Path, w.logger)
	if err != nil {
		w.logger.Warn("catalog reload failed", "path", w.Path, "error", err)
	} else {
		w.logger.Info("catalog reloaded", "path", w.Path, "technologies", cat.Len())
	}
	select {
	case w.reloads <- Reload{Path: w.Path, Catalog: cat, Err: err}:
	case <-w.stop:
	}
}
