package config

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DebounceDelay absorbs the burst of events editors emit for one save.
const DebounceDelay = 250 * time.Millisecond

// Watcher reloads a config file when it changes on disk. Invalid files are
// logged and skipped; the last good config stays in effect.
type Watcher struct {
	path  string
	log   zerolog.Logger
	delay time.Duration

	mu       sync.Mutex
	lastHash uint64
}

// NewWatcher returns a watcher for path.
func NewWatcher(path string, log zerolog.Logger) *Watcher {
	return &Watcher{path: path, log: log, delay: DebounceDelay}
}

// Watch blocks until ctx is done, calling fn with each newly loaded config.
// fn runs on a timer goroutine.
func (w *Watcher) Watch(ctx context.Context, fn func(*Config)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch init: %w", err)
	}
	defer fw.Close()

	// Editors replace files on save, so watch the directory.
	dir, file := filepath.Dir(w.path), filepath.Base(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("config watch %s: %w", dir, err)
	}
	w.remember()

	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.delay, func() {
			if cfg, ok := w.reload(); ok {
				fn(cfg)
			}
		})
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	w.log.Debug().Str("path", w.path).Msg("config watcher started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if strings.EqualFold(filepath.Base(ev.Name), file) &&
				ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Str("dir", dir).Msg("config watch error")
		}
	}
}

func (w *Watcher) remember() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.lastHash = hashBytes(data)
	w.mu.Unlock()
}

func (w *Watcher) reload() (*Config, bool) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("config read failed")
		return nil, false
	}

	h := hashBytes(data)
	w.mu.Lock()
	unchanged := h == w.lastHash
	w.mu.Unlock()
	if unchanged {
		w.log.Debug().Str("path", w.path).Msg("config unchanged; skipping reload")
		return nil, false
	}

	cfg, err := LoadFile(w.path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("config rejected")
		return nil, false
	}

	w.mu.Lock()
	w.lastHash = h
	w.mu.Unlock()
	w.log.Info().Str("path", w.path).Msg("config reloaded")
	return cfg, true
}

func hashBytes(b []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}
