package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/beltline/internal/logger"
)

// Watch reloads the config file at path whenever it changes and passes each
// successfully loaded config to fn. The parent directory is watched so that
// editors that replace the file are picked up. Watch blocks until ctx is
// cancelled; run it in a goroutine. fn runs on the watcher goroutine.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	log := logger.Named("config")
	log.Debug("watching config", zap.String("path", abs))

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(event, abs) {
				continue
			}
			cfg, err := LoadFile(abs)
			if err != nil {
				log.Warn("config reload failed", zap.String("path", abs), zap.Error(err))
				continue
			}
			log.Info("config reloaded", zap.String("path", abs))
			fn(cfg)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", zap.Error(err))

		case <-ctx.Done():
			return nil
		}
	}
}

// relevant reports whether event touches the watched file with content.
func relevant(event fsnotify.Event, abs string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != abs {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}
