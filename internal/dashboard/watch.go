package dashboard

import (
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Komal-kalyanraman/container-monitor/internal/config"
)

// WatchThresholds watches the config file and reloads the alert
// thresholds into the renderer when it changes. The watch is on the
// directory because editors replace the file by rename.
func WatchThresholds(path string, renderer *Renderer, logger *slog.Logger, stop <-chan struct{}) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := w.Add(dir); err != nil {
		return err
	}

	var pending atomic.Bool
	trigger := func() {
		if pending.CompareAndSwap(false, true) {
			go func() {
				time.Sleep(50 * time.Millisecond)
				reloadThresholds(path, renderer, logger)
				pending.Store(false)
			}()
		}
	}

	for {
		select {
		case <-stop:
			return nil
		case ev := <-w.Events:
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				trigger()
			}
		case <-w.Errors:
		}
	}
}

func reloadThresholds(path string, renderer *Renderer, logger *slog.Logger) {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Warn("config reload failed, keeping thresholds", "err", err)
		return
	}
	renderer.SetThresholds(cfg.AlertWarning, cfg.AlertCritical)
	logger.Info("alert thresholds reloaded",
		"warning", cfg.AlertWarning, "critical", cfg.AlertCritical)
}
