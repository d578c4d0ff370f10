package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/source"
)

// watch reloads file whenever it changes. The directory is watched rather
// than the file so that editors replacing the file by rename are seen.
func (s *Server) watch(ctx context.Context, file *source.File) error {
	path, err := filepath.Abs(file.Path())
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSource, err, "watch %s", file.Path())
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create watcher")
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return errors.Wrap(errors.ErrCodeSource, err, "watch %s", filepath.Dir(path))
	}
	s.logger.Info("watching data file", "path", path)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.opts.ReloadDebounce)
			} else {
				timer.Reset(s.opts.ReloadDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "err", err)
		case <-fire:
			fire = nil
			if err := s.Reload(ctx); err != nil {
				s.logger.Error("reload failed", "path", path, "err", err)
				continue
			}
			s.logger.Info("reloaded data file", "path", path)
		}
	}
}
