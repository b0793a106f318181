package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchRender renders once, then again whenever an input file changes,
// until the context is cancelled. Render errors are reported and watching
// continues.
func watchRender(ctx context.Context, state *cliState, cfg *renderConfig) error {
	paths := cfg.watchedPaths()
	if len(paths) == 0 {
		return newExitError(ExitCodeUsageError, ErrMsgWatchStdin, nil)
	}

	watcher, err := newFileWatcher(paths)
	if err != nil {
		return newExitError(ExitCodeError, ErrMsgWatchFailed, err)
	}
	defer watcher.Close()

	render := func() {
		if err := runRender(ctx, state, cfg); err != nil {
			reportError(state, err)
		}
	}

	render()
	state.logger.Info(LogMsgWatching, zap.Strings(LogFieldPath, paths))

	err = watchLoop(ctx, watcher, WatchDebounce, func() {
		state.logger.Debug(LogMsgRerender)
		render()
	}, state.logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		return newExitError(ExitCodeError, ErrMsgWatchFailed, err)
	}
	return nil
}

func reportError(state *cliState, err error) {
	var exitErr *exitError
	if errors.As(err, &exitErr) && exitErr.err != nil {
		fmtError(state.stderr, exitErr.msg, exitErr.err)
		return
	}
	fmt.Fprintln(state.stderr, err)
}

// fileWatcher watches the parent directories of a set of files, so that
// editors replacing a file on save are still seen.
type fileWatcher struct {
	*fsnotify.Watcher
	files map[string]bool
}

func newFileWatcher(paths []string) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &fileWatcher{Watcher: w, files: make(map[string]bool)}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		fw.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
		dirs[dir] = true
	}
	return fw, nil
}

// relevant reports whether an event changes one of the watched files
func (fw *fileWatcher) relevant(event fsnotify.Event) bool {
	abs, err := filepath.Abs(event.Name)
	if err != nil || !fw.files[abs] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// watchLoop calls onChange once per burst of relevant events, after the
// burst has been quiet for the debounce delay.
func watchLoop(ctx context.Context, fw *fileWatcher, debounce time.Duration, onChange func(), logger *zap.Logger) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if fw.relevant(event) {
				timer.Reset(debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn(LogMsgWatchErr, zap.Error(err))
		case <-timer.C:
			onChange()
		}
	}
}
