package main

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchAndRun runs fn once immediately, then again every time path changes
// on disk, until the watcher errors out (spec §5 "Cooperative context
// handed to downstream collaborators (LSP server, watch mode) is their
// responsibility -- each new compilation starts fresh").
func watchAndRun(path string, fn func() error) error {
	if err := fn(); err != nil {
		fmt.Println(styleError.Render(err.Error()))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	fmt.Println(styleMuted.Render("watching " + dir + " for changes (ctrl-c to stop)"))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if logger != nil {
				logger.Debug("recompiling", zap.String("file", path), zap.String("op", event.Op.String()))
			}
			if err := fn(); err != nil {
				fmt.Println(styleError.Render(err.Error()))
			} else {
				fmt.Println(styleOk.Render("rebuilt " + path))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println(styleError.Render(err.Error()))
		}
	}
}
