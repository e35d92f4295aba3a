// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// watcher.go reloads the configuration when the file changes on disk.
package config

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the write/rename bursts editors produce into
// one reload.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads the config file on change and delivers the result to
// a callback.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload func(*Config)
	done     chan struct{}
}

// Watch starts watching path and invokes onReload with each successfully
// reloaded config. Parse failures keep the previous config and are only
// logged; a half-saved file must never take the UI down.
func Watch(path string, onReload func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors replace the file by
	// rename, which drops a watch held on the file itself.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		watcher:  fsw,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFrom(w.path)
	if err != nil {
		log.Printf("config reload failed, keeping previous: %v", err)
		return
	}
	w.onReload(cfg)
}
