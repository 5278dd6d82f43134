// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchConfigFile watches the config file for changes and signals them on the
// returned channel. Editors replace files rather than rewrite them in place,
// so the watch is on the parent directory with events filtered by name.
func watchConfigFile(a *Agent, path string) <-chan struct{} {
	ch := make(chan struct{}, 1)
	if path == "" {
		return ch
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		a.Warningf("config file watch disabled: %v", err)
		return ch
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		a.Warningf("config file watch disabled: %v", err)
		_ = watcher.Close()
		return ch
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
					continue
				}
				a.Debugf("config file event: %s", event)
				select {
				case ch <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				a.Warningf("config file watch error: %v", err)
			}
		}
	}()

	return ch
}
