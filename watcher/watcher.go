// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package watcher - notify when a single file is rewritten or removed
package watcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/haadb/fault"
)

// Watcher - background process watching one file
//
// the parent directory is watched so that editors which save by
// rename still produce a change event for the new file
type Watcher struct {
	log      *logger.L
	watcher  *fsnotify.Watcher
	filePath string
	change   chan struct{}
	remove   chan struct{}
}

// New - start watching an existing file
func New(log *logger.L, fileName string) (*Watcher, error) {
	if nil == log {
		return nil, fault.InvalidLoggerChannel
	}

	filePath, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}

	if info, err := os.Stat(filePath); nil != err || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", fault.FileNotFound, filePath)
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher with error: %s", err)
		return nil, err
	}

	err = watcher.Add(filepath.Dir(filePath))
	if nil != err {
		log.Errorf("watcher add error: %s", err)
		watcher.Close()
		return nil, err
	}

	return &Watcher{
		log:      log,
		watcher:  watcher,
		filePath: filePath,
		change:   make(chan struct{}, 1),
		remove:   make(chan struct{}, 1),
	}, nil
}

// FileName - absolute path of the watched file
func (w *Watcher) FileName() string {
	return w.filePath
}

// Change - receives after the file was written or recreated
//
// events arriving while one is pending are merged
func (w *Watcher) Change() <-chan struct{} {
	return w.change
}

// Remove - receives after the file was removed or renamed away
func (w *Watcher) Remove() <-chan struct{} {
	return w.remove
}

// Run - background processing interface
func (w *Watcher) Run(_ interface{}, shutdown <-chan struct{}) {
	defer w.watcher.Close()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			w.log.Errorf("watch error: %s", err)

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != w.filePath {
				w.log.Tracef("file %q not match, discard event", event.Name)
				continue loop
			}

			w.log.Debugf("file event: %v", event)
			switch {
			case isRemove(event):
				w.log.Warnf("file %s removed", w.filePath)
				w.send(w.remove, "remove")
			case isChange(event):
				w.log.Infof("file %s changed", w.filePath)
				w.send(w.change, "change")
			}
		}
	}
	w.log.Info("shutting down…")
}

func (w *Watcher) send(ch chan<- struct{}, name string) {
	select {
	case ch <- struct{}{}:
	default:
		w.log.Debugf("event channel %s full, discard event", name)
	}
}

func isRemove(event fsnotify.Event) bool {
	return event.Op&fsnotify.Remove == fsnotify.Remove ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}

func isChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create
}
