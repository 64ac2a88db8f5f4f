// Package watch delivers file change notifications backed by fsnotify. It
// drives the re-parse loop of "sonar parse --watch".
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op describes what happened to a path.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is a single change notification.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Watcher wraps an fsnotify watcher with translated events.
type Watcher struct {
	w    *fsnotify.Watcher
	evC  chan Event
	erC  chan error
	done chan struct{}
}

// New creates a Watcher. Call Close to release it.
func New() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	fw := &Watcher{w: w, evC: make(chan Event, 128), erC: make(chan error, 1), done: make(chan struct{})}
	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	defer close(fw.evC)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			select {
			case fw.evC <- Event{Path: ev.Name, Op: translate(ev.Op), Time: time.Now()}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

func translate(op fsnotify.Op) Op {
	var out Op
	if op.Has(fsnotify.Create) {
		out |= OpCreate
	}
	if op.Has(fsnotify.Write) {
		out |= OpWrite
	}
	if op.Has(fsnotify.Remove) {
		out |= OpRemove
	}
	if op.Has(fsnotify.Rename) {
		out |= OpRename
	}
	if op.Has(fsnotify.Chmod) {
		out |= OpChmod
	}
	return out
}

func (fw *Watcher) Events() <-chan Event     { return fw.evC }
func (fw *Watcher) Errors() <-chan error     { return fw.erC }
func (fw *Watcher) Add(name string) error    { return fw.w.Add(name) }
func (fw *Watcher) Remove(name string) error { return fw.w.Remove(name) }

// Close stops the watcher. The Events channel is closed once the delivery
// goroutine exits.
func (fw *Watcher) Close() error {
	select {
	case <-fw.done:
		return nil
	default:
		close(fw.done)
	}
	return fw.w.Close()
}

// File calls onChange each time path is written, until ctx is done. Bursts of
// events closer together than settle collapse into one call. The parent
// directory is watched rather than the file itself because many editors save
// by replacing the file.
func File(ctx context.Context, path string, settle time.Duration, onChange func(Event)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := New()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	var (
		pending Event
		settled <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-fw.Errors():
			return fmt.Errorf("watch %s: %w", path, err)
		case ev, ok := <-fw.Events():
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Path) != abs || ev.Op&(OpCreate|OpWrite|OpRename) == 0 {
				continue
			}
			pending = ev
			pending.Path = path
			settled = time.After(settle)
		case <-settled:
			settled = nil
			onChange(pending)
		}
	}
}
