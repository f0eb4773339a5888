// Package reload polls files and directories for modifications while the
// development server runs.
package reload

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Kind tells the caller what a change means.
type Kind int

const (
	// KindTemplate: a template changed; cached parses are stale.
	KindTemplate Kind = iota
	// KindBinary: the executable was rebuilt; the process should restart.
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindTemplate:
		return "template"
	case KindBinary:
		return "binary"
	}
	return "unknown"
}

type Event struct {
	Path string
	Kind Kind
}

// fingerprint is compared between polls. A directory's fingerprint covers
// every regular file below it so that edits, additions and removals all show.
type fingerprint struct {
	exists  bool
	modTime time.Time
	size    int64
	files   int
}

type target struct {
	path string
	kind Kind
	last fingerprint

	// binaries are reported only once two polls in a row agree, so a file
	// still being copied into place is not executed half-written
	pending    fingerprint
	hasPending bool
}

type Watcher struct {
	interval time.Duration
	log      *logrus.Entry

	mux     sync.Mutex
	targets []*target
}

func New(interval time.Duration, log *logrus.Logger) *Watcher {
	return &Watcher{
		interval: interval,
		log:      log.WithField("component", "reload"),
	}
}

// Watch adds path to the watch list. The current state is recorded
// immediately, so only later modifications are reported.
func (w *Watcher) Watch(path string, kind Kind) {
	w.mux.Lock()
	defer w.mux.Unlock()
	w.targets = append(w.targets, &target{path: path, kind: kind, last: snapshot(path)})
	w.log.WithFields(logrus.Fields{"path": path, "kind": kind}).Debug("watching")
}

// Poll checks every target once and returns the ones that changed.
// A binary change is returned on the first poll that sees it unchanged.
func (w *Watcher) Poll() []Event {
	w.mux.Lock()
	defer w.mux.Unlock()
	var events []Event
	for _, t := range w.targets {
		fp := snapshot(t.path)
		if fp == t.last {
			t.hasPending = false
			continue
		}
		if t.kind == KindBinary && (!t.hasPending || t.pending != fp) {
			t.pending, t.hasPending = fp, true
			continue
		}
		t.last, t.hasPending = fp, false
		events = append(events, Event{Path: t.path, Kind: t.kind})
	}
	return events
}

// Run polls until ctx is done, calling onChange for each detected change.
func (w *Watcher) Run(ctx context.Context, onChange func(Event)) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Infof("reload watcher started, checking every %s", w.interval)
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("reload watcher stopped")
			return nil
		case <-ticker.C:
			for _, ev := range w.Poll() {
				w.log.WithFields(logrus.Fields{"path": ev.Path, "kind": ev.Kind}).Info("detected change")
				onChange(ev)
			}
		}
	}
}

func snapshot(path string) fingerprint {
	info, err := os.Stat(path)
	if err != nil {
		return fingerprint{}
	}
	if !info.IsDir() {
		return fingerprint{exists: true, modTime: info.ModTime(), size: info.Size(), files: 1}
	}

	fp := fingerprint{exists: true}
	err = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil // removed mid-walk
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		fp.files++
		fp.size += fi.Size()
		if fi.ModTime().After(fp.modTime) {
			fp.modTime = fi.ModTime()
		}
		return nil
	})
	if err != nil {
		return fingerprint{}
	}
	return fp
}
