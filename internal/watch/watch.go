// Package watch reports changes to the files that determine which p4 client
// a directory maps to (P4CONFIG files and P4ENVIRO).
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDelay = 350 * time.Millisecond

type Watcher struct {
	fs       *fsnotify.Watcher
	debounce *debouncer
	// targets maps a watched directory to the file names of interest in it.
	targets map[string]map[string]struct{}

	closeOnce sync.Once
	done      chan struct{}
}

// ConfigFileName returns the P4CONFIG file name in effect, defaulting to
// .p4config.
func ConfigFileName() string {
	if name := strings.TrimSpace(os.Getenv("P4CONFIG")); name != "" {
		return filepath.Base(name)
	}
	return ".p4config"
}

// Targets lists the directories to watch for dir: every ancestor of dir may
// hold the P4CONFIG file, and home holds .p4enviro unless P4ENVIRO points
// elsewhere.
func Targets(dir, home string) map[string]map[string]struct{} {
	targets := map[string]map[string]struct{}{}
	add := func(d, name string) {
		if d == "" || name == "" {
			return
		}
		if targets[d] == nil {
			targets[d] = map[string]struct{}{}
		}
		targets[d][name] = struct{}{}
	}
	config := ConfigFileName()
	for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
		add(d, config)
		if parent := filepath.Dir(d); parent == d {
			break
		}
	}
	if enviro := strings.TrimSpace(os.Getenv("P4ENVIRO")); enviro != "" {
		add(filepath.Dir(enviro), filepath.Base(enviro))
	} else if home != "" {
		add(filepath.Clean(home), ".p4enviro")
	}
	return targets
}

// Start watches the targets of dir and calls onChange, debounced by delay,
// whenever one of the files is written, created, removed or renamed.
func Start(dir string, delay time.Duration, onChange func()) (*Watcher, error) {
	home, _ := os.UserHomeDir()
	return start(Targets(dir, home), delay, onChange)
}

func start(targets map[string]map[string]struct{}, delay time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	added := 0
	for d := range targets {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			continue
		}
		slog.Debug("adding path to FS watcher", slog.String("path", d))
		if err := fsw.Add(d); err != nil {
			err := errors.Join(err, fsw.Close())
			return nil, fmt.Errorf("watch %s: %w", d, err)
		}
		added++
	}
	if added == 0 {
		return nil, errors.Join(errors.New("no directory to watch"), fsw.Close())
	}
	w := &Watcher{
		fs:       fsw,
		debounce: newDebouncer(delay, onChange),
		targets:  targets,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.debounce.stop()
		err = w.fs.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.relevant(ev.Name) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			w.debounce.trigger()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) relevant(path string) bool {
	names, ok := w.targets[filepath.Dir(path)]
	if !ok {
		return false
	}
	_, ok = names[filepath.Base(path)]
	return ok
}
