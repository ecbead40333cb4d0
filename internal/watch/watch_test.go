package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerIgnoresStaleTimerCallback(t *testing.T) {
	origAfterFunc := afterFunc
	t.Cleanup(func() { afterFunc = origAfterFunc })

	var callbacks []func()
	afterFunc = func(_ time.Duration, f func()) *time.Timer {
		callbacks = append(callbacks, f)
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		return timer
	}

	var called atomic.Int32
	d := newDebouncer(time.Second, func() { called.Add(1) })
	d.trigger()
	d.trigger()

	if len(callbacks) != 2 {
		t.Fatalf("expected 2 scheduled callbacks, got %d", len(callbacks))
	}
	callbacks[0]()
	callbacks[1]()

	if got := called.Load(); got != 1 {
		t.Fatalf("expected only latest callback to run, got %d calls", got)
	}
}

func TestDebouncerStopIgnoresPendingCallback(t *testing.T) {
	origAfterFunc := afterFunc
	t.Cleanup(func() { afterFunc = origAfterFunc })

	var callback func()
	afterFunc = func(_ time.Duration, f func()) *time.Timer {
		callback = f
		timer := time.NewTimer(time.Hour)
		timer.Stop()
		return timer
	}

	var called atomic.Int32
	d := newDebouncer(time.Second, func() { called.Add(1) })
	d.trigger()
	d.stop()
	callback()

	if got := called.Load(); got != 0 {
		t.Fatalf("expected callback to be ignored after stop, got %d calls", got)
	}
}

func TestTargets(t *testing.T) {
	t.Setenv("P4CONFIG", "")
	t.Setenv("P4ENVIRO", "")

	dir := filepath.Join(string(filepath.Separator), "work", "proj")
	home := filepath.Join(string(filepath.Separator), "home", "bob")
	got := Targets(dir, home)

	for _, d := range []string{dir, filepath.Dir(dir), string(filepath.Separator)} {
		if _, ok := got[d][".p4config"]; !ok {
			t.Fatalf("missing .p4config target in %s: %v", d, got)
		}
	}
	if _, ok := got[home][".p4enviro"]; !ok {
		t.Fatalf("missing .p4enviro target in %s: %v", home, got)
	}
}

func TestTargetsHonorsEnvironment(t *testing.T) {
	t.Setenv("P4CONFIG", "p4.ini")
	enviro := filepath.Join(t.TempDir(), "enviro")
	t.Setenv("P4ENVIRO", enviro)

	got := Targets(t.TempDir(), "/home/bob")
	if _, ok := got[filepath.Dir(enviro)]["enviro"]; !ok {
		t.Fatalf("P4ENVIRO not watched: %v", got)
	}
	if _, ok := got["/home/bob"]; ok {
		t.Fatalf("home should not be watched when P4ENVIRO is set: %v", got)
	}
	for _, names := range got {
		if _, ok := names[".p4config"]; ok {
			t.Fatalf("default P4CONFIG name used despite override: %v", got)
		}
	}
}

func TestWatcherReportsConfigChanges(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan struct{}, 8)
	w, err := start(
		map[string]map[string]struct{}{dir: {".p4config": {}}},
		20*time.Millisecond,
		func() { changed <- struct{}{} },
	)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
		t.Fatal("unrelated file should not trigger a change")
	case <-time.After(200 * time.Millisecond):
	}

	if err := os.WriteFile(filepath.Join(dir, ".p4config"), []byte("P4CLIENT=ws1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("config change not reported")
	}
}

func TestStartWithoutDirectories(t *testing.T) {
	_, err := start(map[string]map[string]struct{}{filepath.Join(t.TempDir(), "missing"): {".p4config": {}}}, time.Millisecond, func() {})
	if err == nil {
		t.Fatal("expected error when nothing can be watched")
	}
}
