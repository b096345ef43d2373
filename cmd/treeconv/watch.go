package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 150 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <fixture>...",
	Short: "Convert fixtures again whenever they change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd, s.trace)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cache := openCache(cmd, s)
	run := func(path string) {
		fmt.Fprintf(cmd.ErrOrStderr(), "== %s %s\n", time.Now().Format("15:04:05"), path)
		if _, err := processFile(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), path, s, cache); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "treeconv: %v\n", err)
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	targets, err := watchTargets(w, args)
	if err != nil {
		return err
	}
	for _, path := range args {
		run(path)
	}
	return watchLoop(ctx, w, targets, watchDebounce, run, func(err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
	})
}

// watchTargets registers the directories of paths with w. Directories rather
// than files are watched so editors that replace files on save keep working.
// The result maps absolute paths to the argument as given.
func watchTargets(w *fsnotify.Watcher, paths []string) (map[string]string, error) {
	targets := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		targets[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return targets, nil
}

// watchLoop calls run for a target once its events have settled for debounce.
// It returns when ctx is done or the watcher closes.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, targets map[string]string, debounce time.Duration, run func(string), onErr func(error)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := targets[abs]; !ok {
				continue
			}
			pending[abs] = true
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onErr(err)
		case <-timer.C:
			for abs := range pending {
				if _, err := os.Stat(abs); err == nil {
					run(targets[abs])
				}
			}
			clear(pending)
		}
	}
}
