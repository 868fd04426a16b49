package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchSources calls rebuild once source markdown under root has been quiet
// for delay after a change. It blocks until ctx is done. Events under outDir
// are ignored so a build never retriggers itself.
func watchSources(ctx context.Context, root, outDir string, delay time.Duration, rebuild func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create watcher: %w", err)
	}
	defer w.Close()

	absOut, _ := filepath.Abs(outDir)
	for _, d := range watchDirs(root, absOut) {
		if err := w.Add(d); err != nil {
			printWarn("", fmt.Sprintf("cannot watch %s: %v", d, err))
		}
	}

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending int
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if insideDir(event.Name, absOut) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					for _, d := range watchDirs(event.Name, absOut) {
						_ = w.Add(d)
					}
					continue
				}
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
				continue
			}
			pending++
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			printInfo("", fmt.Sprintf("%d change(s) detected, rebuilding", pending))
			pending = 0
			rebuild()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			printWarn("", fmt.Sprintf("watch error: %v", err))
		}
	}
}

// watchDirs lists root and its subdirectories, skipping hidden directories
// and the output directory.
func watchDirs(root, absOut string) []string {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if insideDir(path, absOut) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs
}

func insideDir(path, dir string) bool {
	if dir == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
