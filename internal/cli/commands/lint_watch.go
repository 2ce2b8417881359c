package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces bursts of events from editors saving a file.
const watchDebounce = 150 * time.Millisecond

func runLintWatch(cmd *cobra.Command, args []string, opts *LintOptions) error {
	if len(args) == 0 {
		args = []string{"."}
	}
	for _, a := range args {
		if a == "-" {
			return errors.New("--watch cannot read from stdin")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, p := range args {
		if err := watchPath(watcher, p); err != nil {
			return err
		}
	}

	relint := func() {
		run, err := lintOnce(ctx, cmdCtx, nil, args, opts)
		if err != nil {
			r.Error(err.Error())
			return
		}
		renderLintResults(r, run)
		if opts.Summary {
			renderLintSummaryTable(r, run)
		}
		r.Println(r.Styles().Muted.Render(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", strings.Join(args, ", "))))
	}

	relint()
	return watchLoop(ctx, watcher, watchDebounce, relint, cmdCtx.Logger)
}

// watchPath adds a directory tree, or a file's directory, to the watcher.
func watchPath(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// watchLoop calls onChange once per burst of .sql file events until ctx
// is done. New directories are added to the watcher as they appear.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, delay time.Duration, onChange func(), logger *slog.Logger) error {
	timer := time.NewTimer(delay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchPath(watcher, event.Name); err != nil {
						logger.Warn("failed to watch directory", slog.String("path", event.Name), slog.String("error", err.Error()))
					}
					continue
				}
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".sql") {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			timer.Reset(delay)

		case <-timer.C:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
