package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = cobra.Command{
	Use:   "watch [dir...]",
	Short: "Recompile templates whenever they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCaretConfig()
		if err != nil {
			return err
		}
		dirs := args
		if len(dirs) == 0 {
			dirs = cfg.TemplateDirs
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watchTemplates(ctx, &cfg, dirs)
	},
}

// watchTemplates checks every template once, then again on each write until
// ctx is done.
func watchTemplates(ctx context.Context, cfg *caretConfig, dirs []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return watcher.Add(path)
			}
			if cfg.isTemplate(path) {
				reportCheck(path)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	slog.Info("watching", "dirs", dirs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !cfg.isTemplate(event.Name) {
				continue
			}
			reportCheck(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "error", err)
		}
	}
}

func reportCheck(path string) {
	if err := checkFile(path); err != nil {
		slog.Error("invalid template", "file", path, "error", err)
		return
	}
	slog.Info("validated", "file", path)
}
