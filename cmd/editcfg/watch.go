package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/joshuapare/cfgkit/internal/logger"
	"github.com/joshuapare/cfgkit/pkg/editcfg"
	"github.com/joshuapare/cfgkit/pkg/types"
)

var watchDebounce time.Duration

func init() {
	cmd := newWatchCmd()
	cmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "Quiet period before a change is re-read")
	rootCmd.AddCommand(cmd)
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <section|@line>",
		Short: "Report when a section's settings change",
		Long: `The watch command follows the config file and prints the section checksum
each time the section's settings change. Edits to comments or spacing are
not reported. A section that disappears is reported as "removed".

Example:
  editcfg watch stepper_x`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := editcfg.ParseTarget(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchSection(ctx, targetPath(), t, watchDebounce, func(sum string) {
				if ok, _ := printStructured(map[string]string{"target": t.String(), "crc": sum}); ok {
					return
				}
				if sum == "" {
					sum = "removed"
				}
				fmt.Printf("%s %s %s\n", time.Now().Format(time.TimeOnly), t, sum)
			})
		},
	}
	return cmd
}

// sectionSum reads path and returns the checksum of t, or "" when the
// section is gone.
func sectionSum(path string, t editcfg.Target) (string, error) {
	ed, err := editcfg.Open(path, nil)
	if err != nil {
		return "", err
	}
	sum, err := ed.SectionCRC(t)
	if errors.Is(err, types.ErrSectionNotFound) || errors.Is(err, types.ErrInvalidRange) {
		return "", nil
	}
	return sum, err
}

// watchSection calls report with the current checksum and again whenever
// it changes, until ctx is done. The directory is watched rather than the
// file because saves replace the file.
func watchSection(ctx context.Context, path string, t editcfg.Target, debounce time.Duration, report func(string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	last, err := sectionSum(path, t)
	if err != nil {
		return err
	}
	report(last)

	name := filepath.Clean(path)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.L.Warn("watch error", "error", err)
		case <-timer.C:
			sum, err := sectionSum(path, t)
			if err != nil {
				// Mid-replace reads can fail; the next event retries.
				logger.L.Debug("re-read failed", "path", path, "error", err)
				continue
			}
			if sum != last {
				last = sum
				report(sum)
			}
		}
	}
}
