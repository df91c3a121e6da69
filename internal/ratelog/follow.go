package ratelog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// follower tracks the read position in a log that other processes append to.
type follower struct {
	path    string
	offset  int64
	partial string
	dec     Decoder
	logger  *slog.Logger
}

// Follow streams records appended to the log at path until ctx is done.
// The parent directory is watched rather than the file so that a log that
// does not exist yet is picked up when the first record is written. With
// fromStart false, records already in the file are skipped.
func Follow(ctx context.Context, path string, fromStart bool, logger *slog.Logger) (<-chan Record, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	f := &follower{path: filepath.Clean(path), logger: logger}
	if !fromStart {
		if info, err := os.Stat(path); err == nil {
			f.offset = info.Size()
		}
	}

	out := make(chan Record, 64)
	go func() {
		defer close(out)
		defer w.Close()

		if !f.drain(ctx, out) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != f.path {
					continue
				}
				switch {
				case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
					if !f.drain(ctx, out) {
						return
					}
				case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
					f.reset()
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Debug("watcher error", "path", f.path, "error", err)
			}
		}
	}()
	return out, nil
}

func (f *follower) reset() {
	f.offset = 0
	f.partial = ""
	f.dec.Reset()
}

// drain reads everything appended since the last call and sends completed
// records. It returns false once ctx is done.
func (f *follower) drain(ctx context.Context, out chan<- Record) bool {
	file, err := os.Open(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Debug("open log failed", "path", f.path, "error", err)
		}
		return ctx.Err() == nil
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return ctx.Err() == nil
	}
	if info.Size() < f.offset {
		// Truncated or replaced underneath us.
		f.reset()
	}
	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return ctx.Err() == nil
	}
	data, err := io.ReadAll(file)
	if err != nil {
		f.logger.Debug("read log failed", "path", f.path, "error", err)
	}
	f.offset += int64(len(data))

	text := f.partial + string(data)
	lines := strings.Split(text, "\n")
	f.partial = lines[len(lines)-1]
	for _, line := range lines[:len(lines)-1] {
		f.dec.Line(line)
	}

	for _, rec := range f.dec.Take() {
		select {
		case out <- rec:
		case <-ctx.Done():
			return false
		}
	}
	return ctx.Err() == nil
}
