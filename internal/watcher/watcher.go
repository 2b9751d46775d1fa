package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler processes one newly arrived audio file
type Handler func(ctx context.Context, path string) error

// audioExtensions lists the container formats handed to the pipeline.
// Video containers are included: ffmpeg extracts their audio track.
var audioExtensions = []string{".mp3", ".wav", ".m4a", ".aac", ".ogg", ".flac", ".mp4", ".webm"}

// Watcher monitors an inbox directory and hands newly created audio files to
// a handler, one at a time. The transcription log is single-writer, so files
// are processed sequentially even when several arrive at once.
type Watcher struct {
	inputDir    string
	handler     Handler
	logger      *zap.Logger
	fsWatcher   *fsnotify.Watcher
	settleDelay time.Duration
}

// New creates a new Watcher for the given directory
func New(inputDir string, handler Handler, logger *zap.Logger) (*Watcher, error) {
	if inputDir == "" {
		return nil, fmt.Errorf("input directory cannot be empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(inputDir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", inputDir, err)
	}

	return &Watcher{
		inputDir:  inputDir,
		handler:   handler,
		logger:    logger,
		fsWatcher: fsWatcher,
		// Give the writer a moment to finish before the file is read
		settleDelay: 500 * time.Millisecond,
	}, nil
}

// Start begins monitoring the input directory. It blocks until the context is
// cancelled or the watcher fails.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("file watcher started",
		zap.String("dir", w.inputDir),
		zap.Strings("extensions", audioExtensions))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("file watcher stopped")
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isAudioFile(event.Name) {
				w.logger.Debug("ignoring non-audio file", zap.String("path", event.Name))
				continue
			}

			w.logger.Info("new audio file detected", zap.String("path", event.Name))

			select {
			case <-time.After(w.settleDelay):
			case <-ctx.Done():
				return ctx.Err()
			}

			if err := w.handler(ctx, event.Name); err != nil {
				w.logger.Error("failed to process file",
					zap.String("path", event.Name),
					zap.Error(err))
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

// Stop closes the underlying fsnotify watcher
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// isAudioFile checks whether the file has a supported audio extension
func isAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range audioExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
