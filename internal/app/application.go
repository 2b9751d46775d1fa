package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"meetingscribe/internal/audio"
	"meetingscribe/internal/config"
	"meetingscribe/internal/logger"
	"meetingscribe/internal/store"
	"meetingscribe/internal/summarizer"
	"meetingscribe/internal/transcriber"
	"meetingscribe/internal/watcher"
)

// Decoder loads a raw audio source into a decoded buffer, from a file on
// disk or from an uploaded stream.
type Decoder interface {
	DecodeFile(ctx context.Context, path string) (*audio.AudioSource, error)
	DecodeStream(ctx context.Context, name string, input io.Reader) (*audio.AudioSource, error)
}

// SegmentTranscriber converts one audio segment into text
type SegmentTranscriber interface {
	TranscribeSegment(ctx context.Context, src *audio.AudioSource, seg audio.Segment) (string, error)
}

// Summarizer produces a summary for a combined transcript. Implementations
// degrade failures to readable text rather than returning an error.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) string
}

// Recorder appends one transcription record to the persisted log
type Recorder interface {
	Append(rec store.TranscriptionRecord) error
}

// Application orchestrates the transcription pipeline: decode, segment,
// transcribe, aggregate, summarize, record.
type Application struct {
	config      *config.Configuration
	logger      *zap.Logger
	decoder     Decoder
	transcriber SegmentTranscriber
	summarizer  Summarizer
	recorder    Recorder

	// Serializes runs: the transcription log assumes a single writer
	runMu sync.Mutex
}

// NewApplication creates a new application instance with all components
// initialized from configuration.
func NewApplication() (*Application, error) {
	// Load configuration from config file if CONFIG_PATH is set, otherwise use environment variables
	var cfg *config.Configuration
	var err error

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		cfg, err = config.NewConfigurationFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.NewConfigurationFromEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to load config from environment: %w", err)
		}
	}

	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	zapLogger := logger.NewLogger()
	return newApplicationWithConfig(cfg, zapLogger)
}

// NewApplicationWithConfig creates an application instance using the provided
// configuration and logger.
func NewApplicationWithConfig(cfg *config.Configuration, zapLogger *zap.Logger) (*Application, error) {
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}
	return newApplicationWithConfig(cfg, zapLogger)
}

func newApplicationWithConfig(cfg *config.Configuration, zapLogger *zap.Logger) (*Application, error) {
	transcribeBackend, err := buildTranscriberBackend(cfg, zapLogger)
	if err != nil {
		return nil, err
	}
	summarizeBackend, err := buildSummarizerBackend(cfg, zapLogger)
	if err != nil {
		return nil, err
	}

	logStore, err := store.NewStore(cfg.GetTranscriptionLogPath(), zapLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcription store: %w", err)
	}

	return &Application{
		config:      cfg,
		logger:      zapLogger,
		decoder:     audio.NewDecoder(cfg.GetFFmpegPath(), zapLogger),
		transcriber: transcriber.NewSegmentTranscriber(transcribeBackend, "", zapLogger),
		summarizer:  summarizer.NewService(summarizeBackend, zapLogger),
		recorder:    logStore,
	}, nil
}

// NewApplicationWithComponents creates an application instance from explicit
// components. Used by tests to substitute fakes for the remote services.
func NewApplicationWithComponents(cfg *config.Configuration, zapLogger *zap.Logger, decoder Decoder, segTranscriber SegmentTranscriber, summarizerSvc Summarizer, recorder Recorder) *Application {
	return &Application{
		config:      cfg,
		logger:      zapLogger,
		decoder:     decoder,
		transcriber: segTranscriber,
		summarizer:  summarizerSvc,
		recorder:    recorder,
	}
}

func buildTranscriberBackend(cfg *config.Configuration, zapLogger *zap.Logger) (transcriber.Backend, error) {
	switch cfg.GetTranscriberBackend() {
	case "openai":
		return transcriber.NewOpenAIBackend(cfg.GetOpenAIAPIKey(), cfg.GetOpenAIBaseURL(), cfg.GetTranscriptionModel(), zapLogger), nil
	case "assemblyai":
		return transcriber.NewAssemblyAIBackend(cfg.GetAssemblyAIAPIKey(), zapLogger), nil
	default:
		return nil, fmt.Errorf("unknown transcriber backend %q", cfg.GetTranscriberBackend())
	}
}

func buildSummarizerBackend(cfg *config.Configuration, zapLogger *zap.Logger) (summarizer.Backend, error) {
	switch cfg.GetSummarizerBackend() {
	case "openai":
		return summarizer.NewOpenAIBackend(cfg.GetOpenAIAPIKey(), cfg.GetOpenAIBaseURL(), cfg.GetSummaryModel(), zapLogger), nil
	case "gemini":
		return summarizer.NewGeminiBackend(cfg.GetGeminiAPIKey(), cfg.GetGeminiModel(), zapLogger), nil
	default:
		return nil, fmt.Errorf("unknown summarizer backend %q", cfg.GetSummarizerBackend())
	}
}

// RunWatch monitors the configured inbox directory and runs the pipeline for
// each new audio file until the context is cancelled.
func (a *Application) RunWatch(ctx context.Context) error {
	watchDir := a.config.GetWatchDir()
	if watchDir == "" {
		return fmt.Errorf("watch directory not configured")
	}

	w, err := watcher.New(watchDir, func(ctx context.Context, path string) error {
		_, err := a.ProcessFile(ctx, path)
		return err
	}, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil && err != context.Canceled {
		return fmt.Errorf("watcher stopped: %w", err)
	}
	return nil
}

// Shutdown flushes the application's logger
func (a *Application) Shutdown() error {
	// Sync on stdout/stderr sinks fails on some platforms; that is not a
	// shutdown problem
	_ = a.logger.Sync()
	return nil
}
