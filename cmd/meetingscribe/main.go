package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"meetingscribe/internal/app"
	"meetingscribe/internal/logger"
	"meetingscribe/internal/store"
)

// main is the application entry point
func main() {
	var (
		helpFlag    = flag.Bool("help", false, "Show help message")
		versionFlag = flag.Bool("version", false, "Show version information")
		fileFlag    = flag.String("file", "", "Audio file to transcribe and summarize")
		watchFlag   = flag.Bool("watch", false, "Watch the configured inbox directory for new audio files")
		configFlag  = flag.String("config", "", "Path to config file (overrides CONFIG_PATH)")
		debugFlag   = flag.Bool("debug", false, "Enable human-readable debug logging")
	)
	flag.Parse()

	if *helpFlag {
		printHelp()
		os.Exit(0)
	}

	if *versionFlag {
		printVersion()
		os.Exit(0)
	}

	if *fileFlag == "" && !*watchFlag {
		fmt.Fprintln(os.Stderr, "Error: provide -file <audio> or -watch")
		printHelp()
		os.Exit(2)
	}

	if *configFlag != "" {
		os.Setenv("CONFIG_PATH", *configFlag)
	}

	if err := runApplication(*fileFlag, *watchFlag, *debugFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// runApplication contains the core application logic that can be tested
func runApplication(file string, watch bool, debug bool) error {
	logger, err := buildLogger(debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("meetingscribe starting up",
		zap.String("component", "main"),
		zap.String("version", version))

	application, err := app.NewApplication()
	if err != nil {
		logger.Error("Failed to create application",
			zap.Error(err),
			zap.String("component", "main"))
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer application.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
			zap.String("component", "main"))
		cancel()
	}()

	if watch {
		return application.RunWatch(ctx)
	}

	var rec *store.TranscriptionRecord
	if file == "-" {
		rec, err = application.ProcessStream(ctx, "stdin", os.Stdin)
	} else {
		rec, err = application.ProcessFile(ctx, file)
	}
	if err != nil {
		return err
	}

	fmt.Print(formatRunOutput(rec))
	return nil
}

const version = "1.0"

// buildLogger selects the logging configuration for the run: console-friendly
// development output when debug is set, JSON production output otherwise.
func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return logger.NewDevelopmentLogger()
	}
	return logger.NewLogger(), nil
}

// formatRunOutput renders the post-run console report: where the record went
// and the generated summary.
func formatRunOutput(rec *store.TranscriptionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nTranscription and summary completed and saved for: %s\n", rec.File)
	b.WriteString("\nSummary of the meeting:\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	b.WriteString(rec.Summary + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	return b.String()
}

// printHelp displays command line usage information
func printHelp() {
	fmt.Println("meetingscribe - Audio Transcription and Meeting Summarization")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    meetingscribe -file <audio>     Transcribe and summarize one recording")
	fmt.Println("    meetingscribe -watch            Process new recordings from the inbox directory")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    -file <path>    Audio file to process (.mp3, .wav, .m4a, ...); - reads from stdin")
	fmt.Println("    -watch          Watch MEETINGSCRIBE_WATCH_DIR for new audio files")
	fmt.Println("    -config <path>  Load configuration from a file")
	fmt.Println("    -debug          Enable human-readable debug logging")
	fmt.Println("    -help           Show this help message")
	fmt.Println("    -version        Show version information")
	fmt.Println()
	fmt.Println("CONFIGURATION:")
	fmt.Println("    Configuration is loaded from environment variables (a .env file")
	fmt.Println("    in the working directory is honored), or from the file named by")
	fmt.Println("    CONFIG_PATH. OPENAI_API_KEY is required for the default backends.")
}

// printVersion displays version and build information
func printVersion() {
	fmt.Println("meetingscribe")
	fmt.Println("Version: " + version)
	fmt.Println("Pipeline: ffmpeg decode + remote transcription + LLM summarization")
}
