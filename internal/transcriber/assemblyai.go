package transcriber

import (
	"context"
	"fmt"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"
)

// AssemblyAIBackend transcribes audio payloads through the AssemblyAI API
// using the official SDK, which uploads the file and polls until the
// transcript reaches a terminal status.
type AssemblyAIBackend struct {
	client *aai.Client
	logger *zap.Logger
}

// NewAssemblyAIBackend creates a new AssemblyAIBackend instance
func NewAssemblyAIBackend(apiKey string, logger *zap.Logger) *AssemblyAIBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssemblyAIBackend{
		client: aai.NewClient(apiKey),
		logger: logger,
	}
}

// Transcribe uploads the audio file and returns the recognized text
func (b *AssemblyAIBackend) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio payload: %w", err)
	}
	defer f.Close()

	transcript, err := b.client.Transcripts.TranscribeFromReader(ctx, f, nil)
	if err != nil {
		return "", fmt.Errorf("assemblyai transcription failed: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		detail := "unknown error"
		if transcript.Error != nil {
			detail = *transcript.Error
		}
		return "", fmt.Errorf("assemblyai transcription failed: %s", detail)
	}

	if transcript.Text == nil {
		return "", nil
	}
	return *transcript.Text, nil
}
