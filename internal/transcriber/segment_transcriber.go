package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"meetingscribe/internal/audio"
)

// SegmentTranscriber converts one audio segment into text. Each call encodes
// the segment into a uniquely named temporary WAV payload, hands it to the
// backend, and removes the payload on every exit path.
type SegmentTranscriber struct {
	backend Backend
	tempDir string
	logger  *zap.Logger
}

// NewSegmentTranscriber creates a new SegmentTranscriber instance.
// An empty tempDir falls back to the system temporary directory.
func NewSegmentTranscriber(backend Backend, tempDir string, logger *zap.Logger) *SegmentTranscriber {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SegmentTranscriber{
		backend: backend,
		tempDir: tempDir,
		logger:  logger,
	}
}

// TranscribeSegment transcribes a single segment of the source. Any failure
// is returned as a TranscriptionError carrying the original cause; the caller
// decides how to degrade it, and subsequent segments are unaffected.
func (st *SegmentTranscriber) TranscribeSegment(ctx context.Context, src *audio.AudioSource, seg audio.Segment) (string, error) {
	payloadPath := filepath.Join(st.tempDir, fmt.Sprintf("segment-%d-%s.wav", seg.Index, uuid.NewString()))

	if err := st.writePayload(payloadPath, src, seg); err != nil {
		return "", &TranscriptionError{ChunkIndex: seg.Index, Err: err}
	}
	defer func() {
		if err := os.Remove(payloadPath); err != nil && !os.IsNotExist(err) {
			st.logger.Warn("failed to remove segment payload",
				zap.String("path", payloadPath),
				zap.Error(err))
		}
	}()

	st.logger.Debug("transcribing segment",
		zap.Int("chunk_index", seg.Index),
		zap.Int("start_ms", seg.StartMS),
		zap.Int("end_ms", seg.EndMS))

	text, err := st.backend.Transcribe(ctx, payloadPath)
	if err != nil {
		return "", &TranscriptionError{ChunkIndex: seg.Index, Err: err}
	}
	return text, nil
}

// writePayload encodes the segment's PCM slice as a WAV file at path
func (st *SegmentTranscriber) writePayload(path string, src *audio.AudioSource, seg audio.Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create segment payload: %w", err)
	}

	if err := audio.WriteWAV(f, src.SampleRate, src.Channels, src.Slice(seg)); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode segment payload: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to finalize segment payload: %w", err)
	}
	return nil
}
