package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// decodeSampleRate and decodeChannels define the normalized PCM layout every
// source is decoded into before segmentation (16kHz mono, the layout the
// transcription services work best with).
const (
	decodeSampleRate = 16000
	decodeChannels   = 1
)

// DecodeError indicates the source audio could not be parsed into a duration
// and sample stream. It is fatal for the run; no segmentation is attempted.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode audio %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder converts container audio files (mp3, m4a, wav, ...) into normalized
// PCM buffers by running ffmpeg as a child process.
type Decoder struct {
	ffmpegPath string
	logger     *zap.Logger
}

// NewDecoder creates a new Decoder instance
func NewDecoder(ffmpegPath string, logger *zap.Logger) *Decoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{ffmpegPath: ffmpegPath, logger: logger}
}

// DecodeFile decodes the audio file at path into an AudioSource
func (d *Decoder) DecodeFile(ctx context.Context, path string) (*AudioSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}

	args := []string{
		"-i", path,
		"-vn", // drop any video stream
		"-ar", fmt.Sprintf("%d", decodeSampleRate),
		"-ac", fmt.Sprintf("%d", decodeChannels),
		"-f", "s16le", // raw 16-bit little-endian PCM
		"-", // write to stdout
	}

	return d.runFFmpeg(ctx, path, args, nil)
}

// DecodeStream decodes audio from a reader (an uploaded stream) into an
// AudioSource. The name is used only for error reporting.
func (d *Decoder) DecodeStream(ctx context.Context, name string, input io.Reader) (*AudioSource, error) {
	args := []string{
		"-i", "pipe:0",
		"-vn",
		"-ar", fmt.Sprintf("%d", decodeSampleRate),
		"-ac", fmt.Sprintf("%d", decodeChannels),
		"-f", "s16le",
		"-",
	}

	return d.runFFmpeg(ctx, name, args, input)
}

// runFFmpeg executes ffmpeg with the given arguments and collects the decoded
// PCM from stdout. Stderr is captured so decode failures carry the actual
// ffmpeg diagnostics instead of a bare exit status.
func (d *Decoder) runFFmpeg(ctx context.Context, source string, args []string, input io.Reader) (*AudioSource, error) {
	d.logger.Debug("starting ffmpeg decode",
		zap.String("source", source),
		zap.String("ffmpeg", d.ffmpegPath))

	cmd := exec.CommandContext(ctx, d.ffmpegPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if input != nil {
		cmd.Stdin = input
	}

	if err := cmd.Run(); err != nil {
		return nil, &DecodeError{
			Source: source,
			Err:    fmt.Errorf("ffmpeg: %w (%s)", err, stderrTail(stderr.String())),
		}
	}

	pcm := stdout.Bytes()
	if len(pcm) == 0 {
		return nil, &DecodeError{Source: source, Err: fmt.Errorf("ffmpeg produced no audio data")}
	}

	src := &AudioSource{
		PCM:        pcm,
		SampleRate: decodeSampleRate,
		Channels:   decodeChannels,
	}

	d.logger.Info("decoded audio source",
		zap.String("source", source),
		zap.Int("duration_ms", src.DurationMS()),
		zap.Int("pcm_bytes", len(pcm)))

	return src, nil
}

// stderrTail keeps the last portion of ffmpeg's stderr, which is where the
// actual failure reason lands after the banner output.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}
