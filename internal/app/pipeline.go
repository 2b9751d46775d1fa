package app

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"meetingscribe/internal/audio"
	"meetingscribe/internal/store"
	"meetingscribe/internal/transcriber"
	"meetingscribe/internal/transcript"
)

// segmentProgress logs advisory segmentation progress
type segmentProgress struct {
	logger *zap.Logger
}

func (p *segmentProgress) SegmentCreated(index, total, durationMS int) {
	p.logger.Info("created segment",
		zap.Int("chunk_index", index),
		zap.Int("total", total),
		zap.Int("duration_ms", durationMS))
}

// ProcessFile runs the full pipeline for one audio file and returns the
// record that was persisted.
//
// Failure policy: a decode failure aborts the run with nothing written. A
// failed segment degrades to a placeholder result and later segments still
// run. A summarization failure degrades to error text. A persistence failure
// propagates after all other work is done.
func (a *Application) ProcessFile(ctx context.Context, path string) (*store.TranscriptionRecord, error) {
	return a.process(ctx, filepath.Base(path), func(ctx context.Context) (*audio.AudioSource, error) {
		return a.decoder.DecodeFile(ctx, path)
	})
}

// ProcessStream runs the pipeline for an uploaded audio stream. The name is
// recorded as the source file name.
func (a *Application) ProcessStream(ctx context.Context, name string, input io.Reader) (*store.TranscriptionRecord, error) {
	return a.process(ctx, name, func(ctx context.Context) (*audio.AudioSource, error) {
		return a.decoder.DecodeStream(ctx, name, input)
	})
}

func (a *Application) process(ctx context.Context, name string, decode func(context.Context) (*audio.AudioSource, error)) (*store.TranscriptionRecord, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	a.logger.Info("processing audio source", zap.String("source", name))

	source, err := decode(ctx)
	if err != nil {
		return nil, err
	}

	segments := audio.SplitWithObserver(source, a.config.GetChunkDurationMS(), &segmentProgress{logger: a.logger})
	a.logger.Info("segmented audio source",
		zap.Int("duration_ms", source.DurationMS()),
		zap.Int("segments", len(segments)))

	// Segments are transcribed strictly in index order, one call at a time,
	// so results aggregate in the order of the original audio timeline.
	results := make([]transcript.SegmentResult, 0, len(segments))
	for _, seg := range segments {
		text, err := a.transcriber.TranscribeSegment(ctx, source, seg)
		if err != nil {
			cause := err
			var terr *transcriber.TranscriptionError
			if errors.As(err, &terr) {
				cause = terr.Cause()
			}
			a.logger.Warn("segment transcription failed, recording placeholder",
				zap.Int("chunk_index", seg.Index),
				zap.Error(err))
			results = append(results, transcript.FailureResult(seg.Index, cause))
			continue
		}

		a.logger.Info("transcribed segment",
			zap.Int("chunk_index", seg.Index),
			zap.Int("text_len", len(text)))
		results = append(results, transcript.SegmentResult{ChunkIndex: seg.Index, Text: text})
	}

	fullText := transcript.Combine(results)
	summary := a.summarizer.Summarize(ctx, fullText)

	rec := store.TranscriptionRecord{
		File:     name,
		FullText: fullText,
		Chunks:   results,
		Summary:  summary,
	}

	if err := a.recorder.Append(rec); err != nil {
		return nil, err
	}

	a.logger.Info("transcription and summary recorded",
		zap.String("file", rec.File),
		zap.Int("chunks", len(rec.Chunks)))
	return &rec, nil
}
