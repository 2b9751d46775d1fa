package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"meetingscribe/internal/transcript"
)

// TranscriptionRecord is the persisted unit: one processed audio file with
// its combined transcript, per-segment texts, and generated summary. Records
// are append-only and never mutated after creation.
type TranscriptionRecord struct {
	File     string                     `json:"file"`
	FullText string                     `json:"full_text"`
	Chunks   []transcript.SegmentResult `json:"chunks"`
	Summary  string                     `json:"summary"`
}

// PersistenceError indicates the transcription log could not be read or
// written. It is fatal for the run: the in-memory work is lost.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s transcription log %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store owns the transcription log file. The log is the entire content of one
// file, rewritten on every append; the design assumes a single writer.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore creates a new Store instance owning the log at path
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("log path cannot be empty")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &Store{path: path, logger: logger}, nil
}

// GetFilePath returns the path of the owned log file
func (s *Store) GetFilePath() string {
	return s.path
}

// ReadAll returns every record in the log. An absent or unparsable log is
// treated as empty history, not an error; only a real I/O failure is fatal.
func (s *Store) ReadAll() ([]TranscriptionRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []TranscriptionRecord{}, nil
		}
		return nil, &PersistenceError{Op: "read", Path: s.path, Err: err}
	}

	var records []TranscriptionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("transcription log is not valid JSON, treating as empty",
			zap.String("path", s.path),
			zap.Error(err))
		return []TranscriptionRecord{}, nil
	}
	if records == nil {
		records = []TranscriptionRecord{}
	}
	return records, nil
}

// Append reads the whole log, appends the record, and atomically rewrites the
// full array.
func (s *Store) Append(rec TranscriptionRecord) error {
	records, err := s.ReadAll()
	if err != nil {
		return err
	}
	records = append(records, rec)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	// Keep non-ASCII and &<> literal, matching the log's documented format
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return &PersistenceError{Op: "encode", Path: s.path, Err: err}
	}

	if err := s.writeAtomic(buf.Bytes()); err != nil {
		return err
	}

	s.logger.Info("appended transcription record",
		zap.String("path", s.path),
		zap.String("file", rec.File),
		zap.Int("total_records", len(records)))
	return nil
}

// writeAtomic replaces the log content via a temp file in the same directory
// so a crash mid-write cannot leave a truncated log behind.
func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &PersistenceError{Op: "write", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".transcriptions-*.json")
	if err != nil {
		return &PersistenceError{Op: "write", Path: s.path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &PersistenceError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &PersistenceError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return &PersistenceError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}
