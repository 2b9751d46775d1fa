package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"meetingscribe/internal/transcript"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "transcriptions.json"), zap.NewNop())
	assert.NoError(t, err)
	return s
}

func sampleRecord(name string) TranscriptionRecord {
	return TranscriptionRecord{
		File:     name,
		FullText: "seg0 text seg1 text",
		Chunks: []transcript.SegmentResult{
			{ChunkIndex: 0, Text: "seg0 text"},
			{ChunkIndex: 1, Text: "seg1 text"},
		},
		Summary: "a summary",
	}
}

func TestNewStore(t *testing.T) {
	t.Run("should require a log path and a logger", func(t *testing.T) {
		_, err := NewStore("", zap.NewNop())
		assert.Error(t, err)

		_, err = NewStore("transcriptions.json", nil)
		assert.Error(t, err)
	})
}

func TestStore_ReadAll(t *testing.T) {
	t.Run("should treat an absent log as empty history", func(t *testing.T) {
		s := newTestStore(t)

		records, err := s.ReadAll()

		assert.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("should treat a corrupt log as empty history", func(t *testing.T) {
		s := newTestStore(t)
		assert.NoError(t, os.WriteFile(s.GetFilePath(), []byte("{not valid json"), 0644))

		records, err := s.ReadAll()

		assert.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("should treat a JSON null as empty history", func(t *testing.T) {
		s := newTestStore(t)
		assert.NoError(t, os.WriteFile(s.GetFilePath(), []byte("null"), 0644))

		records, err := s.ReadAll()

		assert.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})
}

func TestStore_Append(t *testing.T) {
	t.Run("should round-trip records with identical field values and order", func(t *testing.T) {
		s := newTestStore(t)

		assert.NoError(t, s.Append(sampleRecord("meeting-1.m4a")))
		assert.NoError(t, s.Append(sampleRecord("meeting-2.m4a")))
		third := sampleRecord("meeting-3.m4a")
		third.Chunks = append(third.Chunks, transcript.FailureResult(2, errors.New("timeout")))
		assert.NoError(t, s.Append(third))

		records, err := s.ReadAll()
		assert.NoError(t, err)
		assert.Len(t, records, 3)
		assert.Equal(t, "meeting-1.m4a", records[0].File)
		assert.Equal(t, "meeting-2.m4a", records[1].File)
		assert.Equal(t, "meeting-3.m4a", records[2].File)
		assert.Equal(t, "seg0 text seg1 text", records[0].FullText)
		assert.Equal(t, "a summary", records[0].Summary)
		assert.Len(t, records[2].Chunks, 3)
		assert.Equal(t, "[Error transcribing chunk: timeout]", records[2].Chunks[2].Text)
	})

	t.Run("should write a pretty-indented array with the documented field names", func(t *testing.T) {
		s := newTestStore(t)

		assert.NoError(t, s.Append(sampleRecord("meeting.m4a")))

		data, err := os.ReadFile(s.GetFilePath())
		assert.NoError(t, err)
		content := string(data)
		assert.True(t, strings.HasPrefix(content, "["))
		assert.Contains(t, content, "    \"file\": \"meeting.m4a\"")
		assert.Contains(t, content, "\"full_text\"")
		assert.Contains(t, content, "\"chunks\"")
		assert.Contains(t, content, "\"chunk_index\"")
		assert.Contains(t, content, "\"summary\"")
	})

	t.Run("should preserve non-ASCII and HTML-sensitive characters literally", func(t *testing.T) {
		s := newTestStore(t)
		rec := sampleRecord("café.m4a")
		rec.FullText = "R&D update: naïve approach <deprecated>"

		assert.NoError(t, s.Append(rec))

		data, err := os.ReadFile(s.GetFilePath())
		assert.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, "café.m4a")
		assert.Contains(t, content, "R&D update: naïve approach <deprecated>")
		assert.NotContains(t, content, `\u0026`)
		assert.NotContains(t, content, `\u003c`)
	})

	t.Run("should recover from a corrupt log with a valid single-record array", func(t *testing.T) {
		s := newTestStore(t)
		assert.NoError(t, os.WriteFile(s.GetFilePath(), []byte("garbage!!"), 0644))

		assert.NoError(t, s.Append(sampleRecord("meeting.m4a")))

		records, err := s.ReadAll()
		assert.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, "meeting.m4a", records[0].File)
	})

	t.Run("should leave no temporary files behind", func(t *testing.T) {
		s := newTestStore(t)

		assert.NoError(t, s.Append(sampleRecord("meeting.m4a")))

		entries, err := os.ReadDir(filepath.Dir(s.GetFilePath()))
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, "transcriptions.json", entries[0].Name())
	})

	t.Run("should return PersistenceError when the log cannot be written", func(t *testing.T) {
		// A directory at the log path makes the final rename fail
		dir := t.TempDir()
		logPath := filepath.Join(dir, "transcriptions.json")
		assert.NoError(t, os.Mkdir(logPath, 0755))
		s, err := NewStore(logPath, zap.NewNop())
		assert.NoError(t, err)

		err = s.Append(sampleRecord("meeting.m4a"))

		var perr *PersistenceError
		assert.True(t, errors.As(err, &perr))
	})
}
