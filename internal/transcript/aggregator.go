package transcript

import (
	"fmt"
	"sort"
	"strings"
)

// SegmentResult pairs a segment index with its recognized text. For a failed
// segment, Text holds the error placeholder so the combined transcript keeps
// positional correspondence with the original audio. Failed distinguishes a
// real failure from legitimately empty text (silence).
type SegmentResult struct {
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
	Failed     bool   `json:"-"`
}

// FailurePlaceholder formats the placeholder text recorded in place of a
// failed segment's transcription.
func FailurePlaceholder(cause error) string {
	return fmt.Sprintf("[Error transcribing chunk: %v]", cause)
}

// FailureResult builds the SegmentResult recorded for a failed segment
func FailureResult(chunkIndex int, cause error) SegmentResult {
	return SegmentResult{
		ChunkIndex: chunkIndex,
		Text:       FailurePlaceholder(cause),
		Failed:     true,
	}
}

// Combine joins the segment texts with a single space in chunk-index order to
// produce the combined transcript. The join is insensitive to the order the
// results arrive in: a stable sort by index runs first. No trimming or
// normalization is applied beyond the join itself.
func Combine(results []SegmentResult) string {
	ordered := make([]SegmentResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ChunkIndex < ordered[j].ChunkIndex
	})

	texts := make([]string, len(ordered))
	for i, r := range ordered {
		texts[i] = r.Text
	}
	return strings.Join(texts, " ")
}
