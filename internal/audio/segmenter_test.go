package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// makeSource builds a source with an exact millisecond duration: at 1kHz mono
// s16le each millisecond is exactly one 2-byte frame.
func makeSource(durationMS int) *AudioSource {
	return &AudioSource{
		PCM:        make([]byte, durationMS*2),
		SampleRate: 1000,
		Channels:   1,
	}
}

func TestSplit(t *testing.T) {
	t.Run("should produce ceil(D/C) segments covering the source exactly", func(t *testing.T) {
		durations := []int{1, 50, 599999, 600000, 600001, 1200000, 1500000, 3599999}
		chunkSizes := []int{1, 1000, 60000, 600000}

		for _, d := range durations {
			for _, c := range chunkSizes {
				src := makeSource(d)
				segments := Split(src, c)

				expected := (d + c - 1) / c
				assert.Len(t, segments, expected, "D=%d C=%d", d, c)

				// Contiguous 0-based indexes, no gaps, no overlaps
				cursor := 0
				for i, seg := range segments {
					assert.Equal(t, i, seg.Index, "D=%d C=%d", d, c)
					assert.Equal(t, cursor, seg.StartMS, "D=%d C=%d", d, c)
					assert.LessOrEqual(t, seg.DurationMS(), c, "D=%d C=%d", d, c)
					assert.Greater(t, seg.DurationMS(), 0, "D=%d C=%d", d, c)
					if i < len(segments)-1 {
						assert.Equal(t, c, seg.DurationMS(), "only the last segment may be shorter")
					}
					cursor = seg.EndMS
				}
				assert.Equal(t, d, cursor, "union must cover [0, D) exactly")
			}
		}
	})

	t.Run("should produce zero segments for a zero-duration source", func(t *testing.T) {
		segments := Split(makeSource(0), 600000)

		assert.Empty(t, segments)
	})

	t.Run("should produce a single full-span segment when duration is below chunk size", func(t *testing.T) {
		segments := Split(makeSource(90000), 600000)

		assert.Len(t, segments, 1)
		assert.Equal(t, Segment{Index: 0, StartMS: 0, EndMS: 90000}, segments[0])
	})

	t.Run("should match the 25-minute reference scenario", func(t *testing.T) {
		segments := Split(makeSource(1500000), 600000)

		assert.Equal(t, []Segment{
			{Index: 0, StartMS: 0, EndMS: 600000},
			{Index: 1, StartMS: 600000, EndMS: 1200000},
			{Index: 2, StartMS: 1200000, EndMS: 1500000},
		}, segments)
	})
}

type recordingObserver struct {
	calls []int
}

func (o *recordingObserver) SegmentCreated(index, total, durationMS int) {
	o.calls = append(o.calls, index)
}

func TestSplitWithObserver(t *testing.T) {
	t.Run("should notify the observer once per segment in order", func(t *testing.T) {
		observer := &recordingObserver{}

		SplitWithObserver(makeSource(1500000), 600000, observer)

		assert.Equal(t, []int{0, 1, 2}, observer.calls)
	})

	t.Run("should produce identical segments with and without an observer", func(t *testing.T) {
		src := makeSource(1234567)

		plain := Split(src, 600000)
		observed := SplitWithObserver(src, 600000, &recordingObserver{})

		assert.Equal(t, plain, observed)
	})
}
