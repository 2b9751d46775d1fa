package audio

// Segment identifies one contiguous slice of an AudioSource by index and
// [StartMS, EndMS) range. Indexes are 0-based and contiguous; segments never
// overlap and together cover the full source duration.
type Segment struct {
	Index   int
	StartMS int
	EndMS   int
}

// DurationMS returns the segment length in milliseconds
func (s Segment) DurationMS() int {
	return s.EndMS - s.StartMS
}

// ProgressObserver receives advisory notifications while a source is being
// segmented. Observers must not influence segmentation results.
type ProgressObserver interface {
	SegmentCreated(index int, total int, durationMS int)
}

// Split partitions the source into segments of at most chunkDurationMS
// milliseconds each. Boundaries are [i*C, min((i+1)*C, D)); only the final
// segment may be shorter than C. A zero-duration source yields no segments.
func Split(src *AudioSource, chunkDurationMS int) []Segment {
	return SplitWithObserver(src, chunkDurationMS, nil)
}

// SplitWithObserver is Split with per-segment progress reporting
func SplitWithObserver(src *AudioSource, chunkDurationMS int, observer ProgressObserver) []Segment {
	duration := src.DurationMS()
	if duration == 0 || chunkDurationMS <= 0 {
		return nil
	}

	numChunks := (duration + chunkDurationMS - 1) / chunkDurationMS
	segments := make([]Segment, 0, numChunks)

	for i := 0; i < numChunks; i++ {
		start := i * chunkDurationMS
		end := start + chunkDurationMS
		if end > duration {
			end = duration
		}
		seg := Segment{Index: i, StartMS: start, EndMS: end}
		segments = append(segments, seg)

		if observer != nil {
			observer.SegmentCreated(i, numChunks, seg.DurationMS())
		}
	}

	return segments
}
