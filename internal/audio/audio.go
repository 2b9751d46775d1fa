package audio

// AudioSource holds a fully decoded audio buffer as 16-bit little-endian PCM
// with a known sample layout. Instances are immutable once decoded; the
// segmenter reads from the buffer but never modifies it.
type AudioSource struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

// frameSize returns the size in bytes of one sample frame across all channels
func (s *AudioSource) frameSize() int {
	return s.Channels * 2
}

// bytesPerSecond returns the PCM byte rate of the source
func (s *AudioSource) bytesPerSecond() int {
	return s.SampleRate * s.frameSize()
}

// DurationMS returns the total duration of the decoded audio in milliseconds
func (s *AudioSource) DurationMS() int {
	if s.bytesPerSecond() == 0 {
		return 0
	}
	return int(int64(len(s.PCM)) * 1000 / int64(s.bytesPerSecond()))
}

// byteOffset converts a millisecond position into a byte offset into the PCM
// buffer, aligned down to a whole sample frame.
func (s *AudioSource) byteOffset(ms int) int {
	off := int(int64(ms) * int64(s.bytesPerSecond()) / 1000)
	off -= off % s.frameSize()
	if off > len(s.PCM) {
		off = len(s.PCM)
	}
	return off
}

// Slice returns the PCM bytes covered by the given segment. The final segment
// extends to the end of the buffer so no trailing samples are dropped to
// millisecond rounding.
func (s *AudioSource) Slice(seg Segment) []byte {
	start := s.byteOffset(seg.StartMS)
	end := s.byteOffset(seg.EndMS)
	if seg.EndMS >= s.DurationMS() {
		end = len(s.PCM)
	}
	return s.PCM[start:end]
}
