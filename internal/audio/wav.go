package audio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// wavHeaderSize is the size of a canonical PCM RIFF/WAVE header
const wavHeaderSize = 44

// WriteWAV writes the given 16-bit little-endian PCM data as a RIFF/WAVE
// stream. This is the transport format sent to the remote transcription
// service, so the header must describe the payload exactly.
func WriteWAV(w io.Writer, sampleRate int, channels int, pcm []byte) error {
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("invalid wav parameters: sample rate %d, channels %d", sampleRate, channels)
	}

	byteRate := sampleRate * channels * 2
	blockAlign := channels * 2

	header := make([]byte, wavHeaderSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], 16) // bits per sample
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write wav header: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	return nil
}
