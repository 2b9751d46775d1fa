package transcriber

import "fmt"

// TranscriptionError indicates that a single segment's encoding or remote
// call failed. It is recoverable: the pipeline converts it into a placeholder
// result and continues with the next segment.
type TranscriptionError struct {
	ChunkIndex int
	Err        error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("failed to transcribe chunk %d: %v", e.ChunkIndex, e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying failure, which is what gets embedded in the
// transcript placeholder for the failed segment.
func (e *TranscriptionError) Cause() error {
	return e.Err
}
