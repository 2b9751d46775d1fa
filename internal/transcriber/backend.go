package transcriber

import "context"

// Backend converts one encoded audio payload into recognized text via a
// remote speech-to-text service. An empty string with a nil error is a valid
// result: the service detected no speech.
type Backend interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
