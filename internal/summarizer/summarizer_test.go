package summarizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeBackend struct {
	summary string
	err     error
	gotText string
}

func (f *fakeBackend) Summarize(ctx context.Context, transcript string) (string, error) {
	f.gotText = transcript
	return f.summary, f.err
}

func TestService_Summarize(t *testing.T) {
	t.Run("should return the backend summary on success", func(t *testing.T) {
		backend := &fakeBackend{summary: "Key Learnings and Insights:\n• People met."}
		svc := NewService(backend, zap.NewNop())

		summary := svc.Summarize(context.Background(), "the full transcript")

		assert.Equal(t, backend.summary, summary)
		assert.Equal(t, "the full transcript", backend.gotText)
	})

	t.Run("should degrade a backend failure to readable error text", func(t *testing.T) {
		backend := &fakeBackend{err: errors.New("model overloaded")}
		svc := NewService(backend, zap.NewNop())

		summary := svc.Summarize(context.Background(), "transcript")

		assert.Equal(t, "Error generating summary: model overloaded", summary)
	})

	t.Run("should still request a summary for an empty transcript", func(t *testing.T) {
		backend := &fakeBackend{summary: "nothing was said"}
		svc := NewService(backend, zap.NewNop())

		summary := svc.Summarize(context.Background(), "")

		assert.Equal(t, "nothing was said", summary)
		assert.Equal(t, "", backend.gotText)
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Run("should embed the transcript verbatim after the instructions", func(t *testing.T) {
		prompt := buildPrompt("we discussed the Q3 roadmap")

		assert.Contains(t, prompt, "Key Learnings and Insights:")
		assert.Contains(t, prompt, "Main Discussion Points:")
		assert.Contains(t, prompt, "Action Items and Applications:")
		assert.Contains(t, prompt, "Transcript:\nwe discussed the Q3 roadmap")
	})
}
