package upstream

import (
	"encoding/json"
	"io"

	"go.uber.org/zap"

	"github.com/papercomputeco/aegis/pkg/sse"
)

// Stream is a lazy sequence of text fragments from a streaming completion.
// Fragments arrive as the upstream produces them; the stream is finite and
// terminates when the provider sends its end-of-stream sentinel.
type Stream struct {
	body   io.ReadCloser
	reader *sse.Reader
	logger *zap.Logger
	done   bool
}

func newStream(body io.ReadCloser, logger *zap.Logger) *Stream {
	return &Stream{
		body:   body,
		reader: sse.NewReader(body),
		logger: logger,
	}
}

// Next returns the next non-empty text fragment. It returns io.EOF after the
// end-of-stream sentinel (or when the connection closes). Frames that fail
// to parse as JSON are skipped without terminating the stream; a malformed
// frame is a recoverable per-frame condition, not a fatal one.
func (s *Stream) Next() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for {
		ev, err := s.reader.Next()
		if err != nil {
			s.done = true
			return "", err
		}
		if ev == nil || ev.Done() {
			s.done = true
			return "", io.EOF
		}

		var chunk wireChunk
		if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
			s.logger.Warn("skipping malformed stream frame", zap.Error(err))
			continue
		}

		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			return content, nil
		}
	}
}

// Close releases the underlying response body. Closing mid-stream stops
// reads from the upstream provider and returns the connection to the pool.
func (s *Stream) Close() error {
	s.done = true
	return s.body.Close()
}
