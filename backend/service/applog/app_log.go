package applog

import (
	"errors"
	"io"
	"os"
	"time"
)

const maxLogChunkBytes int64 = 512 * 1024

// LogChunk is a slice of the active log file, read for GET /app/logs.
//
// Epoch changes whenever the sink starts a new file (relocation or size rotation). A
// reader passes back End and Epoch of its last chunk; Lost reports that the file it was
// following is gone and reading restarted at 0.
type LogChunk struct {
	Pid       int    `json:"pid,omitempty"`
	StartedAt string `json:"startedAt,omitempty"`
	Path      string `json:"path,omitempty"`
	Epoch     int64  `json:"epoch"`

	From int64  `json:"from"`
	To   int64  `json:"to"`
	End  int64  `json:"end"`
	Lost bool   `json:"lost"`
	Text string `json:"text"`

	Error string `json:"error,omitempty"`
}

// Since returns up to 512 KiB of the active file starting at byte offset since.
// epoch 0 skips the epoch check.
func (s *FileSink) Since(since, epoch int64) LogChunk {
	s.mu.Lock()
	chunk := LogChunk{
		Pid:   os.Getpid(),
		Path:  s.path,
		Epoch: s.epoch,
		End:   s.size,
	}
	startedAt := s.startedAt
	s.mu.Unlock()

	if !startedAt.IsZero() {
		chunk.StartedAt = startedAt.Format(time.RFC3339Nano)
	}
	if since < 0 {
		since = 0
	}
	if since > chunk.End || (epoch > 0 && epoch != chunk.Epoch) {
		chunk.Lost = true
		since = 0
	}
	chunk.From, chunk.To = since, since

	n := chunk.End - since
	if chunk.Path == "" || n <= 0 {
		return chunk
	}
	if n > maxLogChunkBytes {
		n = maxLogChunkBytes
	}

	text, err := readAt(chunk.Path, since, n)
	chunk.Text = text
	chunk.To = since + int64(len(text))
	if err != nil {
		chunk.Error = err.Error()
	}
	return chunk
}

// readAt reads n bytes at off. A short read is not an error: the file may have been
// rotated away between taking the size and opening it.
func readAt(path string, off, n int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := f.ReadAt(buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return string(buf[:read]), err
	}
	return string(buf[:read]), nil
}
