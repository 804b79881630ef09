package player

import (
	"io"
	"sync"
)

// lockedWriter serializes writes so frames from the refresh loop and frames
// relayed from other sessions never interleave.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// writeFrames writes each frame in one call per frame while holding the lock
// for all of them.
func (l *lockedWriter) writeFrames(frames ...[]byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, f := range frames {
		if _, err := l.w.Write(f); err != nil {
			return err
		}
	}
	return nil
}
