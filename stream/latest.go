package stream

import "sync"

// Latest keeps the most recent frame for readers on other goroutines.
type Latest struct {
	mu    sync.RWMutex
	frame *Frame
}

// Render stores f.
func (l *Latest) Render(f *Frame) error {
	l.mu.Lock()
	l.frame = f
	l.mu.Unlock()
	return nil
}

// Frame returns the last stored frame, or nil before the first one.
func (l *Latest) Frame() *Frame {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frame
}
