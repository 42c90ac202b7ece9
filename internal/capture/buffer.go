// ABOUTME: Buffer holds the most recently published Frame for concurrent readers
// ABOUTME: Publication swaps a whole immutable Frame pointer; readers never see partial state

package capture

import "sync/atomic"

// Buffer is the single shared handoff point between the capture scheduler
// (sole writer) and request handlers (readers). Latest returns nil until the
// first frame is published.
type Buffer struct {
	current atomic.Pointer[Frame]
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Publish replaces the current frame. The frame must not be mutated after
// publication.
func (b *Buffer) Publish(f *Frame) {
	b.current.Store(f)
}

// Latest returns the most recently published frame, or nil if none exists.
func (b *Buffer) Latest() *Frame {
	return b.current.Load()
}
