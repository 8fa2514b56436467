// Package fixedbuffer provides FixedBuffer, a byte buffer of fixed
// capacity allocated once at construction. Appends either fit entirely or
// fail outright — there is never a partial write — and ownership of the
// backing storage can be transferred to another FixedBuffer.
package fixedbuffer

import "fmt"

// ErrCapacityExceeded is returned by Append when the data to append would
// not fit within the buffer's remaining capacity.
type ErrCapacityExceeded struct {
	Requested int
	Remaining int
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("fixedbuffer: cannot append %d bytes, only %d remaining", e.Requested, e.Remaining)
}

// FixedBuffer is a byte buffer with a fixed capacity set at construction.
// The zero value is not usable; construct one with New.
type FixedBuffer struct {
	data  []byte
	index int
}

// New allocates a FixedBuffer with the given capacity. It panics if size
// is not positive.
func New(size int) *FixedBuffer {
	if size <= 0 {
		panic("fixedbuffer: size must be positive")
	}
	return &FixedBuffer{data: make([]byte, size)}
}

// Capacity returns the total capacity of the buffer.
func (b *FixedBuffer) Capacity() int {
	return len(b.data)
}

// Remaining returns the number of bytes that can still be appended before
// the buffer is full.
func (b *FixedBuffer) Remaining() int {
	return len(b.data) - b.index
}

// Reset rewinds the write position to the start of the buffer, without
// clearing its contents.
func (b *FixedBuffer) Reset() {
	b.index = 0
}

// Append copies p into the buffer if it fits entirely within the
// remaining capacity, advancing the write position. If p does not fit,
// nothing is written and ErrCapacityExceeded is returned — there is no
// partial write.
func (b *FixedBuffer) Append(p []byte) error {
	if len(p) > b.Remaining() {
		return &ErrCapacityExceeded{Requested: len(p), Remaining: b.Remaining()}
	}
	copy(b.data[b.index:], p)
	b.index += len(p)
	return nil
}

// Contents returns the bytes written so far, from the start of the buffer
// up to the current write position.
func (b *FixedBuffer) Contents() []byte {
	return b.data[:b.index]
}

// Take transfers ownership of the buffer's backing storage to the caller
// and leaves the receiver empty and zero-capacity. The receiver must not
// be used afterward except to check that it is now empty.
func (b *FixedBuffer) Take() *FixedBuffer {
	moved := &FixedBuffer{data: b.data, index: b.index}
	b.data = nil
	b.index = 0
	return moved
}
