package upload

import (
	"bytes"
	"io"
	"sync"
)

// Receiver accepts the bytes of one upload at a time.
type Receiver interface {
	// Acquire reserves the receiver for one upload and returns the writer the
	// upload's bytes are copied into. It returns ErrBusy if another upload
	// holds the receiver.
	Acquire(fileName, mimeType string) (io.Writer, error)

	// Open returns a fresh reader over the bytes received so far.
	Open() io.Reader

	// Release resets the receiver so the next upload can acquire it.
	Release()
}

// MemoryBuffer is an in-memory, single-slot Receiver.
type MemoryBuffer struct {
	mu       sync.Mutex
	held     bool // true from Acquire to Release
	buf      bytes.Buffer
	fileName string
	mimeType string
}

// NewMemoryBuffer creates an empty MemoryBuffer.
func NewMemoryBuffer() *MemoryBuffer {
	return &MemoryBuffer{}
}

// Acquire implements Receiver.
func (b *MemoryBuffer) Acquire(fileName, mimeType string) (io.Writer, error) {
	b.mu.Lock()
	if b.held {
		b.mu.Unlock()
		return nil, ErrBusy
	}
	b.held = true
	b.buf.Reset()
	b.fileName = fileName
	b.mimeType = mimeType
	b.mu.Unlock()

	return bufferWriter{b}, nil
}

// Open implements Receiver.
func (b *MemoryBuffer) Open() io.Reader {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.NewReader(b.buf.Bytes())
}

// Release implements Receiver. Releasing an idle buffer is a no-op.
func (b *MemoryBuffer) Release() {
	b.mu.Lock()
	b.buf.Reset()
	b.fileName = ""
	b.mimeType = ""
	b.held = false
	b.mu.Unlock()
}

// Held reports whether an upload currently holds the buffer.
func (b *MemoryBuffer) Held() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.held
}

// FileName returns the file name of the upload currently held.
func (b *MemoryBuffer) FileName() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fileName
}

// MIMEType returns the MIME type of the upload currently held.
func (b *MemoryBuffer) MIMEType() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mimeType
}

// Len returns the number of bytes received.
func (b *MemoryBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

type bufferWriter struct {
	b *MemoryBuffer
}

func (w bufferWriter) Write(p []byte) (int, error) {
	w.b.mu.Lock()
	defer w.b.mu.Unlock()
	return w.b.buf.Write(p)
}
