package ioutil

import (
	"bytes"
	"io"
	"sync"
)

// AtomicWriter is a simple buffer writer for testing, safe for concurrent use.
// It implements io.Writer, io.StringWriter and io.Closer.
type AtomicWriter struct {
	mutex   *sync.Mutex
	writers []io.Writer
	buffer  *bytes.Buffer
}

func NewAtomicWriter() *AtomicWriter {
	var buffer bytes.Buffer
	return &AtomicWriter{mutex: &sync.Mutex{}, writers: []io.Writer{&buffer}, buffer: &buffer}
}

// ConnectTo allows writes to multiple targets.
func (w *AtomicWriter) ConnectTo(writer io.Writer) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.writers = append(w.writers, writer)
}

func (w *AtomicWriter) Write(p []byte) (n int, err error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	for _, writer := range w.writers {
		if _, err = writer.Write(p); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}

func (w *AtomicWriter) WriteString(s string) (n int, err error) {
	return w.Write([]byte(s))
}

func (w *AtomicWriter) Sync() error {
	return nil
}

func (w *AtomicWriter) Close() error {
	return nil
}

func (w *AtomicWriter) Truncate() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.buffer.Truncate(0)
}

func (w *AtomicWriter) String() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.buffer.String()
}

func (w *AtomicWriter) StringAndTruncate() string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	str := w.buffer.String()
	w.buffer.Truncate(0)
	return str
}
