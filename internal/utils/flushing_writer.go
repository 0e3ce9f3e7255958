package utils

import (
	"io"
	"sync"
)

const (
	lineTerminatorConstant = "\n"
)

// FlushingWriter delivers each write to the underlying writer in one call and flushes it when it buffers.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps writer; wrapping an existing FlushingWriter returns it unchanged.
func NewFlushingWriter(writer io.Writer) *FlushingWriter {
	if existingWriter, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return existingWriter
	}
	return &FlushingWriter{writer: writer}
}

// Write delegates to the underlying writer and flushes it when possible.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if bytesWritten < len(data) {
		return bytesWritten, io.ErrShortWrite
	}

	if flushableWriter, implementsFlush := flushingWriter.writer.(interface{ Flush() error }); implementsFlush {
		if flushError := flushableWriter.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}

	return bytesWritten, nil
}

// WriteLine writes text and a trailing newline as a single write.
func (flushingWriter *FlushingWriter) WriteLine(text string) error {
	_, writeError := flushingWriter.Write([]byte(text + lineTerminatorConstant))
	return writeError
}
