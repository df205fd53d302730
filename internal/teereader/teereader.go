// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// MaxLineLength is the number of bytes of a line that are kept for LastLine.
// Longer lines are cut at this length.
const MaxLineLength = 4096

// ErrForward is returned by Err when the data could not be forwarded to the writer.
var ErrForward = errors.New("failed to forward output")

// Reader wraps an io.Reader. It captures up to a maximum number of bytes of the data read,
// tracks the last complete line and optionally copies the data to a writer.
// It is safe for concurrent use.
type Reader struct {
	reader     io.Reader
	forward    io.Writer
	maxBytes   int
	buf        bytes.Buffer
	overflow   bool
	lastLine   string
	partial    []byte
	forwardErr error
	mu         sync.RWMutex
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxBytes limits the captured data. Zero or less means no limit.
func WithMaxBytes(n int) Option {
	return func(r *Reader) {
		r.maxBytes = n
	}
}

// WithForward copies everything that is read to w.
func WithForward(w io.Writer) Option {
	return func(r *Reader) {
		r.forward = w
	}
}

// New creates a new Reader that wraps r.
func New(r io.Reader, opts ...Option) *Reader {
	tr := &Reader{
		reader: r,
	}

	for _, opt := range opts {
		opt(tr)
	}

	return tr
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.record(p[:n])
	}

	return n, err //nolint:wrapcheck
}

// Drain reads until EOF and discards the data, after capturing and forwarding it.
func (r *Reader) Drain() error {
	_, err := io.Copy(io.Discard, r)
	return err //nolint:wrapcheck
}

func (r *Reader) record(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.forward != nil && r.forwardErr == nil {
		if _, err := r.forward.Write(data); err != nil {
			r.forwardErr = errors.Join(ErrForward, err)
		}
	}

	keep := data
	if r.maxBytes > 0 {
		room := r.maxBytes - r.buf.Len()
		if room < len(keep) {
			r.overflow = true
			keep = keep[:max(room, 0)]
		}
	}

	r.buf.Write(keep)

	i := bytes.LastIndexByte(data, '\n')
	if i < 0 {
		r.partial = appendLimited(r.partial, data)
		return
	}

	line := data[:i]
	if j := bytes.LastIndexByte(line, '\n'); j >= 0 {
		r.partial = appendLimited(r.partial[:0], line[j+1:])
	} else {
		r.partial = appendLimited(r.partial, line)
	}

	r.lastLine = string(bytes.TrimSuffix(r.partial, []byte("\r")))
	r.partial = appendLimited(r.partial[:0], data[i+1:])
}

// appendLimited appends data to dst without growing it beyond MaxLineLength.
func appendLimited(dst, data []byte) []byte {
	room := MaxLineLength - len(dst)
	if room <= 0 {
		return dst
	}

	return append(dst, data[:min(room, len(data))]...)
}

// LastLine returns the last complete line read so far.
// If maxLength is greater than 3 and the line is longer, it is truncated and ends with "...".
func (r *Reader) LastLine(maxLength int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if maxLength > 3 && len(r.lastLine) > maxLength {
		return r.lastLine[:maxLength-3] + "..."
	}

	return r.lastLine
}

// Bytes returns a copy of the captured data.
func (r *Reader) Bytes() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return bytes.Clone(r.buf.Bytes())
}

// Overflowed reports whether more data was read than could be captured.
func (r *Reader) Overflowed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.overflow
}

// Err returns the first error that occurred while forwarding data.
func (r *Reader) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.forwardErr
}
