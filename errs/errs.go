// Package errs defines the error kinds shared across the synthesis engine.
package errs

import "errors"

var (
	// ErrOutOfMemory is fatal; callers should tear down every engine.
	ErrOutOfMemory = errors.New("hacktv: out of memory")

	// ErrBadConfig is returned from init functions: unknown mode id, rate
	// mismatch, or an unsupported raster for a requested feature.
	ErrBadConfig = errors.New("hacktv: bad config")

	// ErrFIFOClosed is returned by FIFO read/write after Close.
	ErrFIFOClosed = errors.New("hacktv: fifo closed")

	// ErrSourceEOF means a source reached end-of-stream.
	ErrSourceEOF = errors.New("hacktv: source eof")

	// ErrSinkError is returned by a radio callback; the mux marks the sink
	// aborted and every engine begins draining.
	ErrSinkError = errors.New("hacktv: sink error")

	// ErrUnknownProvider is a bad_config raised at CA engine init.
	ErrUnknownProvider = errors.New("hacktv: unknown ca provider")

	// ErrCardKeyMismatch is a bad_config raised at CA engine init.
	ErrCardKeyMismatch = errors.New("hacktv: card key mismatch")
)
