// Package rf implements the radio backend: a single-writer/multi-reader
// FIFO, the sink plug-in contract, and the output modulators that sit
// between the raster engine and a concrete radio or file sink.
package rf

import (
	"sync"

	"hacktv-go/errs"
)

// block is one fixed-length slot in a FIFO ring. Readers may read a block
// concurrently while writing is false; the writer never advances into a
// block any reader still holds.
type block struct {
	mu   sync.Mutex
	cond *sync.Cond

	readers int
	writing bool
	started bool // true once the writer has produced data into this block at least once

	data   []byte
	length int
}

// FIFO is a fixed ring of N blocks of fixed length.
type FIFO struct {
	blocks []*block

	writeBlock  int
	writeOffset int

	closed bool
	mu     sync.Mutex
	cond   *sync.Cond
}

// NewFIFO allocates a FIFO of count blocks, each length bytes long.
// count must be at least 3 (one block being written, one being read, one
// spare) per fifo_init's documented minimum.
func NewFIFO(count, length int) *FIFO {
	if count < 3 {
		count = 3
	}
	f := &FIFO{blocks: make([]*block, count)}
	f.cond = sync.NewCond(&f.mu)
	for i := range f.blocks {
		b := &block{data: make([]byte, length)}
		b.cond = sync.NewCond(&b.mu)
		f.blocks[i] = b
	}
	return f
}

// Close marks the FIFO closed: the writer's current block is truncated
// to its current offset (signalling end-of-stream to readers that reach
// it) and every block's condition variable is woken, per fifo_close.
func (f *FIFO) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	wb := f.blocks[f.writeBlock]
	f.cond.Broadcast()
	f.mu.Unlock()

	wb.mu.Lock()
	wb.length = f.writeOffset
	wb.writing = false
	wb.started = true
	wb.cond.Broadcast()
	wb.mu.Unlock()

	for _, b := range f.blocks {
		b.mu.Lock()
		b.cond.Broadcast()
		b.mu.Unlock()
	}
}

// WritePtr returns a pointer into the FIFO's current write block and the
// number of bytes available there. wait selects blocking (waits for the
// next block to become free of readers) or non-blocking (returns 0
// immediately) semantics. Returns errs.ErrFIFOClosed if the FIFO has been
// closed.
func (f *FIFO) WritePtr(wait bool) ([]byte, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, errs.ErrFIFOClosed
	}
	b := f.blocks[f.writeBlock]
	f.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	// A block that has never been written carries no data worth
	// protecting, so a reader merely positioned on it (waiting for the
	// writer to arrive) never blocks the first pass. Only a block the
	// writer is about to reuse on a later lap, with a reader still on
	// it, applies back-pressure.
	for b.started && b.readers > 0 {
		if !wait {
			return nil, nil
		}
		b.cond.Wait()
	}
	b.writing = true
	b.started = true
	return b.data[f.writeOffset:], nil
}

// Write commits n bytes written to the slice returned by WritePtr, and
// advances the write cursor to the next block once the current one is
// full.
func (f *FIFO) Write(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b := f.blocks[f.writeBlock]
	f.writeOffset += n

	b.mu.Lock()
	b.length = f.writeOffset
	if f.writeOffset >= len(b.data) {
		b.writing = false
		b.cond.Broadcast()
		b.mu.Unlock()

		f.writeBlock = (f.writeBlock + 1) % len(f.blocks)
		f.writeOffset = 0
		f.cond.Broadcast()
		return
	}
	b.cond.Broadcast()
	b.mu.Unlock()
}

// Reader is a FIFO read cursor. Multiple Readers may exist over one
// FIFO; each tracks its own position independently, per
// fifo_reader_t.
type Reader struct {
	fifo    *FIFO
	block   int
	offset  int
	eof     bool
	prefill int
	primed  bool
}

// NewReader creates a reader over fifo. prefill is the number of blocks
// that must be fully written before the first read returns data,
// priming the buffer before a hardware sink starts draining it; -1
// selects the FIFO's maximum safe prefill (block count - 2).
func (f *FIFO) NewReader(prefill int) *Reader {
	if prefill < 0 {
		prefill = len(f.blocks) - 2
	}
	r := &Reader{fifo: f, prefill: prefill}
	f.enter(r.block)
	return r
}

// Read returns up to length bytes from the reader's current position.
// wait selects blocking or non-blocking semantics. Returns
// errs.ErrFIFOClosed once the reader has consumed through to a
// zero-length block left by a closed FIFO.
func (r *Reader) Read(length int, wait bool) ([]byte, error) {
	if r.eof {
		return nil, errs.ErrFIFOClosed
	}

	if !r.primed && r.prefill > 0 {
		r.fifo.waitPrefill(r.prefill, wait)
		r.primed = true
	}

	b := r.fifo.blocks[r.block]
	b.mu.Lock()

	// Wait while the writer hasn't reached this block at all yet, or is
	// mid-write and hasn't produced enough bytes for this read.
	for !b.started || (b.writing && b.length <= r.offset) {
		if !wait {
			b.mu.Unlock()
			return nil, nil
		}
		b.cond.Wait()
	}

	if b.length == 0 {
		b.mu.Unlock()
		r.fifo.leave(r.block)
		r.eof = true
		return nil, errs.ErrFIFOClosed
	}

	avail := b.length - r.offset
	if avail <= 0 {
		b.mu.Unlock()
		r.advance()
		return r.Read(length, wait)
	}

	if length > avail {
		length = avail
	}
	out := b.data[r.offset : r.offset+length]
	r.offset += length
	done := r.offset >= len(b.data) || (r.offset >= b.length && !b.writing)
	b.mu.Unlock()
	if done {
		r.advance()
	}
	return out, nil
}

// advance releases the reader's hold on its current block and moves to
// the next one, decrementing the old block's readers count and
// incrementing the new block's so the writer never overtakes a block a
// reader still occupies, per the fifo_block_t readers invariant.
func (r *Reader) advance() {
	r.fifo.leave(r.block)
	r.block = (r.block + 1) % len(r.fifo.blocks)
	r.offset = 0
	r.fifo.enter(r.block)
}

// enter increments the readers count on the block at idx.
func (f *FIFO) enter(idx int) {
	b := f.blocks[idx]
	b.mu.Lock()
	b.readers++
	b.mu.Unlock()
}

// leave decrements the readers count on the block at idx and wakes any
// writer waiting for it to drop to zero.
func (f *FIFO) leave(idx int) {
	b := f.blocks[idx]
	b.mu.Lock()
	b.readers--
	b.cond.Broadcast()
	b.mu.Unlock()
}

// waitPrefill blocks a fresh reader until the writer has moved n full
// blocks ahead of block 0 (or the FIFO closes), so a reader attached at
// startup doesn't immediately stall waiting on a writer that hasn't
// produced anything yet.
func (f *FIFO) waitPrefill(n int, wait bool) {
	if n > len(f.blocks)-1 {
		n = len(f.blocks) - 1
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for !f.closed && f.writeBlock < n {
		if !wait {
			return
		}
		f.cond.Wait()
	}
}

// Close releases the reader's hold on its current block.
func (r *Reader) Close() {
	if r.eof {
		return
	}
	r.fifo.leave(r.block)
	r.eof = true
}
