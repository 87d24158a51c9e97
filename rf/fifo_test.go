package rf

import (
	"testing"
	"time"
)

func TestFIFORoundTripsBytes(t *testing.T) {
	f := NewFIFO(4, 8)
	r := f.NewReader(0)

	msg := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	buf, err := f.WritePtr(true)
	if err != nil {
		t.Fatalf("WritePtr: %v", err)
	}
	n := copy(buf, msg)
	f.Write(n)

	out, err := r.Read(8, true)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(out) != string(msg) {
		t.Fatalf("got %v, want %v", out, msg)
	}
}

func TestFIFOSignalsEndOfStream(t *testing.T) {
	f := NewFIFO(4, 4)
	r := f.NewReader(0)
	f.Close()

	if _, err := r.Read(4, true); err == nil {
		t.Fatal("expected an error reading from a closed, empty FIFO")
	}
}

func TestFIFOWriterNeverOutrunsSlowReader(t *testing.T) {
	const blocks, blockLen = 4, 16
	f := NewFIFO(blocks, blockLen)
	r := f.NewReader(0)

	writerBlocked := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < blocks+2; i++ {
			buf, err := f.WritePtr(true)
			if err != nil {
				return
			}
			for j := range buf {
				buf[j] = byte(i)
			}
			f.Write(len(buf))
			if i == blocks-1 {
				close(writerBlocked)
			}
		}
	}()

	select {
	case <-writerBlocked:
	case <-time.After(time.Second):
		t.Fatal("writer never produced the first ring's worth of blocks")
	}

	// Drain one block per read so the writer can advance exactly one
	// block per drain -- it must never get more than len(blocks) ahead
	// of a reader still holding block 0.
	for i := 0; i < blocks+2; i++ {
		if _, err := r.Read(blockLen, true); err != nil {
			t.Fatalf("Read %d: %v", i, err)
		}
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writer did not finish after reader drained the ring")
	}
}

func TestFIFONonBlockingWritePtrReturnsNilWhenRingFull(t *testing.T) {
	f := NewFIFO(3, 4)
	_ = f.NewReader(0) // holds block 0 open forever in this test

	// Fill every block without ever letting the reader advance off
	// block 0; the ring should saturate and a non-blocking WritePtr
	// must report "not ready" rather than overwrite the held block.
	for i := 0; i < 3; i++ {
		buf, err := f.WritePtr(true)
		if err != nil {
			t.Fatalf("WritePtr %d: %v", i, err)
		}
		f.Write(len(buf))
	}

	buf, err := f.WritePtr(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf != nil {
		t.Fatal("expected WritePtr(false) to report not-ready once the ring has wrapped onto the held block")
	}
}

func TestFIFOPrefillGatesFirstRead(t *testing.T) {
	f := NewFIFO(5, 4)
	r := f.NewReader(2)

	readDone := make(chan struct{})
	go func() {
		r.Read(4, true)
		close(readDone)
	}()

	select {
	case <-readDone:
		t.Fatal("read returned before the prefill threshold was reached")
	case <-time.After(50 * time.Millisecond):
	}

	for i := 0; i < 2; i++ {
		buf, err := f.WritePtr(true)
		if err != nil {
			t.Fatalf("WritePtr: %v", err)
		}
		f.Write(len(buf))
	}

	select {
	case <-readDone:
	case <-time.After(time.Second):
		t.Fatal("read did not unblock once the prefill threshold was reached")
	}
}
