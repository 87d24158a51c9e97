package mux

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type recordingSink struct {
	writes int32
	last   []complex64
}

func (s *recordingSink) WriteIQ(samples []complex64) error {
	atomic.AddInt32(&s.writes, 1)
	s.last = samples
	return nil
}

func TestMuxSumsChannelsIntoOneWidebandBlock(t *testing.T) {
	chA := NewChannel("a", 0, 48000)
	chB := NewChannel("b", 1000, 48000)
	sink := &recordingSink{}
	m := New(sink, chA, chB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go m.Run(ctx)

	line := make([]complex64, 4)
	for i := range line {
		line[i] = complex(1, 0)
	}
	chA.Push(ctx, line)
	chB.Push(ctx, line)

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&sink.writes) == 0 {
		select {
		case <-deadline:
			t.Fatal("mux never produced a wideband block")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestChannelPushBlocksWhenQueueFull(t *testing.T) {
	ch := NewChannel("full", 0, 48000)
	ctx := context.Background()

	for i := 0; i < lineQueueDepth; i++ {
		if !ch.Push(ctx, []complex64{1}) {
			t.Fatalf("push %d: unexpected failure", i)
		}
	}

	pushCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if ch.Push(pushCtx, []complex64{1}) {
		t.Fatal("expected Push to block once the queue is full")
	}
}

func TestChannelPushUnblocksOnContextCancel(t *testing.T) {
	ch := NewChannel("cancel", 0, 48000)
	for i := 0; i < lineQueueDepth; i++ {
		ch.Push(context.Background(), []complex64{1})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() {
		done <- ch.Push(ctx, []complex64{1})
	}()
	cancel()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("expected Push to report failure after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("Push did not unblock after context cancellation")
	}
}

func TestMuxLogsUnderrunOnEmptyChannelQueue(t *testing.T) {
	ch := NewChannel("empty", 0, 48000)
	if got := ch.Underruns(); got != 0 {
		t.Fatalf("underruns before any drain = %d, want 0", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ch.drainOrSilence(ctx)

	if got := ch.Underruns(); got != 1 {
		t.Fatalf("underruns after draining an empty queue = %d, want 1", got)
	}
}
