package ptt

import "testing"

func TestOpenWithEmptyChipIsNoOp(t *testing.T) {
	k, err := Open("", 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := k.Key(); err != nil {
		t.Fatalf("Key: %v", err)
	}
	if err := k.Unkey(); err != nil {
		t.Fatalf("Unkey: %v", err)
	}
	if err := k.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
