// Package ptt keys an external PTT (push-to-talk) relay over a Linux GPIO
// line around the active transmission, for setups where the HackRF's own
// amplifier output isn't the final RF stage.
package ptt

import (
	"github.com/warthog618/go-gpiocdev"
)

// Keyer drives one GPIO line high for the duration of a transmission.
type Keyer struct {
	line *gpiocdev.Line
}

// Open requests chip/line as an output, initially de-asserted. An empty
// chip disables PTT keying entirely: Open returns a Keyer whose methods are
// no-ops, so callers don't need a separate "is PTT configured" branch.
func Open(chip string, line int) (*Keyer, error) {
	if chip == "" {
		return &Keyer{}, nil
	}
	l, err := gpiocdev.RequestLine(chip, line, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, err
	}
	return &Keyer{line: l}, nil
}

// Key asserts the PTT line.
func (k *Keyer) Key() error {
	if k.line == nil {
		return nil
	}
	return k.line.SetValue(1)
}

// Unkey de-asserts the PTT line.
func (k *Keyer) Unkey() error {
	if k.line == nil {
		return nil
	}
	return k.line.SetValue(0)
}

// Close releases the GPIO line, de-asserting it first.
func (k *Keyer) Close() error {
	if k.line == nil {
		return nil
	}
	_ = k.line.SetValue(0)
	return k.line.Close()
}
