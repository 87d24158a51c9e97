package source

import (
	"github.com/gordonklaus/portaudio"
)

// PortAudioInput streams live microphone PCM for the audio subcarriers
// (read by the engine's audio mixer), an alternative to the fixed NICAM/FM/AM subcarrier silence a test-pattern
// run would otherwise produce. It is a thin adapter: PortAudio owns device
// selection and the callback thread, this type just buffers what arrives.
type PortAudioInput struct {
	stream *portaudio.Stream
	pcm    chan []int16
}

// OpenPortAudioInput opens the system default input device at sampleRate,
// one channel, delivering int16 PCM frames on the returned input's Samples
// channel as they arrive.
func OpenPortAudioInput(sampleRate float64, framesPerBuffer int) (*PortAudioInput, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	in := &PortAudioInput{pcm: make(chan []int16, 4)}
	buf := make([]int16, framesPerBuffer)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, framesPerBuffer, buf)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	in.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}

	go in.pump(buf)
	return in, nil
}

// pump reads from the stream in a loop, copying each filled buffer onto the
// channel so the caller never blocks PortAudio's own callback thread.
func (in *PortAudioInput) pump(buf []int16) {
	for {
		if err := in.stream.Read(); err != nil {
			close(in.pcm)
			return
		}
		frame := make([]int16, len(buf))
		copy(frame, buf)
		select {
		case in.pcm <- frame:
		default:
			// Audio subcarriers tolerate a dropped frame far better than a
			// stalled capture thread; the next frame will arrive shortly.
		}
	}
}

// Samples returns the channel of captured PCM frames.
func (in *PortAudioInput) Samples() <-chan []int16 { return in.pcm }

// Close stops the stream and releases the PortAudio library handle.
func (in *PortAudioInput) Close() error {
	err := in.stream.Stop()
	in.stream.Close()
	portaudio.Terminate()
	return err
}
