// Package audio plays a procedural engine tone that follows the simulated RPM.
package audio

import (
	"math"
	"sync/atomic"
)

const (
	// ChannelCount is the number of interleaved output channels.
	ChannelCount = 2

	bytesPerFrame = 4 * ChannelCount
	// Fraction of the gap to the target frequency closed per sample.
	glide = 0.002
)

// EngineTone is an endless io.Reader of float32 LE stereo samples. Its pitch
// follows the firing frequency for the current RPM. SetRPM and SetLoad may
// be called from any goroutine while another goroutine reads.
type EngineTone struct {
	sampleRate float64
	cylinders  float64

	rpm  atomic.Uint64 // math.Float64bits
	load atomic.Uint64 // math.Float64bits

	freq  float64
	phase float64
	gain  float64
	rem   []byte
}

// NewEngineTone creates a tone for the given sample rate and cylinder count.
func NewEngineTone(sampleRate, cylinders int) *EngineTone {
	if cylinders <= 0 {
		cylinders = 4
	}
	t := &EngineTone{
		sampleRate: float64(sampleRate),
		cylinders:  float64(cylinders),
	}
	t.SetRPM(0)
	t.SetLoad(1)
	return t
}

// SetRPM sets the engine speed the tone glides toward.
func (t *EngineTone) SetRPM(rpm float64) {
	t.rpm.Store(math.Float64bits(math.Max(0, rpm)))
}

// RPM returns the engine speed last set.
func (t *EngineTone) RPM() float64 {
	return math.Float64frombits(t.rpm.Load())
}

// SetLoad sets the output level in [0, 1].
func (t *EngineTone) SetLoad(load float64) {
	t.load.Store(math.Float64bits(math.Max(0, math.Min(1, load))))
}

// Load returns the output level last set.
func (t *EngineTone) Load() float64 {
	return math.Float64frombits(t.load.Load())
}

// Frequency returns the firing frequency in Hz for an engine speed: each
// cylinder fires once every two revolutions.
func Frequency(rpm float64, cylinders int) float64 {
	return rpm / 60 * float64(cylinders) / 2
}

// Read implements io.Reader. It never returns an error.
func (t *EngineTone) Read(p []byte) (int, error) {
	n := 0
	if len(t.rem) > 0 {
		n = copy(p, t.rem)
		t.rem = t.rem[n:]
		if n == len(p) {
			return n, nil
		}
	}

	target := t.RPM() / 60 * t.cylinders / 2
	load := t.Load()

	var frame [bytesPerFrame]byte
	for n < len(p) {
		t.freq += (target - t.freq) * glide
		t.gain += (load - t.gain) * glide

		t.phase += t.freq / t.sampleRate
		t.phase -= math.Floor(t.phase)

		saw := 2*t.phase - 1
		sub := math.Sin(math.Pi * t.phase)
		sample := (0.6*saw + 0.4*sub) * t.gain * 0.5
		putFrame(frame[:], sample)

		c := copy(p[n:], frame[:])
		n += c
		if c < bytesPerFrame {
			t.rem = append(t.rem[:0], frame[c:]...)
		}
	}
	return n, nil
}

// putFrame writes a [-1, 1] sample as float32 LE to both channels.
func putFrame(buf []byte, sample float64) {
	v := math.Float32bits(float32(sample))
	for ch := 0; ch < ChannelCount; ch++ {
		o := ch * 4
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
}
