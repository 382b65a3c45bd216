package audio

import "math"

// ----- Sine Oscillator ----- //

// SineOscillator is a phase accumulator. The phase is never wrapped.
type SineOscillator struct {
	phase float64 // radians
	freq  float64 // Hz
	pitch float64 // ratio, 0 until the first PitchBend
}

var _ Triggered = (*SineOscillator)(nil)
var _ Processor[float64] = (*SineOscillator)(nil)

// NewSineOscillator ...
func NewSineOscillator() *SineOscillator {
	return &SineOscillator{
		phase: 0,
		freq:  440,
		pitch: 0,
	}
}

// Trigger ...
func (o *SineOscillator) Trigger(e Event) {
	switch e := e.(type) {
	case NoteOn:
		o.freq = frequencyFromNoteNumber(e.Note)
	case NoteOff:
	case PitchBend:
		o.pitch = e.Ratio
	}
}

// Process advances the phase by one sample and returns sin(phase).
func (o *SineOscillator) Process(sampleRate float64) float64 {
	o.phase += (o.freq * o.pitch) * 2.0 * math.Pi / sampleRate
	return math.Sin(o.phase)
}
