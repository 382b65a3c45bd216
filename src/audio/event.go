package audio

import (
	"fmt"
	"math"
)

// ----- Event ----- //

// Event is one of NoteOn, NoteOff or PitchBend.
type Event interface {
	isEvent()
	String() string
}

// NoteOn ...
type NoteOn struct {
	Note     uint16
	Velocity float64 // 0-1
}

// NoteOff ...
type NoteOff struct {
	Note uint16
}

// PitchBend carries a frequency multiplier. 1.0 means no bend.
type PitchBend struct {
	Ratio float64
}

func (NoteOn) isEvent()    {}
func (NoteOff) isEvent()   {}
func (PitchBend) isEvent() {}

func (e NoteOn) String() string {
	return fmt.Sprintf("NoteOn{note:%d, vel:%.2f}", e.Note, e.Velocity)
}
func (e NoteOff) String() string {
	return fmt.Sprintf("NoteOff{note:%d}", e.Note)
}
func (e PitchBend) String() string {
	return fmt.Sprintf("PitchBend{ratio:%.4f}", e.Ratio)
}

// ----- Capabilities ----- //

// Triggered is anything that reacts to an Event. Delivery is synchronous.
type Triggered interface {
	Trigger(e Event)
}

// Processor produces one value per call.
type Processor[T any] interface {
	Process(sampleRate float64) T
}

// Signal is a stereo sample pair.
type Signal struct {
	L, R float64
}

// Parametric accepts normalized values and reports plain ones.
type Parametric interface {
	SetParam(id ParamID, normalized float64)
	GetParam(id ParamID) float64
}

// ----- Pitch ----- //

const noteNumberOf440Hz = 69

func frequencyFromNoteNumber(note uint16) float64 {
	return 440.0 * math.Pow(2, float64(int(note)-noteNumberOf440Hz)/12)
}

// RatioFromCents ...
func RatioFromCents(cents float64) float64 {
	return math.Pow(2, cents/1200)
}
