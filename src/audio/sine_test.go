package audio

import (
	"math"
	"testing"
)

func TestSineFrequency(t *testing.T) {
	o := NewSineOscillator()
	o.Trigger(NoteOn{Note: 69, Velocity: 1})
	expectNearlyEqual(t, o.freq, 440)
	o.Trigger(NoteOn{Note: 81, Velocity: 0.2})
	expectNearlyEqual(t, o.freq, 880)
	o.Trigger(NoteOn{Note: 57})
	expectNearlyEqual(t, o.freq, 220)
	o.Trigger(NoteOn{Note: 0})
	expectNearlyEqual(t, o.freq, 440*math.Pow(2, -69.0/12))
}

func TestSineIgnoresNoteOff(t *testing.T) {
	o := NewSineOscillator()
	o.Trigger(NoteOn{Note: 60, Velocity: 1})
	o.Trigger(PitchBend{Ratio: 1})
	o.Process(44100)
	before := *o
	o.Trigger(NoteOff{Note: 60})
	expectEqual(t, *o, before)
}

func TestSineSilentWithoutPitchBend(t *testing.T) {
	o := NewSineOscillator()
	o.Trigger(NoteOn{Note: 60, Velocity: 1})
	for i := 0; i < 10000; i++ {
		if v := o.Process(44100); v != 0 {
			t.Fatalf("expected silence at sample %d, but got: %v", i, v)
		}
	}
	o.Trigger(PitchBend{Ratio: 1})
	if v := o.Process(44100); v == 0 {
		t.Errorf("expected sound after pitch bend")
	}
}

func TestSineProcess(t *testing.T) {
	o := NewSineOscillator()
	o.Trigger(NoteOn{Note: 69, Velocity: 1})
	o.Trigger(PitchBend{Ratio: 1})
	// a quarter turn per sample
	sampleRate := 4 * 440.0
	expectNearlyEqual(t, o.Process(sampleRate), 1)
	expectNearlyEqual(t, o.Process(sampleRate), 0)
	expectNearlyEqual(t, o.Process(sampleRate), -1)
	expectNearlyEqual(t, o.Process(sampleRate), 0)
	expectNearlyEqual(t, o.phase, 2*math.Pi)
}

func TestSinePitchBendScalesFrequency(t *testing.T) {
	o := NewSineOscillator()
	o.Trigger(NoteOn{Note: 69, Velocity: 1})
	o.Trigger(PitchBend{Ratio: 2})
	sampleRate := 4 * 440.0
	expectNearlyEqual(t, o.Process(sampleRate), 0) // half turn
	expectNearlyEqual(t, o.phase, math.Pi)
}

func TestSinePhaseIsNotWrapped(t *testing.T) {
	o := NewSineOscillator()
	o.Trigger(NoteOn{Note: 69, Velocity: 1})
	o.Trigger(PitchBend{Ratio: 1})
	for i := 0; i < 44100; i++ {
		o.Process(44100)
	}
	if turns := o.phase / (2 * math.Pi); math.Abs(turns-440) > 1e-6 {
		t.Errorf("expected 440 turns, but got: %v", turns)
	}
}

func TestRatioFromCents(t *testing.T) {
	expectEqual(t, RatioFromCents(0), 1.0)
	expectNearlyEqual(t, RatioFromCents(1200), 2)
	expectNearlyEqual(t, RatioFromCents(-1200), 0.5)
	expectNearlyEqual(t, RatioFromCents(100), math.Pow(2, 1.0/12))
}
