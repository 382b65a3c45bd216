package audio

import "testing"

func runStutter(s *NoteStutter, sampleRate float64, samples int, targets ...Triggered) {
	for i := 0; i < samples; i++ {
		s.Process(sampleRate, targets...)
	}
}

func TestStutterDecay(t *testing.T) {
	s := NewNoteStutter()
	s.setPlain(StutterTime, 0.07)
	s.setPlain(StutterDepth, 0.5)
	r := &recorder{}
	s.Trigger(NoteOn{Note: 60, Velocity: 1.0}, r)

	// a cycle is about 3088 samples, so this crosses exactly three times
	runStutter(s, 44100, 10000, r)

	expected := []Event{
		NoteOn{Note: 60, Velocity: 1.0},
		NoteOn{Note: 60, Velocity: 0.5},
		NoteOn{Note: 60, Velocity: 0.0},
		NoteOff{Note: 60},
	}
	if len(r.events) != len(expected) {
		t.Fatalf("expected %v, but got: %v", expected, r.events)
	}
	for i, e := range expected {
		expectEqual(t, r.events[i], e)
	}
	expectEqual(t, s.velocity, 0.0)
}

func TestStutterCycleLength(t *testing.T) {
	s := NewNoteStutter()
	s.setPlain(StutterDepth, 0.5)
	r := &recorder{}
	s.Trigger(NoteOn{Note: 60, Velocity: 1.0}, r)
	runStutter(s, 44100, 3000, r)
	expectEqual(t, len(r.events), 1)
	runStutter(s, 44100, 200, r)
	expectEqual(t, len(r.events), 2)
}

func TestStutterInertAtZeroDepth(t *testing.T) {
	s := NewNoteStutter()
	r := &recorder{}
	s.Trigger(NoteOn{Note: 64, Velocity: 0.8}, r)
	runStutter(s, 44100, 100000, r)
	expectEqual(t, len(r.events), 1)
	expectEqual(t, s.velocity, 0.8)
}

func TestStutterNoteOff(t *testing.T) {
	s := NewNoteStutter()
	r := &recorder{}
	s.Trigger(NoteOn{Note: 64, Velocity: 0.8}, r)
	s.Trigger(NoteOff{Note: 64}, r)
	expectEqual(t, len(r.events), 2)
	expectEqual(t, r.events[1], Event(NoteOff{Note: 64}))
	expectEqual(t, s.velocity, 0.0)
}

func TestStutterIgnoresPitchBend(t *testing.T) {
	s := NewNoteStutter()
	r := &recorder{}
	s.Trigger(PitchBend{Ratio: 1.5}, r)
	expectEqual(t, len(r.events), 0)
}

func TestStutterFullDepthNeverDecays(t *testing.T) {
	s := NewNoteStutter()
	s.setPlain(StutterDepth, 1)
	r := &recorder{}
	s.Trigger(NoteOn{Note: 60, Velocity: 0.7}, r)
	runStutter(s, 44100, 44100, r)
	if len(r.events) < 10 {
		t.Fatalf("expected repeated retriggers, but got: %v", r.events)
	}
	for _, e := range r.events {
		expectEqual(t, e, Event(NoteOn{Note: 60, Velocity: 0.7}))
	}
}

func TestStutterForwardsToAllTargets(t *testing.T) {
	s := NewNoteStutter()
	s.setPlain(StutterDepth, 0.5)
	a, b := &recorder{}, &recorder{}
	s.Trigger(NoteOn{Note: 60, Velocity: 1.0}, a, b)
	runStutter(s, 44100, 10000, a, b)
	expectEqual(t, len(a.events), 4)
	expectEqual(t, len(b.events), 4)
}

func TestStutterParams(t *testing.T) {
	s := NewNoteStutter()
	expectEqual(t, s.getPlain(StutterTime), 0.07)
	expectEqual(t, s.getPlain(StutterDepth), 0.0)
	s.setPlain(StutterTime, 0.2)
	s.setPlain(StutterDepth, 0.3)
	s.setPlain(Detune, 100)
	expectEqual(t, s.getPlain(StutterTime), 0.2)
	expectEqual(t, s.getPlain(StutterDepth), 0.3)
	expectEqual(t, s.getPlain(Detune), 0.0)
}
