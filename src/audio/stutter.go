package audio

// ----- Note Stutter ----- //

const (
	defaultStutterTime  = 0.07 // sec
	defaultStutterDepth = 0.0
)

// NoteStutter re-triggers the held note every `time` seconds, lowering the
// velocity by 1 - depth each cycle until it drops below zero.
// depth == 0 disables it. depth == 1 never decays.
type NoteStutter struct {
	timeCount float64 // sec since last retrigger
	note      uint16
	velocity  float64

	time  float64 // sec
	depth float64 // 0-1
}

// NewNoteStutter ...
func NewNoteStutter() *NoteStutter {
	return &NoteStutter{
		time:  defaultStutterTime,
		depth: defaultStutterDepth,
	}
}

// Trigger records note-on/off and forwards it to targets.
func (s *NoteStutter) Trigger(e Event, targets ...Triggered) {
	switch e := e.(type) {
	case NoteOn:
		s.note = e.Note
		s.velocity = e.Velocity
		forward(NoteOn{Note: s.note, Velocity: s.velocity}, targets)
	case NoteOff:
		s.velocity = 0
		forward(NoteOff{Note: e.Note}, targets)
	case PitchBend:
	}
}

// Process advances the cycle clock by one sample.
func (s *NoteStutter) Process(sampleRate float64, targets ...Triggered) {
	s.timeCount += 1.0 / sampleRate

	if s.depth != 0 && s.timeCount > s.time {
		s.timeCount = 0
		s.velocity -= 1.0 - s.depth

		if s.velocity < 0 {
			s.velocity = 0
			s.Trigger(NoteOff{Note: s.note}, targets...)
		} else {
			s.Trigger(NoteOn{Note: s.note, Velocity: s.velocity}, targets...)
		}
	}
}

// setPlain takes seconds for StutterTime and a 0-1 fraction for StutterDepth.
func (s *NoteStutter) setPlain(id ParamID, value float64) {
	switch id {
	case StutterTime:
		s.time = value
	case StutterDepth:
		s.depth = value
	}
}

func (s *NoteStutter) getPlain(id ParamID) float64 {
	switch id {
	case StutterTime:
		return s.time
	case StutterDepth:
		return s.depth
	}
	return 0
}

func forward(e Event, targets []Triggered) {
	for _, t := range targets {
		t.Trigger(e)
	}
}
