package audio

// ----- Voice ----- //

const headroom = 0.3

// Voice is a gated sine oscillator with a detune knob. Velocity is ignored.
type Voice struct {
	registry *Registry
	osc      *SineOscillator
	noteOn   bool
	detune   int16 // cent
}

var _ Triggered = (*Voice)(nil)
var _ Parametric = (*Voice)(nil)
var _ Processor[Signal] = (*Voice)(nil)

// NewVoice ...
func NewVoice(registry *Registry) *Voice {
	return &Voice{
		registry: registry,
		osc:      NewSineOscillator(),
	}
}

// Trigger ...
func (v *Voice) Trigger(e Event) {
	switch e.(type) {
	case NoteOn:
		v.noteOn = true
		v.osc.Trigger(e)
	case NoteOff:
		v.noteOn = false
	case PitchBend:
		v.osc.Trigger(e)
	}
}

// SetParam ...
func (v *Voice) SetParam(id ParamID, normalized float64) {
	switch id {
	case Detune:
		v.detune = int16(v.registry.Denormalize(Detune, normalized))
		v.Trigger(PitchBend{Ratio: RatioFromCents(float64(v.detune))})
	}
}

// Params lists the parameters the voice responds to.
func (v *Voice) Params() []ParamID {
	return []ParamID{Detune}
}

// GetParam ...
func (v *Voice) GetParam(id ParamID) float64 {
	switch id {
	case Detune:
		return float64(v.detune)
	}
	return 0
}

// Process renders one sample. The oscillator runs even while the gate is closed.
func (v *Voice) Process(sampleRate float64) Signal {
	osc := v.osc.Process(sampleRate)
	value := 0.0
	if v.noteOn {
		value = headroom * osc
	}
	return Signal{L: value, R: value}
}

// ----- Velocity Gain ----- //

// velocityGain follows the velocity of the latest NoteOn.
type velocityGain struct {
	value float64
}

func (g *velocityGain) Trigger(e Event) {
	if e, ok := e.(NoteOn); ok {
		g.value = e.Velocity
	}
}

// ----- Instrument ----- //

// Instrument puts a NoteStutter in front of a Voice. Unlike the plain Voice
// its output follows velocity, so each retrigger is quieter than the last.
type Instrument struct {
	registry *Registry
	voice    *Voice
	gain     *velocityGain
	stutter  *NoteStutter
	targets  []Triggered

	stutterTime  float64 // ms
	stutterDepth float64 // %
}

var _ Triggered = (*Instrument)(nil)
var _ Parametric = (*Instrument)(nil)
var _ Processor[Signal] = (*Instrument)(nil)

// NewInstrument ...
func NewInstrument(registry *Registry) *Instrument {
	voice := NewVoice(registry)
	gain := &velocityGain{value: 1}
	return &Instrument{
		registry:     registry,
		voice:        voice,
		gain:         gain,
		stutter:      NewNoteStutter(),
		targets:      []Triggered{gain, voice},
		stutterTime:  defaultStutterTime * 1000,
		stutterDepth: defaultStutterDepth * 100,
	}
}

// Trigger ...
func (in *Instrument) Trigger(e Event) {
	switch e.(type) {
	case NoteOn, NoteOff:
		in.stutter.Trigger(e, in.targets...)
	case PitchBend:
		in.voice.Trigger(e)
	}
}

// SetParam ...
func (in *Instrument) SetParam(id ParamID, normalized float64) {
	switch id {
	case Detune:
		in.voice.SetParam(id, normalized)
	case StutterTime:
		in.stutterTime = in.registry.Denormalize(id, normalized)
		in.stutter.setPlain(id, in.stutterTime/1000)
	case StutterDepth:
		in.stutterDepth = in.registry.Denormalize(id, normalized)
		in.stutter.setPlain(id, in.stutterDepth/100)
	}
}

// Params ...
func (in *Instrument) Params() []ParamID {
	return []ParamID{Detune, StutterTime, StutterDepth}
}

// GetParam ...
func (in *Instrument) GetParam(id ParamID) float64 {
	switch id {
	case Detune:
		return in.voice.GetParam(id)
	case StutterTime:
		return in.stutterTime
	case StutterDepth:
		return in.stutterDepth
	}
	return 0
}

// Process steps the stutter first so a retrigger lands on this sample.
func (in *Instrument) Process(sampleRate float64) Signal {
	in.stutter.Process(sampleRate, in.targets...)
	s := in.voice.Process(sampleRate)
	return Signal{L: s.L * in.gain.value, R: s.R * in.gain.value}
}
