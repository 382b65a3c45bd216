package audio

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/hajimehoshi/oto"
)

const (
	channelNum      = 2
	bitDepthInBytes = 2
)
const bytesPerSample = bitDepthInBytes * channelNum

// ----- Synth ----- //

type synth interface {
	Triggered
	Parametric
	Processor[Signal]
	Params() []ParamID
}

// ----- State ----- //

// state is shared by the player, MIDI callbacks and the command loop.
// Every access goes through the mutex.
type state struct {
	sync.Mutex
	synth      synth
	sampleRate float64
	pos        int64
}

func newState(registry *Registry, cfg *Config) *state {
	var s synth
	if cfg.Stutter {
		s = NewInstrument(registry)
	} else {
		s = NewVoice(registry)
	}
	return &state{
		synth:      s,
		sampleRate: float64(cfg.SampleRate),
	}
}

// ----- Audio ----- //

// Audio ...
type Audio struct {
	ctx               context.Context
	otoContext        *oto.Context
	CommandCh         chan []string
	Registry          *Registry
	state             *state
	Changes           *Changes
	presets           *presetManager
	bufferSizeInBytes int
}

var _ io.Reader = (*Audio)(nil)

// NewAudio opens the output device and starts the command loop.
func NewAudio(cfg *Config) (*Audio, error) {
	audio, err := newAudio(cfg)
	if err != nil {
		return nil, err
	}
	otoContext, err := oto.NewContext(cfg.SampleRate, channelNum, bitDepthInBytes, audio.bufferSizeInBytes)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	audio.otoContext = otoContext
	go processCommands(audio, audio.CommandCh)
	return audio, nil
}

// NewOfflineAudio builds an Audio without an output device. It can only
// render to memory.
func NewOfflineAudio(cfg *Config) (*Audio, error) {
	return newAudio(cfg)
}

func newAudio(cfg *Config) (*Audio, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	audio := &Audio{
		ctx:               context.Background(),
		CommandCh:         make(chan []string, 256),
		Registry:          registry,
		state:             newState(registry, cfg),
		Changes:           NewChanges(),
		presets:           newPresetManager(cfg.PresetDir),
		bufferSizeInBytes: cfg.BufferSize * bytesPerSample,
	}
	// the oscillator stays silent until it sees a pitch bend, so push the
	// defaults the way a host does on load.
	audio.ResetParams()
	if cfg.Preset != "" {
		if err := audio.ApplyPreset(cfg.Preset); err != nil {
			return nil, err
		}
	}
	return audio, nil
}

func (a *Audio) Read(buf []byte) (int, error) {
	select {
	case <-a.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		a.state.Lock()
		defer a.state.Unlock()
		a.render(buf)
		return len(buf), nil
	}
}

func (a *Audio) render(buf []byte) {
	frames := len(buf) / bytesPerSample
	for i := 0; i < frames; i++ {
		s := a.state.synth.Process(a.state.sampleRate)
		writeSample(buf[bytesPerSample*i:], s.L, 0)
		writeSample(buf[bytesPerSample*i:], s.R, 1)
	}
	a.state.pos += int64(frames)
}

// writeSample stores one 16-bit little-endian value for channel ch.
func writeSample(frame []byte, value float64, ch int) {
	const max = 32767
	value = math.Max(-1, math.Min(1, value))
	b := int16(value * max)
	frame[2*ch] = byte(b)
	frame[2*ch+1] = byte(b >> 8)
}

// Close ...
func (a *Audio) Close() error {
	log.Println("Closing Audio...")
	close(a.CommandCh)
	if a.otoContext == nil {
		return nil
	}
	return a.otoContext.Close()
}

// Start blocks until ctx is cancelled.
func (a *Audio) Start(ctx context.Context) error {
	p := a.otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	a.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, a, make([]byte, a.bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// ----- Control ----- //

// Trigger ...
func (a *Audio) Trigger(e Event) {
	a.state.Lock()
	defer a.state.Unlock()
	a.state.synth.Trigger(e)
}

// ParamIDs lists the parameters the running synth responds to. Without the
// stutter only detune is live.
func (a *Audio) ParamIDs() []ParamID {
	a.state.Lock()
	defer a.state.Unlock()
	return a.state.synth.Params()
}

func (a *Audio) handles(id ParamID) bool {
	for _, p := range a.ParamIDs() {
		if p == id {
			return true
		}
	}
	return false
}

// SetParam ignores parameters the running synth does not have.
func (a *Audio) SetParam(id ParamID, normalized float64) {
	if !a.handles(id) {
		return
	}
	a.state.Lock()
	a.state.synth.SetParam(id, normalized)
	a.state.Unlock()
	a.Changes.Add(id.String())
}

// GetParam returns the plain value.
func (a *Audio) GetParam(id ParamID) float64 {
	a.state.Lock()
	defer a.state.Unlock()
	return a.state.synth.GetParam(id)
}

// ParamText returns the normalized value and its display string.
func (a *Audio) ParamText(id ParamID) (float64, string) {
	d := a.Registry.Descriptor(id)
	if d == nil {
		return 0, ""
	}
	normalized := d.Normalize(a.GetParam(id))
	return normalized, d.Format(normalized)
}

// ResetParams sets every live parameter to its default.
func (a *Audio) ResetParams() {
	for _, id := range a.ParamIDs() {
		a.SetParam(id, a.Registry.Descriptor(id).NormalizedDefault())
	}
}

// SetParamText applies a typed value. A rejected edit keeps the prior value.
func (a *Audio) SetParamText(id ParamID, text string) error {
	d := a.Registry.Descriptor(id)
	if d == nil {
		return fmt.Errorf("%w: %d", ErrUnknownParameter, id)
	}
	normalized, ok := d.Parse(text)
	if !ok {
		return fmt.Errorf("cannot parse %q for %s", text, id)
	}
	a.SetParam(id, normalized)
	return nil
}

// ApplyPreset ...
func (a *Audio) ApplyPreset(name string) error {
	p, err := a.presets.load(name)
	if err != nil {
		return err
	}
	return p.applyTo(a)
}

// SavePreset stores the current values under name.
func (a *Audio) SavePreset(name string) error {
	if err := a.presets.save(presetFrom(name, a)); err != nil {
		return err
	}
	a.Changes.Add(presetsChangeKey)
	return nil
}

// Presets lists the names in the preset directory.
func (a *Audio) Presets() ([]string, error) {
	return a.presets.getList()
}

// ----- Commands ----- //

const presetsChangeKey = "presets"

func processCommands(audio *Audio, commandCh <-chan []string) {
	for command := range commandCh {
		if err := audio.update(command); err != nil {
			log.Printf("[WARN] command %v: %v\n", command, err)
		}
	}
	log.Println("processCommands() ended.")
}

func (a *Audio) update(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}
	switch command[0] {
	case "note_on":
		if len(command) < 2 {
			return fmt.Errorf("note_on needs a note number")
		}
		note, err := strconv.ParseUint(command[1], 10, 16)
		if err != nil {
			return err
		}
		velocity := 1.0
		if len(command) > 2 {
			velocity, err = strconv.ParseFloat(command[2], 64)
			if err != nil {
				return err
			}
		}
		a.Trigger(NoteOn{Note: uint16(note), Velocity: velocity})
	case "note_off":
		if len(command) < 2 {
			return fmt.Errorf("note_off needs a note number")
		}
		note, err := strconv.ParseUint(command[1], 10, 16)
		if err != nil {
			return err
		}
		a.Trigger(NoteOff{Note: uint16(note)})
	case "pitch_bend":
		if len(command) != 2 {
			return fmt.Errorf("pitch_bend needs cents")
		}
		cents, err := strconv.ParseFloat(command[1], 64)
		if err != nil {
			return err
		}
		a.Trigger(PitchBend{Ratio: RatioFromCents(cents)})
	case "set":
		if len(command) != 3 {
			return fmt.Errorf("invalid key-value pair %v", command[1:])
		}
		id, err := ParamIDFromString(command[1])
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(command[2], 64)
		if err != nil {
			return err
		}
		a.SetParam(id, value)
	case "set_text":
		if len(command) < 3 {
			return fmt.Errorf("invalid key-value pair %v", command[1:])
		}
		id, err := ParamIDFromString(command[1])
		if err != nil {
			return err
		}
		return a.SetParamText(id, strings.Join(command[2:], " "))
	case "preset":
		if len(command) != 2 {
			return fmt.Errorf("preset needs a name")
		}
		return a.ApplyPreset(command[1])
	case "save_preset":
		if len(command) != 2 {
			return fmt.Errorf("save_preset needs a name")
		}
		return a.SavePreset(command[1])
	case "list_presets":
		a.Changes.Add(presetsChangeKey)
	case "reset":
		a.ResetParams()
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
	return nil
}
