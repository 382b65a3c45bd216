package audio

import (
	"context"
	"log"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/rtmididrv"
)

// the wheel covers the same span as the detune knob
const pitchBendRangeCents = 200.0

// ListenToMidiIn streams raw messages from the first input whose name starts
// with prefix. The channel is closed when ctx is done.
func ListenToMidiIn(ctx context.Context, prefix string) <-chan []byte {
	ch := make(chan []byte, 65536)
	go func() {
		defer close(ch)
		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("failed to initialize MIDI driver: %v\n", err)
			return
		}
		defer func() {
			err := drv.Close()
			if err != nil {
				log.Printf("failed to close MIDI driver: %v\n", err)
			}
		}()
		ins, err := drv.Ins()
		if err != nil {
			log.Printf("failed to get MIDI IN: %v\n", err)
			return
		}
		log.Printf("MIDI IN: %v\n", ins)

		found := -1
		for i, in := range ins {
			if strings.HasPrefix(in.String(), prefix) {
				found = i
				break
			}
		}
		if found < 0 {
			log.Printf("WARN: MIDI IN %q not found\n", prefix)
			return
		}
		in := ins[found]
		if err := in.Open(); err != nil {
			log.Printf("failed to open MIDI IN: %v\n", err)
			return
		}
		log.Println("opened " + in.String())
		defer func() {
			err := in.Close()
			if err != nil {
				log.Printf("failed to close MIDI IN: %v\n", err)
			}
		}()
		log.Println("start listening MIDI IN...")
		if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
			msg := make([]byte, len(data))
			copy(msg, data)
			select {
			case ch <- msg:
			default:
			}
		}); err != nil {
			log.Println("failed to set listener: " + err.Error())
			return
		}
		defer func() {
			log.Println("stop listening MIDI IN...")
			err := in.StopListening()
			if err != nil {
				log.Printf("failed to stop listening: %v\n", err)
			}
		}()
		<-ctx.Done()
	}()
	return ch
}

// decodeMidi maps a raw channel message to an Event. Note-on with velocity 0
// is a note-off.
func decodeMidi(data []byte) (Event, bool) {
	msg := midi.Message(data)
	var channel, key, velocity uint8
	var relative int16
	var absolute uint16
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		return NoteOn{Note: uint16(key), Velocity: float64(velocity) / 127}, true
	case msg.GetNoteEnd(&channel, &key):
		return NoteOff{Note: uint16(key)}, true
	case msg.GetPitchBend(&channel, &relative, &absolute):
		cents := float64(relative) / 8192 * pitchBendRangeCents
		return PitchBend{Ratio: RatioFromCents(cents)}, true
	}
	return nil, false
}

// AddMidiEvent ...
func (a *Audio) AddMidiEvent(data []byte) {
	e, ok := decodeMidi(data)
	if !ok {
		return
	}
	log.Printf("got %v: %v\n", e, data)
	a.Trigger(e)
}
