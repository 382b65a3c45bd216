package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// ----- Offline Render ----- //

// RenderNote holds note for the given duration and returns 16-bit stereo PCM.
// A negative duration renders nothing.
func (a *Audio) RenderNote(note uint16, velocity float64, seconds float64) []byte {
	a.Trigger(NoteOn{Note: note, Velocity: velocity})
	a.state.Lock()
	defer a.state.Unlock()
	frames := int(seconds * a.state.sampleRate)
	if frames < 0 {
		frames = 0
	}
	buf := make([]byte, frames*bytesPerSample)
	a.render(buf)
	a.state.synth.Trigger(NoteOff{Note: note})
	return buf
}

// WriteWav writes pcm (16-bit little-endian stereo) as a .wav file.
func (a *Audio) WriteWav(w io.Writer, pcm []byte) error {
	buf := new(bytes.Buffer)
	wavHeader(len(pcm), int(a.state.sampleRate), buf)
	buf.Write(pcm)
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("could not write wav: %w", err)
	}
	return nil
}

// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
func wavHeader(dataSize int, sampleRate int, buf *bytes.Buffer) {
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channelNum))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bitDepthInBytes))         // bits per sample
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
}
