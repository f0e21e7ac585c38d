// Package wavwriter is a small dependency-free RIFF/WAVE writer for 16-bit
// stereo PCM, for tools that render a song to a file instead of a device.
// See http://soundfile.sapp.org/doc/WaveFormat/ for the format this writes.
package wavwriter

import (
	"encoding/binary"
	"errors"
	"io"
)

const wavTypePCM = 1

// ErrInvalidChunkHeaderLength means a chunk name passed to writeChunkHeader
// was not exactly 4 characters.
var ErrInvalidChunkHeaderLength = errors.New("wavwriter: chunk header name is not 4 characters")

// Writer writes a WAVE file to WS as samples arrive, patching the RIFF and
// data chunk sizes in on Finish once the total length is known. dataBytes is
// tracked independently of the stream position so a trailing LIST/INFO
// chunk (WriteTitle) can follow the data chunk without corrupting its size.
type Writer struct {
	WS        io.WriteSeeker
	dataBytes int64
}

type waveFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// NewWriter writes the RIFF/WAVE header (with placeholder sizes) for a
// 16-bit stereo PCM stream at sampleRate and returns a Writer ready for
// WriteFrame calls.
func NewWriter(ws io.WriteSeeker, sampleRate int) (*Writer, error) {
	w := &Writer{WS: ws}

	if err := w.writeChunkHeader("RIFF", 0); err != nil {
		return nil, err
	}
	if _, err := ws.Write([]byte("WAVE")); err != nil {
		return nil, err
	}

	if err := w.writeChunkHeader("fmt ", 16); err != nil {
		return nil, err
	}
	format := waveFormat{AudioFormat: wavTypePCM, Channels: 2, SampleRate: uint32(sampleRate), BitsPerSample: 16}
	format.ByteRate = format.SampleRate * 2 * (16 / 8)
	format.BlockAlign = 2 * (16 / 8)
	if err := binary.Write(ws, binary.LittleEndian, format); err != nil {
		return nil, err
	}

	if err := w.writeChunkHeader("data", 0); err != nil {
		return nil, err
	}

	return w, nil
}

// WriteFrame appends interleaved int16 stereo samples to the data chunk.
func (w *Writer) WriteFrame(samples []int16) error {
	if err := binary.Write(w.WS, binary.LittleEndian, samples); err != nil {
		return err
	}
	w.dataBytes += int64(len(samples)) * 2
	return nil
}

// WriteTitle appends a LIST/INFO chunk carrying the song's title (e.g. a MOD
// file's 20-byte header title) as an INAM sub-chunk, following the data
// chunk. It must be called after the last WriteFrame and before Finish.
// Players that don't understand LIST/INFO simply stop reading at the end of
// the data chunk, so this is safe to omit entirely when title is empty.
func (w *Writer) WriteTitle(title string) error {
	if title == "" {
		return nil
	}

	field := []byte(title)
	if len(field)%2 != 0 {
		field = append(field, 0) // chunks are word-aligned
	}

	listSize := 4 + 8 + len(field) // "INFO" + INAM header + payload
	if err := w.writeChunkHeader("LIST", listSize); err != nil {
		return err
	}
	if _, err := w.WS.Write([]byte("INFO")); err != nil {
		return err
	}
	if err := w.writeChunkHeader("INAM", len(field)); err != nil {
		return err
	}
	_, err := w.WS.Write(field)
	return err
}

// Finish patches the RIFF and data chunk sizes now that every frame (and any
// trailing WriteTitle chunk) has been written. It must be called exactly
// once, after the last WriteFrame/WriteTitle.
func (w *Writer) Finish() (int64, error) {
	wlen, err := w.WS.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}

	if _, err := w.WS.Seek(4, io.SeekStart); err != nil {
		return 0, err
	}
	if err := binary.Write(w.WS, binary.LittleEndian, int32(wlen-8)); err != nil {
		return 0, err
	}

	if _, err := w.WS.Seek(40, io.SeekStart); err != nil {
		return 0, err
	}
	if err := binary.Write(w.WS, binary.LittleEndian, int32(w.dataBytes)); err != nil {
		return 0, err
	}

	if _, err := w.WS.Seek(wlen, io.SeekStart); err != nil {
		return 0, err
	}

	return wlen, nil
}

func (w *Writer) writeChunkHeader(chunk string, initialSize int) error {
	if len(chunk) != 4 {
		return ErrInvalidChunkHeaderLength
	}
	if n, err := w.WS.Write([]byte(chunk)); n != 4 || err != nil {
		return err
	}
	return binary.Write(w.WS, binary.LittleEndian, int32(initialSize))
}
