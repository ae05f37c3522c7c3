// Package wavfile validates and streams the canonical 44-byte PCM WAVE
// header of spec.md §6, scanning past any unknown subchunks that precede
// 'data' rather than assuming the format is exactly 44 bytes (resolves the
// WAVE Open Question in spec.md §9 by scanning).
package wavfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/riff"
)

// Format describes the decoded 'fmt ' subchunk payload.
type Format struct {
	AudioFormat   uint16 // 1 == PCM
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// File is an open WAVE file positioned at the start of its PCM sample
// data, ready for fixed-size chunk reads by the playback driver.
type File struct {
	f       *os.File
	Format  Format
	data    io.Reader // bounded to the 'data' subchunk's declared size
	dataOff int64     // byte offset of the first PCM sample, for seeking
	dataLen int64     // declared size of the 'data' subchunk
}

// Open validates the RIFF/WAVE/fmt magic strings and scans forward to the
// 'data' subchunk, draining (not rejecting) any unrecognised subchunks in
// between.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavfile: open %s: %w", path, err)
	}

	br := bufio.NewReader(f)
	parser := riff.New(br)

	var format Format
	var haveFormat bool
	var dataChunk *riff.Chunk

	for {
		chunk, err := parser.NextChunk()
		if err == io.EOF {
			break
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("wavfile: %s: reading chunks: %w", path, err)
		}

		switch string(chunk.ID[:]) {
		case "fmt ":
			if err := binary.Read(chunk.R, binary.LittleEndian, &format); err != nil {
				f.Close()
				return nil, fmt.Errorf("wavfile: %s: decoding fmt chunk: %w", path, err)
			}
			haveFormat = true
			chunk.Drain()
		case "data":
			dataChunk = chunk
		default:
			// Unknown subchunk before 'data': drain it and continue
			// scanning, per spec.md §9's resolution of the Open Question.
			chunk.Drain()
		}

		if dataChunk != nil {
			break
		}
	}

	if !parser.IsWAVE() {
		f.Close()
		return nil, fmt.Errorf("wavfile: %s: not a WAVE file", path)
	}
	if !haveFormat {
		f.Close()
		return nil, fmt.Errorf("wavfile: %s: missing fmt chunk", path)
	}
	if dataChunk == nil {
		f.Close()
		return nil, fmt.Errorf("wavfile: %s: missing data chunk", path)
	}
	if format.AudioFormat != 1 {
		f.Close()
		return nil, fmt.Errorf("wavfile: %s: unsupported audio_format %d (only PCM=1)", path, format.AudioFormat)
	}

	dataOff, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("wavfile: %s: locating data offset: %w", path, err)
	}
	dataOff -= int64(br.Buffered())

	return &File{
		f:       f,
		Format:  format,
		data:    io.LimitReader(dataChunk.R, int64(dataChunk.Size)),
		dataOff: dataOff,
		dataLen: int64(dataChunk.Size),
	}, nil
}

// ReadChunk reads up to len(buf) bytes of PCM sample data.
func (w *File) ReadChunk(buf []byte) (int, error) {
	return io.ReadFull(w.data, buf)
}

// SeekSamples repositions the PCM read pointer by deltaBytes relative to
// the current position, clamped to [0, dataLen], per spec.md §6's seek
// ±10s controls (backward seek clamps to start-of-data).
func (w *File) SeekSamples(deltaBytes int64) error {
	cur, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	pos := cur - w.dataOff + deltaBytes
	if pos < 0 {
		pos = 0
	}
	if pos > w.dataLen {
		pos = w.dataLen
	}
	_, err = w.f.Seek(w.dataOff+pos, io.SeekStart)
	if err != nil {
		return err
	}
	w.data = io.LimitReader(w.f, w.dataLen-pos)
	return nil
}

// Close releases the underlying file handle.
func (w *File) Close() error { return w.f.Close() }
