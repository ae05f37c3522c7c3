package playback

import (
	"encoding/binary"

	"github.com/agalue/pcmplayer/internal/config"
)

// bytesPerSample returns the on-wire width of one channel sample implied
// by a SampleFormat.
func bytesPerSample(f config.SampleFormat) int {
	switch f {
	case config.FormatU8:
		return 1
	case config.FormatS16LE, config.FormatS16BE:
		return 2
	case config.FormatS24LE, config.FormatS24BE, config.FormatS24_3LE, config.FormatS24_3BE:
		return 3
	case config.FormatS32LE, config.FormatS32BE:
		return 4
	default:
		return 2
	}
}

// decodeToInt16 converts a raw byte buffer encoded per format into signed
// 16-bit samples, one per encoded channel sample (interleaved channels
// stay interleaved), truncating wider formats down to
// the engine's native 16-bit domain (spec.md's WSOLA core operates on
// signed-16 streams only; wider formats lose their low-order bits here).
func decodeToInt16(raw []byte, format config.SampleFormat) []int16 {
	width := bytesPerSample(format)
	n := len(raw) / width
	out := make([]int16, n)

	for i := 0; i < n; i++ {
		frame := raw[i*width : i*width+width]
		switch format {
		case config.FormatU8:
			out[i] = (int16(frame[0]) - 128) << 8
		case config.FormatS16LE:
			out[i] = int16(binary.LittleEndian.Uint16(frame))
		case config.FormatS16BE:
			out[i] = int16(binary.BigEndian.Uint16(frame))
		case config.FormatS24LE, config.FormatS24_3LE:
			v := int32(frame[0]) | int32(frame[1])<<8 | int32(frame[2])<<16
			v = signExtend24(v)
			out[i] = int16(v >> 8)
		case config.FormatS24BE, config.FormatS24_3BE:
			v := int32(frame[2]) | int32(frame[1])<<8 | int32(frame[0])<<16
			v = signExtend24(v)
			out[i] = int16(v >> 8)
		case config.FormatS32LE:
			out[i] = int16(int32(binary.LittleEndian.Uint32(frame)) >> 16)
		case config.FormatS32BE:
			out[i] = int16(int32(binary.BigEndian.Uint32(frame)) >> 16)
		default:
			out[i] = int16(binary.LittleEndian.Uint16(frame))
		}
	}
	return out
}

func signExtend24(v int32) int32 {
	if v&0x00800000 != 0 {
		v |= ^int32(0xFFFFFF)
	}
	return v
}

// downmixToMono averages interleaved channels down to one for the mono
// playback device. The driver builds a WSOLA engine only for files that
// are mono on disk, so downmixed multichannel tracks bypass it.
func downmixToMono(interleaved []int16, channels int) []int16 {
	if channels <= 1 {
		return interleaved
	}
	n := len(interleaved) / channels
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		var sum int32
		for c := 0; c < channels; c++ {
			sum += int32(interleaved[i*channels+c])
		}
		out[i] = int16(sum / int32(channels))
	}
	return out
}
