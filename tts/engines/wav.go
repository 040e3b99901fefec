package engines

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// WAV parsing errors.
var (
	ErrNotWAV      = errors.New("not a RIFF/WAVE file")
	ErrNoWAVData   = errors.New("WAV data chunk missing")
	ErrWAVEncoding = errors.New("unsupported WAV encoding")
)

// ParseWAV walks a RIFF/WAVE container and returns its 16-bit PCM payload
// and format. A data chunk whose size runs past the end of the buffer, as
// written by streaming encoders, is truncated to the bytes present.
func ParseWAV(wav []byte) ([]byte, Format, error) {
	if len(wav) < 12 || string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, Format{}, ErrNotWAV
	}

	var f Format
	foundFmt := false
	offset := 12
	for offset+8 <= len(wav) {
		id := string(wav[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(wav[offset+4 : offset+8]))
		body := offset + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(wav) {
				return nil, Format{}, fmt.Errorf("%w: short fmt chunk", ErrNotWAV)
			}
			audioFormat := binary.LittleEndian.Uint16(wav[body : body+2])
			bits := binary.LittleEndian.Uint16(wav[body+14 : body+16])
			// 1 is PCM, 0xFFFE is WAVE_FORMAT_EXTENSIBLE.
			if (audioFormat != 1 && audioFormat != 0xFFFE) || bits != 16 {
				return nil, Format{}, fmt.Errorf("%w: format %d, %d bits", ErrWAVEncoding, audioFormat, bits)
			}
			f.Channels = int(binary.LittleEndian.Uint16(wav[body+2 : body+4]))
			f.SampleRate = int(binary.LittleEndian.Uint32(wav[body+4 : body+8]))
			foundFmt = true
		case "data":
			if !foundFmt {
				return nil, Format{}, fmt.Errorf("%w: data before fmt", ErrNotWAV)
			}
			end := body + size
			if size < 0 || end > len(wav) || end < body {
				end = len(wav)
			}
			data := wav[body:end]
			return data[:len(data)&^1], f, nil
		}

		// Chunks are word aligned.
		offset = body + size + size%2
		if size < 0 || offset < body {
			break
		}
	}
	return nil, Format{}, ErrNoWAVData
}

// ToMono averages interleaved 16-bit channels into one.
func ToMono(pcm []byte, channels int) []byte {
	if channels <= 1 {
		return pcm
	}
	frame := channels * 2
	frames := len(pcm) / frame
	out := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += int(int16(binary.LittleEndian.Uint16(pcm[i*frame+c*2:])))
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(sum/channels)))
	}
	return out
}

// Resample converts 16-bit mono PCM between sample rates using linear
// interpolation. The input is returned unchanged when the rates match.
func Resample(pcm []byte, srcRate, dstRate int) []byte {
	if srcRate <= 0 || dstRate <= 0 || srcRate == dstRate || len(pcm) < 2 {
		return pcm
	}
	srcSamples := len(pcm) / 2
	dstSamples := int(int64(srcSamples) * int64(dstRate) / int64(srcRate))
	if dstSamples == 0 {
		return nil
	}

	out := make([]byte, dstSamples*2)
	ratio := float64(srcRate) / float64(dstRate)
	for i := 0; i < dstSamples; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := pos - float64(idx)

		s0 := int16(binary.LittleEndian.Uint16(pcm[idx*2:]))
		s1 := s0
		if idx+1 < srcSamples {
			s1 = int16(binary.LittleEndian.Uint16(pcm[(idx+1)*2:]))
		}
		v := int16(float64(s0)*(1-frac) + float64(s1)*frac)
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// convert adapts PCM in format from to format to.
func convert(pcm []byte, from, to Format) []byte {
	if from.Channels > 1 && to.Channels == 1 {
		pcm = ToMono(pcm, from.Channels)
	}
	return Resample(pcm, from.SampleRate, to.SampleRate)
}
