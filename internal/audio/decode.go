// Package audio decodes media bytes to per-channel samples for the waveform.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/faiface/beep/mp3"
	"github.com/go-audio/wav"
)

// ErrUnsupportedFormat is returned for media the decoder cannot read.
// Callers fall back to a duration-only timeline.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decoded is the result of decoding a media file
type Decoded struct {
	Channels   [][]float64
	SampleRate int
	Duration   float64
}

// Channel returns the first channel, or nil
func (d *Decoded) Channel() []float64 {
	if d == nil || len(d.Channels) == 0 {
		return nil
	}
	return d.Channels[0]
}

// Decoder turns named media bytes into samples
type Decoder interface {
	Decode(name string, data []byte) (*Decoded, error)
}

// FileDecoder picks a decoder from the file extension
type FileDecoder struct{}

// Decode implements Decoder
func (FileDecoder) Decode(name string, data []byte) (*Decoded, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".wav":
		return DecodeWAV(bytes.NewReader(data))
	case ".mp3":
		return DecodeMP3(io.NopCloser(bytes.NewReader(data)))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// DecodeWAV reads PCM WAV data and scales samples to [-1, 1]
func DecodeWAV(rs io.ReadSeeker) (*Decoded, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid wav file", ErrUnsupportedFormat)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav data: %w", err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 || buf.Format.SampleRate < 1 {
		return nil, fmt.Errorf("%w: wav without format", ErrUnsupportedFormat)
	}

	numChannels := buf.Format.NumChannels
	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << uint(bitDepth-1))

	frames := len(buf.Data) / numChannels
	channels := make([][]float64, numChannels)
	for c := range channels {
		channels[c] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < numChannels; c++ {
			channels[c][i] = float64(buf.Data[i*numChannels+c]) / scale
		}
	}

	return &Decoded{
		Channels:   channels,
		SampleRate: buf.Format.SampleRate,
		Duration:   float64(frames) / float64(buf.Format.SampleRate),
	}, nil
}

// DecodeMP3 decodes a whole MP3 stream into stereo channels
func DecodeMP3(rc io.ReadCloser) (*Decoded, error) {
	stream, format, err := mp3.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer stream.Close()

	left := make([]float64, 0, stream.Len())
	right := make([]float64, 0, stream.Len())
	chunk := make([][2]float64, 4096)
	for {
		n, ok := stream.Stream(chunk)
		for _, s := range chunk[:n] {
			left = append(left, s[0])
			right = append(right, s[1])
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode mp3: %w", err)
	}

	rate := int(format.SampleRate)
	if rate <= 0 {
		return nil, fmt.Errorf("%w: mp3 without sample rate", ErrUnsupportedFormat)
	}
	channels := [][]float64{left, right}
	if format.NumChannels == 1 {
		channels = channels[:1]
	}
	return &Decoded{
		Channels:   channels,
		SampleRate: rate,
		Duration:   float64(len(left)) / float64(rate),
	}, nil
}
