package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeWAV builds a 16-bit PCM WAV file from interleaved samples
func makeWAV(samples []int16, sampleRate, channels int) []byte {
	var b bytes.Buffer
	dataLen := len(samples) * 2
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+dataLen))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1))
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&b, binary.LittleEndian, uint16(channels*2))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(dataLen))
	for _, s := range samples {
		binary.Write(&b, binary.LittleEndian, s)
	}
	return b.Bytes()
}

func TestDecodeWAV(t *testing.T) {
	t.Run("Mono", func(t *testing.T) {
		samples := make([]int16, 8000)
		for i := range samples {
			samples[i] = 16384
		}
		d, err := FileDecoder{}.Decode("tone.WAV", makeWAV(samples, 8000, 1))
		require.NoError(t, err)
		require.Len(t, d.Channels, 1)
		assert.Equal(t, 8000, d.SampleRate)
		assert.InDelta(t, 1.0, d.Duration, 1e-9)
		assert.InDelta(t, 0.5, d.Channel()[100], 1e-6)
	})

	t.Run("StereoDeinterleaved", func(t *testing.T) {
		samples := []int16{32767, -32768, 0, 16384, -16384, 0}
		d, err := FileDecoder{}.Decode("s.wav", makeWAV(samples, 3, 2))
		require.NoError(t, err)
		require.Len(t, d.Channels, 2)
		assert.Len(t, d.Channels[0], 3)
		assert.InDelta(t, -1.0, d.Channels[1][0], 1e-9)
		assert.InDelta(t, 0.5, d.Channels[1][1], 1e-9)
		assert.InDelta(t, 1.0, d.Duration, 1e-9)
	})
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := FileDecoder{}.Decode("clip.mov", []byte("whatever"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = FileDecoder{}.Decode("broken.wav", []byte("not a wav file at all"))
	assert.Error(t, err)

	_, err = FileDecoder{}.Decode("broken.mp3", []byte{0, 1, 2, 3})
	assert.Error(t, err)
}

func TestChannelNil(t *testing.T) {
	var d *Decoded
	assert.Nil(t, d.Channel())
}
