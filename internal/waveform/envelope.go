// Package waveform reduces decoded audio to the amplitude data drawn on the
// timeline.
package waveform

import (
	"math"

	"github.com/schollz/cuetimeline/internal/types"
)

// Envelope holds mean absolute amplitudes of consecutive equal blocks of
// one channel, in order.
type Envelope []float64

// Sample reduces one channel to exactly types.EnvelopeSize values. Each value
// is the mean absolute amplitude of a block of floor(len/EnvelopeSize)
// samples; trailing samples that do not fill a block are dropped. Channels
// shorter than EnvelopeSize give an all-zero envelope.
func Sample(channel []float64) Envelope {
	return SampleN(channel, types.EnvelopeSize)
}

// SampleN is Sample with an explicit output size
func SampleN(channel []float64, n int) Envelope {
	if n <= 0 {
		return Envelope{}
	}
	out := make(Envelope, n)
	blockSize := len(channel) / n
	if blockSize == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		start := i * blockSize
		var sum float64
		for _, v := range channel[start : start+blockSize] {
			sum += math.Abs(v)
		}
		out[i] = sum / float64(blockSize)
	}
	return out
}

// Range returns the largest amplitude between times t0 and t1, used when
// a single terminal column covers many envelope values
func (e Envelope) Range(t0, t1, duration float64) float64 {
	if len(e) == 0 || duration <= 0 {
		return 0
	}
	if t1 < t0 {
		t0, t1 = t1, t0
	}
	lo := int(math.Max(0, t0/duration*float64(len(e))))
	hi := int(math.Min(float64(len(e)), math.Ceil(t1/duration*float64(len(e)))))
	if lo >= len(e) || hi <= 0 {
		return 0
	}
	if hi <= lo {
		return e[lo]
	}
	peak := 0.0
	for _, v := range e[lo:hi] {
		if v > peak {
			peak = v
		}
	}
	return peak
}
