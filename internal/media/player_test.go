package media

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTransport(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	p := NewTransport().WithClock(clock.now)

	t.Run("NoMedia", func(t *testing.T) {
		_, ok := p.Duration()
		assert.False(t, ok)
		assert.ErrorIs(t, p.Play(), ErrNoMedia)
		assert.True(t, p.Paused())
	})

	p.Load(10)

	t.Run("AdvancesWhilePlaying", func(t *testing.T) {
		require.NoError(t, p.Play())
		assert.False(t, p.Paused())
		clock.advance(2500 * time.Millisecond)
		assert.InDelta(t, 2.5, p.CurrentTime(), 1e-9)
		p.Pause()
		clock.advance(time.Second)
		assert.InDelta(t, 2.5, p.CurrentTime(), 1e-9)
	})

	t.Run("SeekWhilePlaying", func(t *testing.T) {
		require.NoError(t, p.Play())
		p.SetCurrentTime(7)
		clock.advance(time.Second)
		assert.InDelta(t, 8.0, p.CurrentTime(), 1e-9)
	})

	t.Run("StopsAtEnd", func(t *testing.T) {
		clock.advance(5 * time.Second)
		assert.Equal(t, 10.0, p.CurrentTime())
		assert.True(t, p.Paused())
		require.NoError(t, p.Play())
		assert.Equal(t, 0.0, p.CurrentTime(), "play at the end restarts")
		p.Pause()
	})

	t.Run("ClampedSeek", func(t *testing.T) {
		p.SetCurrentTime(-4)
		assert.Equal(t, 0.0, p.CurrentTime())
		p.SetCurrentTime(40)
		assert.Equal(t, 10.0, p.CurrentTime())
	})
}

func TestToggleAndSeek(t *testing.T) {
	p := NewTransport()
	p.Load(5)

	require.NoError(t, Toggle(p))
	assert.False(t, p.Paused())
	require.NoError(t, Toggle(p))
	assert.True(t, p.Paused())

	p.SetCurrentTime(1)
	Seek(p, -5)
	assert.Equal(t, 0.0, p.CurrentTime())
	Seek(p, 4.5)
	assert.InDelta(t, 4.5, p.CurrentTime(), 1e-9)
	Seek(p, 1)
	assert.Equal(t, 5.0, p.CurrentTime())
}
