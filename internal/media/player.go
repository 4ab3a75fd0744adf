// Package media provides the playback transport the editor drives and the
// file type table used to route loaded files.
package media

import (
	"errors"
	"sync"
	"time"
)

// ErrNoMedia is returned by Play when nothing is loaded
var ErrNoMedia = errors.New("no media loaded")

// Player is the playable media resource the timeline reads and seeks
type Player interface {
	CurrentTime() float64
	SetCurrentTime(t float64)
	// Duration returns false until the media length is known
	Duration() (float64, bool)
	Paused() bool
	Play() error
	Pause()
}

// Transport is a wall-clock Player. It has no audio output; the position
// advances with the clock while playing and stops at the end.
type Transport struct {
	mu       sync.Mutex
	duration float64
	known    bool
	position float64
	playing  bool
	started  time.Time
	now      func() time.Time
}

// NewTransport returns a stopped transport with no media
func NewTransport() *Transport {
	return &Transport{now: time.Now}
}

// WithClock replaces the clock, used by tests
func (p *Transport) WithClock(now func() time.Time) *Transport {
	p.now = now
	return p
}

// Load resets the transport for media of the given duration. A
// non-positive duration leaves the duration unknown.
func (p *Transport) Load(duration float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duration = duration
	p.known = duration > 0
	p.position = 0
	p.playing = false
}

// Unload forgets the media
func (p *Transport) Unload() {
	p.Load(0)
}

// CurrentTime implements Player
func (p *Transport) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentLocked()
}

func (p *Transport) currentLocked() float64 {
	if !p.playing {
		return p.position
	}
	t := p.position + p.now().Sub(p.started).Seconds()
	if p.known && t >= p.duration {
		p.position = p.duration
		p.playing = false
		return p.duration
	}
	return t
}

// SetCurrentTime implements Player. The time is clamped to the media.
func (p *Transport) SetCurrentTime(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t < 0 {
		t = 0
	}
	if p.known && t > p.duration {
		t = p.duration
	}
	p.position = t
	if p.playing {
		p.started = p.now()
	}
}

// Duration implements Player
func (p *Transport) Duration() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration, p.known
}

// Paused implements Player
func (p *Transport) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentLocked()
	return !p.playing
}

// Play implements Player. Playing at the end restarts from the beginning.
func (p *Transport) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.known {
		return ErrNoMedia
	}
	if p.playing {
		return nil
	}
	if p.position >= p.duration {
		p.position = 0
	}
	p.playing = true
	p.started = p.now()
	return nil
}

// Pause implements Player
func (p *Transport) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	p.position = p.currentLocked()
	p.playing = false
}

// Toggle plays when paused and pauses when playing
func Toggle(p Player) error {
	if p.Paused() {
		return p.Play()
	}
	p.Pause()
	return nil
}

// Seek moves the playhead by delta seconds, clamped to the media
func Seek(p Player, delta float64) {
	t := p.CurrentTime() + delta
	if d, ok := p.Duration(); ok && t > d {
		t = d
	}
	if t < 0 {
		t = 0
	}
	p.SetCurrentTime(t)
}
