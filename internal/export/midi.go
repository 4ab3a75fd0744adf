package export

import (
	"bytes"
	"fmt"
	"math"

	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	midiTicksPerQuarter = 960
	midiBPM             = 120.0
)

// secondsToTicks converts seconds at the fixed export tempo
func secondsToTicks(sec float64) uint32 {
	if sec <= 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
		return 0
	}
	return uint32(math.Round(sec * midiBPM / 60 * midiTicksPerQuarter))
}

// MIDI renders a Standard MIDI File with one marker meta event per cue,
// named "{number} {name}", for DAW timelines. It returns nil when there
// are no cues.
func MIDI(p Project) ([]byte, error) {
	if len(p.Cues) == 0 {
		return nil, nil
	}
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(midiTicksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(p.Prefix()))
	track.Add(0, smf.MetaTempo(midiBPM))
	var last uint32
	for i, c := range p.Cues {
		at := secondsToTicks(c.Time)
		track.Add(at-last, smf.MetaMarker(fmt.Sprintf("%d %s", i+1, c.DisplayName())))
		last = at
	}
	end := secondsToTicks(p.Duration)
	if end < last {
		end = last
	}
	track.Close(end - last)
	if err := sm.Add(track); err != nil {
		return nil, fmt.Errorf("error adding marker track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("error writing MIDI file: %w", err)
	}
	return buf.Bytes(), nil
}
