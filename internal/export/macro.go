package export

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/schollz/cuetimeline/internal/timecode"
	"github.com/schollz/cuetimeline/internal/types"
)

const (
	macroDataVersion = "1.4.0.0"
	baseAppearance   = "Cue Point Lighting"
)

var (
	sixHexRe  = regexp.MustCompile(`(?i)^#?([0-9a-f]{6})$`)
	nonHexRe  = regexp.MustCompile(`(?i)[^0-9a-f]`)
	isoStamps = strings.NewReplacer("-", "d", ":", "t")
)

type macroLine struct {
	Command string `xml:"Command,attr"`
	Wait    string `xml:"Wait,attr,omitempty"`
}

type macroBody struct {
	Name  string      `xml:"Name,attr"`
	Lines []macroLine `xml:"MacroLine"`
}

type macroDocument struct {
	XMLName     xml.Name  `xml:"GMA3"`
	DataVersion string    `xml:"DataVersion,attr"`
	Macro       macroBody `xml:"Macro"`
}

// script collects macro command lines in order
type script struct {
	lines []macroLine
}

func (s *script) add(format string, args ...any) {
	s.lines = append(s.lines, macroLine{Command: fmt.Sprintf(format, args...)})
}

func (s *script) addWait(command string) {
	s.lines = append(s.lines, macroLine{Command: command, Wait: "0.01"})
}

// arg makes user text safe inside a double-quoted command argument
func arg(s string) string {
	return strings.ReplaceAll(s, `"`, "'")
}

func appearanceName(hex string) string {
	norm := strings.ToLower(nonHexRe.ReplaceAllString(hex, ""))
	if len(norm) > 6 {
		norm = norm[:6]
	}
	return "Cue Color #" + norm
}

func appearanceRGB(hex string) (r, g, b uint8) {
	m := sixHexRe.FindStringSubmatch(hex)
	if m == nil {
		return 255, 68, 68
	}
	c, err := colorful.Hex("#" + m[1])
	if err != nil {
		return 255, 68, 68
	}
	return c.RGB255()
}

// datapoolName is a temporary pool name derived from the UTC time
func datapoolName(t time.Time) string {
	stamp := isoStamps.Replace(t.UTC().Format("2006-01-02T15:04:05.000Z"))
	return "Markers" + stamp[:19]
}

// Macro renders the lighting-console macro XML. It returns nil when there
// are no cues.
func Macro(p Project) ([]byte, error) {
	if len(p.Cues) == 0 {
		return nil, nil
	}
	ids := p.Settings.ResolveMacroIDs()
	seq, tc, page := ids.Sequence, ids.Timecode, ids.Page
	trigger := arg(p.Settings.Trigger())
	base := arg(p.BaseName)
	generated := p.Generated
	if generated.IsZero() {
		generated = time.Now()
	}
	dp := datapoolName(generated)

	s := &script{}
	s.addWait("cd root")
	s.add(`Store Appearance "%s"`, baseAppearance)
	s.add(`Set Appearance "%s" Property Color "1,1,1,0" BackR "83" BackG "18" BackB "24" BackAlpha "221"`, baseAppearance)

	seen := map[string]bool{}
	for _, c := range p.Cues {
		hex := strings.ToLower(c.MarkerColor)
		if hex == "" || seen[hex] {
			continue
		}
		seen[hex] = true
		r, g, b := appearanceRGB(hex)
		name := appearanceName(hex)
		s.add(`Store Appearance "%s"`, name)
		s.add(`Set Appearance "%s" Property Color "1,1,1,0" BackR "%d" BackG "%d" BackB "%d" BackAlpha "221"`, name, r, g, b)
	}
	s.add(`Delete DataPool "%s" /NC`, dp)
	s.add(`Store DataPool "%s" /NC`, dp)
	s.add(`Delete DataPool "%s" Sequence 1 /NC`, dp)

	for i, c := range p.Cues {
		n := i + 1
		s.add(`Store DataPool "%s" Sequence %d Cue %d /Merge`, dp, seq, n)
		s.add(`DataPool "%s" Sequence %d Cue %d CueFade %s`, dp, seq, n, timecode.FormatNumber(c.Fade))
		app := baseAppearance
		if c.MarkerColor != "" {
			app = appearanceName(strings.ToLower(c.MarkerColor))
		}
		s.add(`Set DataPool "%s" Sequence %d Cue %d Property APPEARANCE "%s"`, dp, seq, n, app)
	}
	s.add(`Set DataPool "%s" Sequence %d Property APPEARANCE "%s"`, dp, seq, baseAppearance)

	s.add("cd root")
	s.add(`Store DataPool "%s" Timecode %d`, dp, tc)
	s.add(`cd DataPool "%s" Timecode %d`, dp, tc)
	s.add(`Store 1 "Markers"`)
	s.add("cd 1")
	s.add("cd root")
	s.add(`cd DataPool "%s"`, dp)
	s.add(`cd "Timecodes"`)
	s.add(`set %d Property FRAMEREADOUT "%d fps"`, tc, types.FPS)
	s.add(`set %d Property OFFSETTCSLOT "0"`, tc)
	s.add(`set %d Property DURATION "%s"`, tc, timecode.FormatSeconds(p.Duration))
	s.add(`set %d Property IGNOREFOLLOW "1"`, tc)
	s.add(`set %d Property PLAYBACKANDRECORD "Manual Events"`, tc)
	s.add("cd root")
	s.add(`cd DataPool "%s" Timecode %d`, dp, tc)
	s.add("cd 1")
	s.add(`Assign DataPool "%s" Sequence %d At 1`, dp, seq)
	s.add("cd 1")
	s.add("cd 1")
	s.add(`Store Type "CmdSubTrack" 1`)
	s.add("cd 1")
	for i, c := range p.Cues {
		n := i + 1
		s.add("Store %d", n)
		s.add(`Set %d "TIME" "%s"`, n, timecode.FormatSeconds(c.Time))
		s.add(`Set %d "TOKEN" "%s"`, n, trigger)
	}

	s.add("cd root")
	s.add(`cd DataPool "%s"`, dp)
	for i := range p.Cues {
		n := i + 1
		s.add(`Assign DataPool "%s" Sequence %d Cue %d At Timecode %d.1.1.1.1.%d`, dp, seq, n, tc, n)
	}

	s.addWait("cd root")
	s.add("Store Page %d", page)
	s.add(`Assign DataPool "%s" Sequence %d At Page %d.101`, dp, seq, page)
	for i, c := range p.Cues {
		n := i + 1
		title := c.Name
		if strings.TrimSpace(title) == "" {
			title = fmt.Sprintf("Cue %d", n)
		}
		s.add(`Label DataPool "%s" Sequence %d Cue %d "%s"`, dp, seq, n, arg(title))
		if c.Description != "" {
			s.add(`Set DataPool "%s" Sequence %d Cue %d Property "note" "%s"`, dp, seq, n, arg(c.Description))
		}
	}
	s.add(`Label DataPool "%s" Sequence %d "Lighting %d"`, dp, seq, seq)
	s.add(`Label DataPool "%s" Timecode %d "%s"`, dp, tc, base)
	s.add(`Label Page %d "%s"`, page, base)

	s.add(`Move DataPool "%s" Sequence 1 Thru At Sequence %d`, dp, seq)
	s.add(`Move DataPool "%s" Timecode 1 Thru At Timecode %d`, dp, tc)
	s.add(`Delete DataPool "%s" /NoConfirm`, dp)

	doc := macroDocument{
		DataVersion: macroDataVersion,
		Macro:       macroBody{Name: p.Prefix(), Lines: s.lines},
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode macro: %w", err)
	}
	out := append([]byte(xml.Header), body...)
	return append(out, '\n'), nil
}
