// Package timecode formats and parses the time representations used by
// the editor and the export formats.
package timecode

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	timecodeRe = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2}):(\d{2}):(\d{2})\s*$`)
	minSecRe   = regexp.MustCompile(`^\s*(\d+):(\d{1,2})(?:\.(\d{1,3}))?\s*$`)
)

// FormatTime renders seconds as M:SS
func FormatTime(seconds float64) string {
	if !isFinite(seconds) || seconds < 0 {
		seconds = 0
	}
	minutes := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatTimeDetailed renders seconds as M:SS.cc (hundredths)
func FormatTimeDetailed(seconds float64) string {
	if !isFinite(seconds) || seconds < 0 {
		seconds = 0
	}
	minutes := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	millis := int(math.Floor((seconds - math.Floor(seconds)) * 1000))
	return fmt.Sprintf("%d:%02d.%02d", minutes, secs, millis/10)
}

// FormatTimecode renders seconds as HH:MM:SS:FF at the given frame rate.
// Frames are rounded and capped at fps-1.
func FormatTimecode(seconds float64, fps int) string {
	if fps <= 0 {
		fps = 30
	}
	total := seconds
	if !isFinite(total) || total < 0 {
		total = 0
	}
	whole := math.Floor(total)
	hours := int(whole / 3600)
	minutes := int(math.Mod(whole, 3600) / 60)
	secs := int(math.Mod(whole, 60))
	frames := int(math.Round((total - whole) * float64(fps)))
	if frames > fps-1 {
		frames = fps - 1
	}
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, secs, frames)
}

// ParseTimecode parses HH:MM:SS:FF at the given frame rate
func ParseTimecode(s string, fps int) (float64, bool) {
	if fps <= 0 {
		fps = 30
	}
	m := timecodeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	ss, _ := strconv.Atoi(m[3])
	ff, _ := strconv.Atoi(m[4])
	return float64(hh*3600+mm*60+ss) + float64(ff)/float64(fps), true
}

// ParseMinSec parses M:SS with an optional fractional part of up to three digits
func ParseMinSec(s string) (float64, bool) {
	m := minSecRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	minutes, _ := strconv.Atoi(m[1])
	secs, _ := strconv.Atoi(m[2])
	value := float64(minutes*60 + secs)
	if m[3] != "" {
		frac, _ := strconv.ParseFloat("0."+m[3], 64)
		value += frac
	}
	return value, true
}

// ParseSeconds parses a bare number of seconds
func ParseSeconds(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseTime accepts a bare number of seconds, HH:MM:SS:FF at 30 fps or
// M:SS[.mmm], in that order.
func ParseTime(s string) (float64, bool) {
	if v, ok := ParseSeconds(s); ok {
		return v, true
	}
	if v, ok := ParseTimecode(s, 30); ok {
		return v, true
	}
	return ParseMinSec(s)
}

// FormatSeconds renders seconds with at most three decimals and no
// trailing zeros; negative and non-finite values become 0.
func FormatSeconds(v float64) string {
	if !isFinite(v) || v < 0 {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatNumber renders a number in its shortest form (12, 0.5, 2.25)
func FormatNumber(v float64) string {
	if !isFinite(v) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
