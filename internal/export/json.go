package export

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/schollz/cuetimeline/internal/timecode"
	"github.com/schollz/cuetimeline/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonCue struct {
	Number        int     `json:"number"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Time          float64 `json:"time"`
	TimeFormatted string  `json:"timeFormatted"`
	Fade          float64 `json:"fade"`
	MarkerColor   string  `json:"markerColor"`
}

type jsonProject struct {
	AudioFile string         `json:"audioFile"`
	Duration  float64        `json:"duration"`
	Cues      []jsonCue      `json:"cues"`
	Settings  types.Settings `json:"settings"`
}

// JSON renders the project document with two-space indentation
func JSON(p Project) ([]byte, error) {
	doc := jsonProject{
		AudioFile: p.MediaName,
		Duration:  p.Duration,
		Cues:      make([]jsonCue, 0, len(p.Cues)),
		Settings:  p.Settings,
	}
	for i, c := range p.Cues {
		doc.Cues = append(doc.Cues, jsonCue{
			Number:        i + 1,
			Title:         c.DisplayName(),
			Description:   c.Description,
			Time:          c.Time,
			TimeFormatted: timecode.FormatTime(c.Time),
			Fade:          c.Fade,
			MarkerColor:   c.MarkerColor,
		})
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}
	return b, nil
}

// Imported is the result of parsing a cue file. Settings is nil when the
// file carried none.
type Imported struct {
	Records  []types.Record
	Settings *types.Settings
}

// ParseJSON reads a project document. A settings object in the document is
// merged over current; keys it does not name keep their current values.
func ParseJSON(data []byte, current types.Settings) (*Imported, error) {
	var doc map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	rawCues, ok := doc["cues"]
	if !ok {
		return nil, fmt.Errorf("%w: missing cues array", ErrMalformedImport)
	}
	var entries []map[string]any
	if !hasPrefix(rawCues, "[") {
		return nil, fmt.Errorf("%w: cues is not an array", ErrMalformedImport)
	}
	if err := json.Unmarshal(rawCues, &entries); err != nil {
		return nil, fmt.Errorf("%w: cues is not an array of objects", ErrMalformedImport)
	}

	imp := &Imported{Records: make([]types.Record, 0, len(entries))}
	for _, e := range entries {
		name := stringField(e, "title")
		if name == "" {
			name = stringField(e, "name")
		}
		if name == "" {
			name = types.DefaultCueName
		}
		imp.Records = append(imp.Records, types.Record{
			Name:        name,
			Description: stringField(e, "description"),
			Time:        numberField(e, "time"),
			Fade:        math.Max(0, numberField(e, "fade")),
			MarkerColor: stringField(e, "markerColor"),
		})
	}

	if rawSettings, ok := doc["settings"]; ok && hasPrefix(rawSettings, "{") {
		merged, err := mergeSettings(current, rawSettings)
		if err != nil {
			return nil, fmt.Errorf("%w: settings: %v", ErrMalformedImport, err)
		}
		imp.Settings = &merged
	}
	return imp, nil
}

// mergeSettings lays the keys of raw over current one at a time. Values are
// coerced to the type of the current value; keys that are unknown or cannot
// be coerced keep the current value.
func mergeSettings(current types.Settings, raw []byte) (types.Settings, error) {
	var incoming map[string]any
	if err := json.Unmarshal(raw, &incoming); err != nil {
		return current, err
	}
	b, err := json.Marshal(current)
	if err != nil {
		return current, err
	}
	var values map[string]any
	if err := json.Unmarshal(b, &values); err != nil {
		return current, err
	}

	for key, v := range incoming {
		have, known := values[key]
		if !known || v == nil {
			continue
		}
		coerced, ok := coerceSetting(have, v)
		if !ok {
			log.Printf("Ignoring setting %s: cannot use %v", key, v)
			continue
		}
		values[key] = coerced
	}

	if b, err = json.Marshal(values); err != nil {
		return current, err
	}
	merged := current
	if err := json.Unmarshal(b, &merged); err != nil {
		return current, err
	}
	return merged, nil
}

// coerceSetting converts v to the JSON type of have
func coerceSetting(have, v any) (any, bool) {
	switch have.(type) {
	case bool:
		switch x := v.(type) {
		case bool:
			return x, true
		case float64:
			return x != 0, true
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			return b, err == nil
		}
	case float64:
		var f float64
		switch x := v.(type) {
		case float64:
			f = x
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return nil, false
			}
			f = parsed
		case bool:
			if x {
				f = 1
			}
		default:
			return nil, false
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
			return nil, false
		}
		return math.Round(f), true
	case string:
		switch x := v.(type) {
		case string:
			return x, true
		case float64:
			return timecode.FormatNumber(x), true
		case bool:
			return strconv.FormatBool(x), true
		}
	}
	return nil, false
}

func hasPrefix(raw []byte, prefix string) bool {
	return strings.HasPrefix(strings.TrimSpace(string(raw)), prefix)
}

func stringField(e map[string]any, key string) string {
	switch v := e[key].(type) {
	case string:
		return v
	case float64:
		return timecode.FormatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// numberField coerces numbers and numeric strings; anything else is 0
func numberField(e map[string]any, key string) float64 {
	switch v := e[key].(type) {
	case float64:
		return v
	case string:
		if f, ok := timecode.ParseSeconds(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	case bool:
		if v {
			return 1
		}
	}
	return 0
}
