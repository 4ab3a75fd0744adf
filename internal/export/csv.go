package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/schollz/cuetimeline/internal/timecode"
	"github.com/schollz/cuetimeline/internal/types"
)

var (
	consoleHeader     = []string{"Track", "Type", "Position", "CueNo", "Label", "Fade"}
	spreadsheetHeader = []string{"Cue#", "Name", "Description", "Time(seconds)", "Time(MM:SS)", "Timecode(HH:MM:SS:FF)", "Fade(seconds)", "MarkerColor", "ColorName"}

	unsafeCSVRe = regexp.MustCompile(`[",\n\r\t;]+`)
	spacesRe    = regexp.MustCompile(`\s{2,}`)
)

// Sanitize strips characters that trip console CSV importers (quotes,
// commas, newlines, tabs, semicolons) and collapses whitespace
func Sanitize(s string) string {
	s = unsafeCSVRe.ReplaceAllString(s, " ")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func quoteRow(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + c + `"`
	}
	return strings.Join(quoted, ",")
}

// ConsoleCSV renders the lighting-console dialect. Every cell is sanitized
// so quoting never needs escaping.
func ConsoleCSV(p Project) []byte {
	lines := []string{quoteRow(consoleHeader)}
	track := Sanitize(p.BaseName)
	kind := Sanitize("Lighting")
	for i, c := range p.Cues {
		lines = append(lines, quoteRow([]string{
			track,
			kind,
			Sanitize(timecode.FormatTimecode(c.Time, types.FPS)),
			strconv.Itoa(i + 1),
			Sanitize(c.DisplayName()),
			Sanitize(timecode.FormatNumber(c.Fade)),
		}))
	}
	return []byte(strings.Join(lines, "\n"))
}

// SpreadsheetCSV renders the detailed dialect meant for spreadsheets
func SpreadsheetCSV(p Project) []byte {
	lines := []string{strings.Join(spreadsheetHeader, ",")}
	for i, c := range p.Cues {
		color := c.MarkerColor
		if color == "" {
			color = types.DefaultMarkerColor
		}
		lines = append(lines, quoteRow([]string{
			strconv.Itoa(i + 1),
			Sanitize(c.DisplayName()),
			Sanitize(c.Description),
			strconv.FormatFloat(c.Time, 'f', 3, 64),
			timecode.FormatTime(c.Time),
			timecode.FormatTimecode(c.Time, types.FPS),
			Sanitize(timecode.FormatNumber(c.Fade)),
			Sanitize(color),
			types.ColorName(color),
		}))
	}
	return []byte(strings.Join(lines, "\n"))
}

// csv import column names, after lower-casing and removing spaces
var columnAliases = map[string]string{
	"number":                "number",
	"cueno":                 "number",
	"cue#":                  "number",
	"title":                 "title",
	"label":                 "title",
	"name":                  "title",
	"description":           "description",
	"time_seconds":          "time_seconds",
	"time(seconds)":         "time_seconds",
	"timecode":              "timecode",
	"position":              "timecode",
	"timecode(hh:mm:ss:ff)": "timecode",
	"fade_seconds":          "fade_seconds",
	"fade(seconds)":         "fade_seconds",
	"time":                  "time",
	"time_formatted":        "time_formatted",
	"time(mm:ss)":           "time_formatted",
	"fade":                  "fade",
	"marker_color":          "marker_color",
	"markercolor":           "marker_color",
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", ""))
}

// ParseCSV reads a header-driven cue CSV. Time is taken from time_seconds
// (falling back to timecode), then timecode, then time, then
// time_formatted. Rows whose time cannot be read get time 0.
func ParseCSV(data []byte) (*Imported, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty csv", ErrMalformedImport)
	}

	idx := map[string]int{}
	for i, h := range rows[0] {
		if col, ok := columnAliases[normalizeHeader(h)]; ok {
			if _, seen := idx[col]; !seen {
				idx[col] = i
			}
		}
	}
	cell := func(row []string, col string) (string, bool) {
		i, ok := idx[col]
		if !ok {
			return "", false
		}
		if i >= len(row) {
			return "", true
		}
		return row[i], true
	}

	records := make([]types.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := types.Record{Name: types.DefaultCueName}
		if v, ok := cell(row, "title"); ok {
			rec.Name = v
		}
		rec.Description, _ = cell(row, "description")
		rec.MarkerColor, _ = cell(row, "marker_color")

		if v, ok := cell(row, "fade_seconds"); ok {
			rec.Fade = parseFade(v)
		} else if v, ok := cell(row, "fade"); ok {
			rec.Fade = parseFade(v)
		}

		if v, ok := cell(row, "time_seconds"); ok {
			tc, _ := cell(row, "timecode")
			rec.Time = rowTime(v, tc)
		} else if tc, ok := cell(row, "timecode"); ok {
			rec.Time = rowTime("", tc)
		} else if v, ok := cell(row, "time"); ok {
			rec.Time = rowTime(v, "")
		} else if v, ok := cell(row, "time_formatted"); ok {
			rec.Time = rowTime(v, "")
		}

		if math.IsNaN(rec.Time) || math.IsInf(rec.Time, 0) {
			continue
		}
		records = append(records, rec)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Time < records[j].Time
	})
	return &Imported{Records: records}, nil
}

// rowTime reads seconds, then the timecode cell at 30 fps, then M:SS[.mmm]
func rowTime(t, tc string) float64 {
	if v, ok := timecode.ParseSeconds(t); ok {
		return v
	}
	if tc != "" {
		if v, ok := timecode.ParseTimecode(tc, types.FPS); ok {
			return v
		}
	}
	if v, ok := timecode.ParseTimecode(t, types.FPS); ok {
		return v
	}
	if v, ok := timecode.ParseMinSec(t); ok {
		return v
	}
	return 0
}

func parseFade(s string) float64 {
	v, ok := timecode.ParseSeconds(s)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
