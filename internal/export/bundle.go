package export

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/schollz/cuetimeline/internal/archive"
	"github.com/schollz/cuetimeline/internal/media"
)

const mediaFolder = "media/"

var mediaExtRe = regexp.MustCompile(`(?i)\.(mp3|wav|m4a|aac|ogg|mp4|webm|mov|mkv)$`)

// Media is the originally loaded media file to store in a bundle
type Media struct {
	Name string
	Data []byte
}

// Bundle packs the media (when given), the JSON, both CSV dialects, the
// macro (when there are cues), the MIDI markers and a README manifest.
func Bundle(p Project, m *Media) ([]byte, error) {
	var entries []archive.Entry
	mediaLine := "media/(no media saved)"
	if m != nil && m.Name != "" {
		name := mediaFolder + path.Base(m.Name)
		entries = append(entries, archive.Entry{Name: name, Data: m.Data})
		mediaLine = name
	}

	js, err := JSON(p)
	if err != nil {
		return nil, err
	}
	entries = append(entries,
		archive.Entry{Name: p.FileName(".json"), Data: js},
		archive.Entry{Name: p.FileName(".csv"), Data: ConsoleCSV(p)},
		archive.Entry{Name: p.FileName("_spreadsheet.csv"), Data: SpreadsheetCSV(p)},
	)

	contents := []string{
		mediaLine,
		p.FileName(".json"),
		p.FileName(".csv"),
		p.FileName("_spreadsheet.csv") + " (Detailed format)",
	}

	macro, err := Macro(p)
	if err != nil {
		return nil, err
	}
	if macro != nil {
		entries = append(entries, archive.Entry{Name: p.FileName("_macro.xml"), Data: macro})
		contents = append(contents, p.FileName("_macro.xml")+" (MA3 Macro)")
	}

	mid, err := MIDI(p)
	if err != nil {
		return nil, err
	}
	if mid != nil {
		entries = append(entries, archive.Entry{Name: p.FileName("_markers.mid"), Data: mid})
		contents = append(contents, p.FileName("_markers.mid")+" (MIDI markers)")
	}

	var readme strings.Builder
	fmt.Fprintf(&readme, "# %s\n\nBundle contains:\n", p.Prefix())
	for _, c := range contents {
		fmt.Fprintf(&readme, "- %s\n", c)
	}
	fmt.Fprintf(&readme, "\nGenerated: %s\n", p.generatedStamp())
	entries = append(entries, archive.Entry{Name: "README.md", Data: []byte(readme.String())})

	return archive.Pack(entries)
}

// BundleContents are the files located inside an opened bundle. Either
// file may be missing, but not both.
type BundleContents struct {
	// Base is the bundle file name without extension
	Base      string
	MediaName string
	MediaData []byte
	MediaType string
	CuesName  string
	CuesData  []byte
}

// HasMedia reports whether a media file was found
func (b *BundleContents) HasMedia() bool {
	return b.MediaName != ""
}

// HasCues reports whether a cue file was found
func (b *BundleContents) HasCues() bool {
	return b.CuesName != ""
}

// OpenBundle locates the media and cue files in a bundle. Media is taken
// from the media folder first, then the first file with an audio or video
// extension. Cues prefer {base}.json, then any JSON in the root, then
// {base}.csv, then any CSV in the root.
func OpenBundle(name string, data []byte) (*BundleContents, error) {
	zr, err := archive.Open(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
	}
	base := media.BaseName(name)
	if base == "" {
		base = "cues"
	}
	b := &BundleContents{Base: base}
	names := zr.Names()

	mediaEntry := ""
	for _, n := range names {
		if strings.HasPrefix(n, mediaFolder) && len(n) > len(mediaFolder) {
			mediaEntry = n
			break
		}
	}
	if mediaEntry == "" {
		for _, n := range names {
			if mediaExtRe.MatchString(n) {
				mediaEntry = n
				break
			}
		}
	}

	cuesEntry := findRoot(names, base, ".json")
	if cuesEntry == "" {
		cuesEntry = findRoot(names, base, ".csv")
	}

	if mediaEntry == "" && cuesEntry == "" {
		return nil, ErrBundleEmpty
	}
	if mediaEntry != "" {
		if b.MediaData, err = zr.ReadBytes(mediaEntry); err != nil {
			return nil, err
		}
		b.MediaName = path.Base(mediaEntry)
		b.MediaType = media.MIMEType(b.MediaName)
	}
	if cuesEntry != "" {
		if b.CuesData, err = zr.ReadBytes(cuesEntry); err != nil {
			return nil, err
		}
		b.CuesName = cuesEntry
	}
	return b, nil
}

// findRoot returns {base}{ext} (case-insensitive) or the first root-level
// file with the extension
func findRoot(names []string, base, ext string) string {
	for _, n := range names {
		if strings.EqualFold(n, base+ext) {
			return n
		}
	}
	for _, n := range names {
		if !strings.Contains(n, "/") && strings.EqualFold(path.Ext(n), ext) {
			return n
		}
	}
	return ""
}
