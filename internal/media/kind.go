package media

import (
	"path/filepath"
	"strings"
)

// Kind classifies a file the editor can open
type Kind int

const (
	KindUnknown Kind = iota
	KindAudio
	KindVideo
	KindJSON
	KindCSV
	KindBundle
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindJSON:
		return "json"
	case KindCSV:
		return "csv"
	case KindBundle:
		return "bundle"
	default:
		return "unknown"
	}
}

// IsMedia reports whether the kind is audio or video
func (k Kind) IsMedia() bool {
	return k == KindAudio || k == KindVideo
}

var mimeTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"m4a":  "audio/mp4",
	"aac":  "audio/aac",
	"ogg":  "audio/ogg",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
	"mkv":  "video/x-matroska",
}

// Ext returns the lower-case extension without the dot
func Ext(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// MIMEType returns the media type for a file name, or
// application/octet-stream
func MIMEType(name string) string {
	if t, ok := mimeTypes[Ext(name)]; ok {
		return t
	}
	return "application/octet-stream"
}

// Classify returns the kind of a file from its name
func Classify(name string) Kind {
	ext := Ext(name)
	if t, ok := mimeTypes[ext]; ok {
		if strings.HasPrefix(t, "video/") {
			return KindVideo
		}
		return KindAudio
	}
	switch ext {
	case "json":
		return KindJSON
	case "csv":
		return KindCSV
	case "zip":
		return KindBundle
	}
	return KindUnknown
}

// BaseName returns the file name without directory and extension
func BaseName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
