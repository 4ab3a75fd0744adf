package export

import (
	"fmt"
	"strings"

	"github.com/schollz/cuetimeline/internal/timecode"
)

func markdownCell(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return strings.ReplaceAll(s, "|", `\|`)
}

// Markdown renders the cue list as a Markdown table
func Markdown(p Project) []byte {
	return []byte(strings.Join(markdownLines(p, markdownCell), "\n"))
}

func markdownLines(p Project, escape func(string) string) []string {
	lines := []string{
		fmt.Sprintf("# %s - Cue List", p.Prefix()),
		"",
		"| # | Title | Time | Fade (s) | Description |",
		"|---:|---|---:|---:|---|",
	}
	for i, c := range p.Cues {
		lines = append(lines, fmt.Sprintf("| %d | %s | %s | %s | %s |",
			i+1,
			escape(c.DisplayName()),
			timecode.FormatTime(c.Time),
			timecode.FormatNumber(c.Fade),
			escape(c.Description),
		))
	}
	return lines
}
