package export

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	mhtml "github.com/tdewolff/minify/v2/html"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const printStyle = `body{font-family:-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica,Arial,sans-serif;color:#111827;margin:24px;}
h1{font-size:20px;margin:0 0 16px 0;}
table{border-collapse:collapse;width:100%;}
th,td{border:1px solid #ddd;padding:8px;font-size:12px;}
th{background:#f3f4f6;text-align:left;}
.footer{margin-top:16px;font-size:11px;color:#6b7280}
@media print{.noprint{display:none}}`

var (
	markdown    = goldmark.New(goldmark.WithExtensions(extension.Table))
	minifier    = newMinifier()
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;")
)

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", mhtml.Minify)
	m.AddFunc("text/css", css.Minify)
	return m
}

// htmlCell escapes the two characters that would start markup or an entity
// and backslash-escapes Markdown punctuation so names render literally
func htmlCell(s string) string {
	s = markdownCell(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '&':
			b.WriteString("&amp;")
		case r == '<':
			b.WriteString("&lt;")
		case r == '\\' || r == '|':
			b.WriteRune(r)
		case strings.ContainsRune("`*_{}[]()#+-.!~>", r):
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HTML renders a printable cue list document. The table is produced from
// the same Markdown as the Markdown export and the result is minified; if
// minification fails the unminified document is returned.
func HTML(p Project) ([]byte, error) {
	lines := markdownLines(p, htmlCell)
	var table bytes.Buffer
	if err := markdown.Convert([]byte(strings.Join(lines[2:], "\n")), &table); err != nil {
		return nil, fmt.Errorf("failed to render table: %w", err)
	}

	title := textEscaper.Replace(p.Prefix()) + " - Cue List"
	var doc bytes.Buffer
	fmt.Fprintf(&doc, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title>\n", title)
	fmt.Fprintf(&doc, "<style>\n%s\n</style>\n</head><body>\n", printStyle)
	fmt.Fprintf(&doc, "<h1>%s</h1>\n", title)
	doc.Write(table.Bytes())
	fmt.Fprintf(&doc, "<div class=\"footer\">Generated %s</div>\n</body></html>\n", p.generatedStamp())

	out, err := minifier.Bytes("text/html", doc.Bytes())
	if err != nil {
		log.Printf("export: minify warning: %v (using original)", err)
		return doc.Bytes(), nil
	}
	return out, nil
}
