package transcode

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"lectern/internal/item"
	"lectern/internal/resolve"
)

// LineKind classifies one parsed text line.
type LineKind string

const (
	LineSong         LineKind = "song"
	LineAnnouncement LineKind = "announcement"
	LinePassage      LineKind = "passage"
	LineMultiEntry   LineKind = "multi_entry"
	LineScene        LineKind = "scene"
)

// Line is one successfully parsed line of a text program.
type Line struct {
	Number  int // 1-based source line number
	Kind    LineKind
	Content string
}

// LineError is one rejected line. Parsing continues past it.
type LineError struct {
	Number int
	Text   string
	Reason string
}

// ParseResult holds the parsed lines and every per-line failure.
type ParseResult struct {
	Lines  []Line
	Errors []LineError
}

var lineSuffix = regexp.MustCompile(`^(.*?)\s*\[([A-Za-z]{1,2})\]\s*$`)

var suffixKinds = map[string]LineKind{
	"S":  LineSong,
	"C":  LineSong, // legacy alias
	"A":  LineAnnouncement,
	"V":  LinePassage,
	"VT": LineMultiEntry,
	"SC": LineScene,
}

// ParseText parses the line-oriented program grammar: one item per line,
// tagged by a trailing bracket suffix. Blank lines and #-comments are
// ignored. A bad line is collected as an error and parsing continues.
func ParseText(input string) *ParseResult {
	result := &ParseResult{}
	for i, raw := range strings.Split(input, "\n") {
		number := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		m := lineSuffix.FindStringSubmatch(line)
		if m == nil {
			result.Errors = append(result.Errors, LineError{
				Number: number,
				Text:   line,
				Reason: "missing type suffix, expected [S|A|V|VT|SC]",
			})
			continue
		}
		kind, ok := suffixKinds[strings.ToUpper(m[2])]
		if !ok {
			result.Errors = append(result.Errors, LineError{
				Number: number,
				Text:   line,
				Reason: fmt.Sprintf("unrecognized type suffix [%s]", m[2]),
			})
			continue
		}
		content := strings.TrimSpace(m[1])
		if content == "" {
			result.Errors = append(result.Errors, LineError{
				Number: number,
				Text:   line,
				Reason: "empty content before type suffix",
			})
			continue
		}
		result.Lines = append(result.Lines, Line{Number: number, Kind: kind, Content: content})
	}
	return result
}

// ExportText renders resolved items as the text program grammar, one line
// per item in collection order.
func ExportText(items []*resolve.ResolvedItem) string {
	var sb strings.Builder
	for _, ri := range items {
		switch content := ri.Item.Content.(type) {
		case item.SongRef:
			sb.WriteString(ri.Title())
			sb.WriteString(" [S]\n")
		case item.Slide:
			if content.Kind == item.SlideScene {
				sb.WriteString(content.SceneName)
				sb.WriteString(" [SC]\n")
			} else {
				sb.WriteString(StripHTML(content.Content))
				sb.WriteString(" [A]\n")
			}
		case item.BiblePassage:
			sb.WriteString(content.Reference())
			sb.WriteString(" [V]\n")
		case item.MultiEntrySlide:
			pairs := make([]string, 0, len(content.Entries))
			for _, entry := range content.Entries {
				pairs = append(pairs, entry.PersonName+" - "+entry.Reference)
			}
			sb.WriteString(strings.Join(pairs, ", "))
			sb.WriteString(" [VT]\n")
		}
	}
	return sb.String()
}

var (
	htmlBreak = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlTag   = regexp.MustCompile(`<[^>]*>`)
	spaces    = regexp.MustCompile(`\s+`)
)

// StripHTML flattens announcement HTML to plain text for single-line
// export: breaks become spaces, tags are dropped, entities are unescaped.
func StripHTML(s string) string {
	s = htmlBreak.ReplaceAllString(s, " ")
	s = htmlTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// multiEntrySplit breaks a [VT] line into "Name - Reference" pairs. The
// pair separator is " - " with surrounding spaces, which keeps verse-range
// dashes like "John 3:16-18" intact.
func multiEntrySplit(content string) ([][2]string, error) {
	pairs := strings.Split(content, ",")
	out := make([][2]string, 0, len(pairs))
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		idx := strings.Index(pair, " - ")
		if idx < 0 {
			return nil, fmt.Errorf("entry %q is not in Name - Reference form", pair)
		}
		name := strings.TrimSpace(pair[:idx])
		ref := strings.TrimSpace(pair[idx+3:])
		if name == "" || ref == "" {
			return nil, fmt.Errorf("entry %q is not in Name - Reference form", pair)
		}
		out = append(out, [2]string{name, ref})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no entries found")
	}
	return out, nil
}
