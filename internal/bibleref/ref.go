package bibleref

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"lectern/internal/services"
)

// Range is a parsed verse range within one book. EndVerse 0 means "to the
// end of EndChapter"; the verse source treats it as unbounded.
type Range struct {
	BookCode     string
	BookName     string
	StartChapter int
	StartVerse   int
	EndChapter   int
	EndVerse     int
}

// refGrammar covers free-text references: "John 3:16", "John 3:16-18",
// "1 Corinthians 13:4-7", "John 3:16-4:2", "Psalm 23".
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	BookPrefix *int       `parser:"@Int?"`
	BookWords  []string   `parser:"@Word+"`
	Chapter    int        `parser:"@Int"`
	VersePart  *versePart `parser:"( \":\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Verse int       `parser:"@Int"`
	End   *rangeEnd `parser:"( \"-\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type rangeEnd struct {
	First  int  `parser:"@Int"`
	Second *int `parser:"( \":\" @Int )?"`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[A-Za-z][A-Za-z.]*`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Parse turns a free-text reference into a Range. The book name match is
// case-insensitive and accepts common abbreviations ("Jn", "1 Cor", "Ps").
// A reference without a verse spans the whole chapter.
func Parse(s string) (*Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, services.Wrap(services.ErrParse, "bibleref", "parse", "empty reference", nil)
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "bibleref", "parse", fmt.Sprintf("invalid reference %q", s), err)
	}

	bookKey := strings.Join(parsed.BookWords, " ")
	if parsed.BookPrefix != nil {
		bookKey = strconv.Itoa(*parsed.BookPrefix) + " " + bookKey
	}
	book, ok := LookupBook(bookKey)
	if !ok {
		return nil, services.Wrap(services.ErrParse, "bibleref", "parse", fmt.Sprintf("unknown book %q", bookKey), nil)
	}

	r := &Range{
		BookCode:     book.Code,
		BookName:     book.Name,
		StartChapter: parsed.Chapter,
		EndChapter:   parsed.Chapter,
	}

	if parsed.VersePart == nil {
		// Whole chapter.
		r.StartVerse = 1
		r.EndVerse = 0
		return r, r.validate(s)
	}

	r.StartVerse = parsed.VersePart.Verse
	r.EndVerse = parsed.VersePart.Verse

	if end := parsed.VersePart.End; end != nil {
		if end.Second != nil {
			r.EndChapter = end.First
			r.EndVerse = *end.Second
		} else {
			r.EndVerse = end.First
		}
	}

	return r, r.validate(s)
}

func (r *Range) validate(source string) error {
	if r.StartChapter < 1 || r.EndChapter < r.StartChapter {
		return services.Wrap(services.ErrParse, "bibleref", "parse", fmt.Sprintf("chapter order invalid in %q", source), nil)
	}
	if r.StartVerse < 1 {
		return services.Wrap(services.ErrParse, "bibleref", "parse", fmt.Sprintf("verse must be positive in %q", source), nil)
	}
	if r.EndChapter == r.StartChapter && r.EndVerse > 0 && r.EndVerse < r.StartVerse {
		return services.Wrap(services.ErrParse, "bibleref", "parse", fmt.Sprintf("verse order invalid in %q", source), nil)
	}
	return nil
}

// Reference renders the canonical display form without a translation
// suffix: "John 3:16", "John 3:16-18", "John 3:16-4:2", "Psalm 23".
func (r *Range) Reference() string {
	var sb strings.Builder
	sb.WriteString(r.BookName)
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(r.StartChapter))

	wholeChapter := r.StartVerse == 1 && r.EndVerse == 0 && r.EndChapter == r.StartChapter
	if wholeChapter {
		return sb.String()
	}

	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(r.StartVerse))

	switch {
	case r.EndChapter != r.StartChapter:
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(r.EndChapter))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(r.EndVerse))
	case r.EndVerse > r.StartVerse:
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(r.EndVerse))
	}
	return sb.String()
}

// VerseReference renders a single-verse display form like "John 3:16".
func VerseReference(bookName string, chapter, verse int) string {
	return fmt.Sprintf("%s %d:%d", bookName, chapter, verse)
}
