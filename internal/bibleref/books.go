package bibleref

import "strings"

// Book identifies one canonical book with its OSIS-style code and display
// name.
type Book struct {
	Code string
	Name string
}

type bookEntry struct {
	Book
	aliases []string
}

// The canonical 66 books with common abbreviations. Keys are matched after
// lowercasing and stripping periods, so "1 Cor.", "1cor", and
// "1 Corinthians" all resolve to 1Cor.
var books = []bookEntry{
	{Book{"Gen", "Genesis"}, []string{"ge", "gn"}},
	{Book{"Exod", "Exodus"}, []string{"ex", "exo"}},
	{Book{"Lev", "Leviticus"}, []string{"le", "lv"}},
	{Book{"Num", "Numbers"}, []string{"nu", "nm", "nb"}},
	{Book{"Deut", "Deuteronomy"}, []string{"de", "dt"}},
	{Book{"Josh", "Joshua"}, []string{"jos", "jsh"}},
	{Book{"Judg", "Judges"}, []string{"jdg", "jg"}},
	{Book{"Ruth", "Ruth"}, []string{"ru", "rth"}},
	{Book{"1Sam", "1 Samuel"}, []string{"1 sa", "1sa", "1 sm"}},
	{Book{"2Sam", "2 Samuel"}, []string{"2 sa", "2sa", "2 sm"}},
	{Book{"1Kgs", "1 Kings"}, []string{"1 ki", "1ki", "1 kgs"}},
	{Book{"2Kgs", "2 Kings"}, []string{"2 ki", "2ki", "2 kgs"}},
	{Book{"1Chr", "1 Chronicles"}, []string{"1 ch", "1ch", "1 chron"}},
	{Book{"2Chr", "2 Chronicles"}, []string{"2 ch", "2ch", "2 chron"}},
	{Book{"Ezra", "Ezra"}, []string{"ezr"}},
	{Book{"Neh", "Nehemiah"}, []string{"ne"}},
	{Book{"Esth", "Esther"}, []string{"es", "est"}},
	{Book{"Job", "Job"}, []string{"jb"}},
	{Book{"Ps", "Psalm"}, []string{"psa", "psalms", "pss"}},
	{Book{"Prov", "Proverbs"}, []string{"pr", "prv", "pro"}},
	{Book{"Eccl", "Ecclesiastes"}, []string{"ec", "ecc", "qoh"}},
	{Book{"Song", "Song of Songs"}, []string{"sos", "song of solomon", "canticles"}},
	{Book{"Isa", "Isaiah"}, []string{"is"}},
	{Book{"Jer", "Jeremiah"}, []string{"je", "jr"}},
	{Book{"Lam", "Lamentations"}, []string{"la"}},
	{Book{"Ezek", "Ezekiel"}, []string{"eze", "ezk"}},
	{Book{"Dan", "Daniel"}, []string{"da", "dn"}},
	{Book{"Hos", "Hosea"}, []string{"ho"}},
	{Book{"Joel", "Joel"}, []string{"jl"}},
	{Book{"Amos", "Amos"}, []string{"am"}},
	{Book{"Obad", "Obadiah"}, []string{"ob"}},
	{Book{"Jonah", "Jonah"}, []string{"jon", "jnh"}},
	{Book{"Mic", "Micah"}, []string{"mc"}},
	{Book{"Nah", "Nahum"}, []string{"na"}},
	{Book{"Hab", "Habakkuk"}, []string{"hb"}},
	{Book{"Zeph", "Zephaniah"}, []string{"zep", "zp"}},
	{Book{"Hag", "Haggai"}, []string{"hg"}},
	{Book{"Zech", "Zechariah"}, []string{"zec", "zc"}},
	{Book{"Mal", "Malachi"}, []string{"ml"}},
	{Book{"Matt", "Matthew"}, []string{"mt"}},
	{Book{"Mark", "Mark"}, []string{"mk", "mrk"}},
	{Book{"Luke", "Luke"}, []string{"lk", "luk"}},
	{Book{"John", "John"}, []string{"jn", "jhn"}},
	{Book{"Acts", "Acts"}, []string{"ac", "act"}},
	{Book{"Rom", "Romans"}, []string{"ro", "rm"}},
	{Book{"1Cor", "1 Corinthians"}, []string{"1 co", "1co"}},
	{Book{"2Cor", "2 Corinthians"}, []string{"2 co", "2co"}},
	{Book{"Gal", "Galatians"}, []string{"ga"}},
	{Book{"Eph", "Ephesians"}, []string{"ep"}},
	{Book{"Phil", "Philippians"}, []string{"php", "philp"}},
	{Book{"Col", "Colossians"}, []string{"cl"}},
	{Book{"1Thess", "1 Thessalonians"}, []string{"1 th", "1th", "1 thes"}},
	{Book{"2Thess", "2 Thessalonians"}, []string{"2 th", "2th", "2 thes"}},
	{Book{"1Tim", "1 Timothy"}, []string{"1 ti", "1ti"}},
	{Book{"2Tim", "2 Timothy"}, []string{"2 ti", "2ti"}},
	{Book{"Titus", "Titus"}, []string{"ti", "tit"}},
	{Book{"Phlm", "Philemon"}, []string{"phm", "philem"}},
	{Book{"Heb", "Hebrews"}, []string{"he"}},
	{Book{"Jas", "James"}, []string{"jm", "jam"}},
	{Book{"1Pet", "1 Peter"}, []string{"1 pe", "1pe", "1 pt"}},
	{Book{"2Pet", "2 Peter"}, []string{"2 pe", "2pe", "2 pt"}},
	{Book{"1John", "1 John"}, []string{"1 jn", "1jn"}},
	{Book{"2John", "2 John"}, []string{"2 jn", "2jn"}},
	{Book{"3John", "3 John"}, []string{"3 jn", "3jn"}},
	{Book{"Jude", "Jude"}, []string{"jud", "jde"}},
	{Book{"Rev", "Revelation"}, []string{"re", "rv", "apocalypse"}},
}

var bookIndex = func() map[string]Book {
	index := make(map[string]Book, len(books)*4)
	for _, entry := range books {
		index[normalizeBookKey(entry.Code)] = entry.Book
		index[normalizeBookKey(entry.Name)] = entry.Book
		for _, alias := range entry.aliases {
			index[normalizeBookKey(alias)] = entry.Book
		}
	}
	return index
}()

// LookupBook resolves a book name, code, or abbreviation case-insensitively.
func LookupBook(name string) (Book, bool) {
	book, ok := bookIndex[normalizeBookKey(name)]
	return book, ok
}

func normalizeBookKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, ".", "")
	return strings.Join(strings.Fields(name), " ")
}
