// Package sentence splits text into sentences for incremental synthesis.
package sentence

import (
	"strings"
	"time"
	"unicode"
)

// WordsPerMinute is the speaking pace assumed at rate 1.
const WordsPerMinute = 175

// Sentence is one unit of synthesis.
type Sentence struct {
	Index int
	Text  string
}

// Parser finds sentence boundaries in plain text.
type Parser struct {
	// Minimum length in runes; shorter fragments are merged into the
	// following sentence.
	minLength int

	// Common abbreviations that don't end sentences
	abbreviations map[string]bool
}

// NewParser creates a new sentence parser.
func NewParser() *Parser {
	return &Parser{
		minLength:     2,
		abbreviations: makeAbbreviationMap(),
	}
}

var defaultParser = NewParser()

// Split breaks text into sentences using the default parser.
func Split(text string) []string {
	sentences := defaultParser.Parse(text)
	out := make([]string, len(sentences))
	for i, s := range sentences {
		out[i] = s.Text
	}
	return out
}

// Parse extracts sentences from text. Blank lines always end a sentence;
// other whitespace is collapsed.
func (p *Parser) Parse(text string) []Sentence {
	var sentences []Sentence
	pending := ""

	for _, para := range paragraphs(text) {
		for _, s := range p.splitParagraph(para) {
			if pending != "" {
				s = pending + " " + s
				pending = ""
			}
			if len([]rune(s)) < p.minLength {
				pending = s
				continue
			}
			sentences = append(sentences, Sentence{Index: len(sentences), Text: s})
		}
	}

	if pending != "" {
		if n := len(sentences); n > 0 {
			sentences[n-1].Text += " " + pending
		} else {
			sentences = append(sentences, Sentence{Text: pending})
		}
	}
	return sentences
}

// EstimateDuration estimates how long text takes to speak at the given
// rate multiplier.
func EstimateDuration(text string, rate float64) time.Duration {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	if rate <= 0 {
		rate = 1
	}
	seconds := float64(words) * 60.0 / (WordsPerMinute * rate)
	return time.Duration(seconds * float64(time.Second))
}

// paragraphs splits on blank lines and collapses whitespace.
func paragraphs(text string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			flush()
			continue
		}
		cur = append(cur, strings.Join(fields, " "))
	}
	flush()
	return out
}

func (p *Parser) splitParagraph(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}

		// Collect the full punctuation run, e.g. "?!" or "..."
		end := i + 1
		for end < len(runes) && isTerminal(runes[end]) {
			end++
		}
		// Closing quotes and brackets belong to the sentence.
		for end < len(runes) && isCloser(runes[end]) {
			end++
		}

		if p.isBoundary(runes, i, end) {
			if s := strings.TrimSpace(string(runes[start:end])); s != "" {
				out = append(out, s)
			}
			start = end
		}
		i = end - 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

// isBoundary reports whether the punctuation run runes[pos:end] ends a
// sentence.
func (p *Parser) isBoundary(runes []rune, pos, end int) bool {
	if end >= len(runes) {
		return true
	}
	// Must have whitespace after punctuation; this rules out decimals,
	// versions and domain names.
	if !unicode.IsSpace(runes[end]) {
		return false
	}

	run := string(runes[pos:end])
	if strings.Contains(run, "...") || strings.Contains(run, "…") {
		return false
	}

	next := end
	for next < len(runes) && unicode.IsSpace(runes[next]) {
		next++
	}
	if next >= len(runes) {
		return true
	}

	if runes[pos] == '!' || runes[pos] == '?' {
		return true
	}

	if p.isAbbreviation(runes, pos) {
		return false
	}
	return !unicode.IsLower(runes[next])
}

// isAbbreviation checks the word ending with the period at pos.
func (p *Parser) isAbbreviation(runes []rune, pos int) bool {
	start := pos
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	word := strings.ToLower(string(runes[start:pos]))
	word = strings.TrimLeft(word, "(\"'“‘[")
	if word == "" {
		return false
	}
	if p.abbreviations[word] {
		return true
	}
	// Multi-part abbreviations like "Ph.D." or "U.S."
	if strings.Contains(word, ".") && strings.IndexFunc(word, func(r rune) bool {
		return r != '.' && !unicode.IsLetter(r)
	}) < 0 {
		return true
	}
	// Initials such as "J. Smith"
	r := []rune(word)
	return len(r) == 1 && unicode.IsLetter(r[0]) && unicode.IsUpper(runes[pos-1])
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’':
		return true
	}
	return false
}

// makeAbbreviationMap creates a map of common abbreviations.
func makeAbbreviationMap() map[string]bool {
	abbrevs := []string{
		"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "st",
		"inc", "ltd", "co", "corp", "llc",
		"etc", "vs", "cf", "al", "approx", "dept", "est", "fig", "no", "vol",
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
		"mon", "tue", "wed", "thu", "fri", "sat", "sun",
		"rd", "ave", "blvd", "ln", "ct", "mt",
		"ft", "lbs", "oz", "kg", "km", "cm", "mm", "mi", "yd",
		"hr", "hrs", "min", "mins", "sec", "secs",
	}

	m := make(map[string]bool, len(abbrevs))
	for _, abbrev := range abbrevs {
		m[abbrev] = true
	}
	return m
}
