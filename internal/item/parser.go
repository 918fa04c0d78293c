package item

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// valuePattern matches the numeric part of an affix line: optional sign,
// digits with separators, optional percent sign.
var valuePattern = regexp.MustCompile(`[+\-]?[\d,.]+%?`)

// gap matches any run of whitespace between a label and its number,
// including NBSP and the ideographic space.
const gap = `[\s\p{Zs}]*`

// Parser extracts DiabloItem records from recognised tooltip text.
//
// A Parser is immutable after construction and safe for concurrent use.
type Parser struct {
	vocab   Vocabulary
	powerRe *regexp.Regexp
	levelRe *regexp.Regexp
	typeRe  *regexp.Regexp
}

// NewParser builds a parser for the given vocabulary. Empty vocabulary fields
// fall back to DefaultVocabulary.
func NewParser(v Vocabulary) *Parser {
	v = v.withDefaults()

	quoted := make([]string, len(v.TypeLabels))
	for i, l := range v.TypeLabels {
		quoted[i] = regexp.QuoteMeta(l)
	}

	return &Parser{
		vocab:   v,
		powerRe: regexp.MustCompile(regexp.QuoteMeta(v.PowerLabel) + gap + `(\d+)`),
		levelRe: regexp.MustCompile(regexp.QuoteMeta(v.LevelLabel) + gap + `:` + gap + `(\d+)`),
		typeRe:  regexp.MustCompile(strings.Join(quoted, "|")),
	}
}

var defaultParser = NewParser(DefaultVocabulary())

// DefaultParser returns the parser for the Korean Diablo IV vocabulary.
func DefaultParser() *Parser {
	return defaultParser
}

// ParseItem parses text with the default vocabulary.
func ParseItem(text string) DiabloItem {
	return defaultParser.Parse(text)
}

// Vocabulary returns the effective vocabulary, defaults included.
func (p *Parser) Vocabulary() Vocabulary {
	v := p.vocab
	v.TypeLabels = append([]string(nil), p.vocab.TypeLabels...)
	return v
}

// Parse converts recognised tooltip text into a DiabloItem.
//
// Parameters:
//   - text: The raw recognised text. Lines are separated by newlines and
//     each line is trimmed, so CRLF input works as well.
//
// Returns:
//   - DiabloItem: Always populated. Missing fields carry the vocabulary's
//     defaults, Options is never nil and RawText is text unchanged.
//
// Parse never fails. Empty input, whitespace or pure noise all produce a
// record with the unknown name and the other type.
//
// # Power and Level
//
// Power and required level are searched anywhere in the original text, not
// per line. The first match wins. Any whitespace may separate a label from
// its number, including no-break and ideographic spaces. A number too large
// for an int yields 0.
//
// # Line Rules
//
// The remaining fields come from one forward pass over the trimmed, non-empty
// lines, where each line is used by at most one rule:
//
//   - the first line is the name, whatever it contains;
//   - the first later line containing a type label sets the type;
//   - any other line may become an affix option.
//
// An option line starts with "+", contains "%" or contains the grade marker,
// and never contains the power label. It also needs a numeric value and a
// name of at least two runes once the value is removed.
func (p *Parser) Parse(text string) DiabloItem {
	item := DiabloItem{
		Name:    p.vocab.UnknownName,
		Type:    p.vocab.OtherType,
		Options: []ItemOption{},
		RawText: text,
	}

	lines := splitLines(text)
	if len(lines) == 0 {
		return item
	}

	item.Power = firstInt(p.powerRe, text)
	item.RequiredLevel = firstInt(p.levelRe, text)

	typed := false
	for i, line := range lines {
		if i == 0 {
			item.Name = line
			continue
		}
		if !typed {
			if label := p.typeRe.FindString(line); label != "" {
				item.Type = label
				typed = true
				continue
			}
		}
		if opt, ok := p.parseOption(line); ok {
			item.Options = append(item.Options, opt)
		}
	}

	return item
}

// isOptionCandidate reports whether line looks like an affix line.
func (p *Parser) isOptionCandidate(line string) bool {
	if strings.Contains(line, p.vocab.PowerLabel) {
		return false
	}
	return strings.HasPrefix(line, "+") ||
		strings.Contains(line, "%") ||
		strings.Contains(line, p.vocab.GradeMarker)
}

// parseOption splits an affix line into label and value. The first numeric
// run is taken as the value even when it belongs to the label.
func (p *Parser) parseOption(line string) (ItemOption, bool) {
	if !p.isOptionCandidate(line) {
		return ItemOption{}, false
	}

	value := valuePattern.FindString(line)
	if value == "" {
		return ItemOption{}, false
	}

	name := strings.TrimSpace(strings.Replace(line, value, "", 1))
	// One character or less is a stray glyph, not an affix label.
	if utf8.RuneCountInString(name) <= 1 {
		return ItemOption{}, false
	}

	return ItemOption{Name: name, Value: value}, true
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimFunc(l, isTrimmable)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// firstInt returns the first capture group of re in text as an integer, or 0.
func firstInt(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
