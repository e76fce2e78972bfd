package domain

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// SMSMaxLength is the single-segment limit replies are truncated to.
	SMSMaxLength = 160

	// DefaultTruncationSuffix marks a reply that was cut to fit SMSMaxLength.
	DefaultTruncationSuffix = "..."
)

// CompressionOptions controls truncation after abbreviation. A MaxLength of
// zero or less disables truncation.
type CompressionOptions struct {
	MaxLength        int
	TruncationSuffix string
}

// ReplyOptions truncates to one SMS with a trailing ellipsis.
func ReplyOptions() CompressionOptions {
	return CompressionOptions{MaxLength: SMSMaxLength, TruncationSuffix: DefaultTruncationSuffix}
}

// NoTruncation abbreviates and collapses whitespace only.
func NoTruncation() CompressionOptions {
	return CompressionOptions{}
}

// CompressionResult reports the compressed text and its savings. Lengths are
// counted in grapheme clusters (see CharCount).
type CompressionResult struct {
	CompressedText   string `json:"compressed_text"`
	OriginalLength   int    `json:"original_length"`
	CompressedLength int    `json:"compressed_length"`
	CharactersSaved  int    `json:"characters_saved"`
	Truncated        bool   `json:"truncated"`
}

// Uncompressed reports text as sent unchanged.
func Uncompressed(text string) CompressionResult {
	n := CharCount(text)
	return CompressionResult{CompressedText: text, OriginalLength: n, CompressedLength: n}
}

// Compressor rewrites text with a fixed abbreviation table. It is immutable
// once built and safe for concurrent use.
type Compressor struct {
	rules    []ReplacementRule
	matchers []matcher
}

// matcher finds one rule's term case-insensitively; word boundaries are
// checked separately so letters outside ASCII count as word characters.
type matcher struct {
	re           *regexp.Regexp
	abbreviation string
}

var defaultCompressor = mustCompressor(defaultRules)

// NewCompressor validates the rules and compiles one matcher per rule.
func NewCompressor(rules []ReplacementRule) (*Compressor, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	c := &Compressor{
		rules:    make([]ReplacementRule, len(rules)),
		matchers: make([]matcher, 0, len(rules)),
	}
	copy(c.rules, rules)

	for _, r := range rules {
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(r.FullTerm))
		if err != nil {
			return nil, err
		}
		c.matchers = append(c.matchers, matcher{re: re, abbreviation: r.Abbreviation})
	}
	return c, nil
}

func mustCompressor(rules []ReplacementRule) *Compressor {
	c, err := NewCompressor(rules)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCompressor returns the compressor built from DefaultRules.
func DefaultCompressor() *Compressor {
	return defaultCompressor
}

// Compress runs the default compressor.
func Compress(input string, opts CompressionOptions) CompressionResult {
	return defaultCompressor.Compress(input, opts)
}

// Rules returns a copy of the compressor's rule table.
func (c *Compressor) Rules() []ReplacementRule {
	rules := make([]ReplacementRule, len(c.rules))
	copy(rules, c.rules)
	return rules
}

// Compress abbreviates every whole-word occurrence of each rule's term,
// collapses whitespace to single spaces, then truncates per opts.
func (c *Compressor) Compress(input string, opts CompressionOptions) CompressionResult {
	text := input
	for _, m := range c.matchers {
		text = m.replaceWords(text)
	}
	text = collapseWhitespace(text)
	text, truncated := truncate(text, opts)

	original := CharCount(input)
	compressed := CharCount(text)
	return CompressionResult{
		CompressedText:   text,
		OriginalLength:   original,
		CompressedLength: compressed,
		CharactersSaved:  original - compressed,
		Truncated:        truncated,
	}
}

// replaceWords substitutes the abbreviation for every match bounded by word
// boundaries on both sides. A rejected candidate resumes the search one rune
// later so overlapping occurrences are still considered.
func (m matcher) replaceWords(s string) string {
	var b strings.Builder
	last, pos := 0, 0

	for pos < len(s) {
		loc := m.re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if start == end {
			break
		}

		if isWordBoundary(s, start) && isWordBoundary(s, end) {
			if b.Len() == 0 {
				b.Grow(len(s))
			}
			b.WriteString(s[last:start])
			b.WriteString(m.abbreviation)
			last, pos = end, end
			continue
		}

		_, size := utf8.DecodeRuneInString(s[start:])
		pos = start + size
	}

	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// isWordBoundary reports whether byte offset i in s sits between a word
// character and a non-word character (string edges count as non-word).
func isWordBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) || unicode.Is(unicode.Pc, r)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts text longer than opts.MaxLength so that text plus suffix is
// exactly MaxLength characters. A suffix longer than MaxLength is dropped and
// the text is cut to MaxLength on its own.
func truncate(text string, opts CompressionOptions) (string, bool) {
	total := CharCount(text)
	if opts.MaxLength <= 0 || total <= opts.MaxLength {
		return text, false
	}

	keep := opts.MaxLength - CharCount(opts.TruncationSuffix)
	if keep < 0 {
		return TruncateChars(text, opts.MaxLength), true
	}

	// A suffix that opens with a combining mark joins the last kept cluster,
	// so keep more clusters while the joined text still fits.
	out := TruncateChars(text, keep) + opts.TruncationSuffix
	for keep < total {
		next := TruncateChars(text, keep+1) + opts.TruncationSuffix
		if CharCount(next) > opts.MaxLength {
			break
		}
		out = next
		keep++
	}
	return out, true
}
