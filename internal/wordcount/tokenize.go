// Package wordcount estimates how many words a unified diff adds and deletes.
//
// The estimate compares word multisets instead of aligning sequences, so
// reordered or unchanged words collapse to zero while genuinely new words are
// counted once per occurrence.
package wordcount

import "regexp"

// wordPattern matches, in priority order: latin/greek/cyrillic runs, CJK,
// hangul and kana runs, nordic umlauts, then any remaining word characters.
var wordPattern = regexp.MustCompile(
	`[a-zA-Z0-9_\x{0392}-\x{03c9}\x{0400}-\x{04FF}]+` +
		`|[\x{4E00}-\x{9FFF}\x{3400}-\x{4dbf}\x{f900}-\x{faff}\x{3040}-\x{309f}\x{ac00}-\x{d7af}\x{0400}-\x{04FF}]+` +
		`|[\x{00E4}\x{00C4}\x{00E5}\x{00C5}\x{00F6}\x{00D6}]+` +
		`|\w+`,
)

// Tokenize splits a line into word tokens. Punctuation, whitespace and diff
// markers are dropped.
func Tokenize(line string) []string {
	words := wordPattern.FindAllString(line, -1)
	if words == nil {
		return []string{}
	}

	return words
}
