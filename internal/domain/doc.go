// Package domain models the satellite SMS relay: inbound questions, the
// replies generated for them, and the abbreviation pass that shrinks each
// reply before it is billed per character.
//
// # Compression
//
// [Compressor.Compress] applies a fixed table of whole-word, case-insensitive
// replacements ("weather" → "wx", "and" → "&", "for" → "4"), collapses runs of
// whitespace to single spaces, and optionally truncates to a character limit:
//
//	"What should I do for a severe snake bite emergency?"  (51)
//	"What shld I do 4 a severe snake bite emerg?"          (43)
//
// Word boundaries follow the usual \b rule with Unicode letters, digits,
// marks and connector punctuation counted as word characters, so "and" is
// never replaced inside "sandstorm" or "éand".
//
// Rules are applied in table order and abbreviations are inserted verbatim.
// No default abbreviation is itself a term, so the default table gives the
// same output in any order. No two rules may share a term.
//
// # Characters
//
// Every length (original, compressed, and the truncation cut) is measured in
// extended grapheme clusters, the unit a phone shows as one character. A flag
// emoji or "e" plus a combining accent counts as one.
//
// # Truncation
//
// With [ReplyOptions] a result longer than 160 characters is cut to 157 and
// "..." is appended, giving exactly 160. A suffix longer than the limit is
// dropped and the text is cut to the limit on its own.
//
// # Segments
//
// [Segments] estimates the billed SMS segments: GSM-7 (160 per single
// segment, 153 per part) when every character is in the GSM 03.38 alphabet,
// UCS-2 (70/67) otherwise. "°" is not GSM-7, so replies that mention degrees
// are sent as UCS-2.
package domain
