package domain

import (
	"strings"
	"unicode/utf16"
)

// SMS character encodings.
const (
	EncodingGSM7 = "GSM-7"
	EncodingUCS2 = "UCS-2"
)

// Per-segment capacities; multipart messages lose room to the concatenation header.
const (
	gsm7SingleSegment = 160
	gsm7MultiSegment  = 153
	ucs2SingleSegment = 70
	ucs2MultiSegment  = 67
)

// gsm7Base is the GSM 03.38 default alphabet.
const gsm7Base = "@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞÆæßÉ !\"#¤%&'()*+,-./0123456789:;<=>?" +
	"¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§¿abcdefghijklmnopqrstuvwxyzäöñüà"

// gsm7Extended characters are sent as an escape plus a code, costing two septets.
const gsm7Extended = "\f^{}\\[~]|€"

// SegmentInfo estimates how a text will be billed when sent as SMS.
type SegmentInfo struct {
	Encoding string `json:"encoding"`
	Units    int    `json:"units"`
	Segments int    `json:"segments"`
}

// IsGSM7 reports whether every rune of text is in the GSM-7 alphabet,
// including the extension table.
func IsGSM7(text string) bool {
	for _, r := range text {
		if !strings.ContainsRune(gsm7Base, r) && !strings.ContainsRune(gsm7Extended, r) {
			return false
		}
	}
	return true
}

// Segments returns the encoding, encoded length and number of SMS segments
// needed for text. Units are septets for GSM-7 and UTF-16 code units for
// UCS-2. A character is never split across two segments.
func Segments(text string) SegmentInfo {
	gsm := IsGSM7(text)
	info := SegmentInfo{Encoding: EncodingUCS2, Segments: 1}
	single, multi := ucs2SingleSegment, ucs2MultiSegment
	if gsm {
		info.Encoding = EncodingGSM7
		single, multi = gsm7SingleSegment, gsm7MultiSegment
	}

	for _, r := range text {
		info.Units += unitWidth(r, gsm)
	}
	if info.Units <= single {
		return info
	}

	size := 0
	for _, r := range text {
		w := unitWidth(r, gsm)
		if size+w > multi {
			info.Segments++
			size = 0
		}
		size += w
	}
	return info
}

func unitWidth(r rune, gsm bool) int {
	if gsm {
		if strings.ContainsRune(gsm7Extended, r) {
			return 2
		}
		return 1
	}
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
