package extract

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// DecodeMode selects how over-escaped plain-text messages are recovered.
// The historical variants (no decoding, unicode-escape decoding,
// ANSI-only decoding) live behind this one option.
type DecodeMode string

const (
	DecodeNone DecodeMode = "none"
	// DecodeUnicode rewrites every \uXXXX sequence, including UTF-16
	// surrogate pairs, into literal UTF-8 bytes.
	DecodeUnicode DecodeMode = "unicode"
	// DecodeANSI rewrites only \u001b escapes, restoring color-control sequences
	// while leaving other escapes as the source wrote them.
	DecodeANSI DecodeMode = "ansi"
)

func (e *Extractor) decode(s string) string {
	switch e.Decode {
	case DecodeUnicode:
		return DecodeUnicodeEscapes(s)
	case DecodeANSI:
		return DecodeANSIEscapes(s)
	default:
		return s
	}
}

var ansiReplacer = strings.NewReplacer(`\u001b`, "\x1b", `\u001B`, "\x1b")

// DecodeANSIEscapes restores escape bytes for ANSI control sequences that
// the source over-escaped.
func DecodeANSIEscapes(s string) string {
	if !strings.Contains(s, `\u001`) {
		return s
	}
	return ansiReplacer.Replace(s)
}

// DecodeUnicodeEscapes converts \uXXXX sequences into their literal UTF-8
// bytes. Surrogate pairs combine into one rune; an unpaired surrogate
// becomes U+FFFD; sequences that do not parse are left untouched.
func DecodeUnicodeEscapes(s string) string {
	if !strings.Contains(s, `\u`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, n := decodeEscape(s[i:])
		if n == 0 {
			b.WriteByte(s[i])
			i++
			continue
		}
		b.WriteRune(r)
		i += n
	}
	return b.String()
}

// decodeEscape reads one \uXXXX sequence (or a surrogate pair) at the
// start of s. n is 0 when s does not start with a valid sequence.
func decodeEscape(s string) (r rune, n int) {
	if len(s) < 6 || s[0] != '\\' || s[1] != 'u' {
		return 0, 0
	}
	r1, ok := hexQuad(s[2:6])
	if !ok {
		return 0, 0
	}
	if !utf16.IsSurrogate(r1) {
		return r1, 6
	}
	if len(s) >= 12 && s[6] == '\\' && s[7] == 'u' {
		if r2, ok := hexQuad(s[8:12]); ok {
			if combined := utf16.DecodeRune(r1, r2); combined != utf8.RuneError {
				return combined, 12
			}
		}
	}
	return utf8.RuneError, 6
}

func hexQuad(s string) (rune, bool) {
	var r rune
	for i := 0; i < 4; i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 + rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 + rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 + rune(c-'A'+10)
		default:
			return 0, false
		}
	}
	return r, true
}
