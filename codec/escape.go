package codec

import (
	"bytes"
	"encoding/csv"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// Escape percent-encodes every byte that is not an ASCII letter or digit.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlphanumeric(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0F])
	}
	return b.String()
}

// Unescape decodes every %XX sequence with two hex digits. Anything else,
// including a dangling or non-hex "%", is copied through untouched.
func Unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := fromHex(s[i+1])
			lo, okLo := fromHex(s[i+2])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// EscapePairs escapes every value, leaving keys as they are.
func EscapePairs(pairs Pairs) Pairs {
	out := make(Pairs, len(pairs))
	for i, pair := range pairs {
		out[i] = Pair{Key: pair.Key, Value: Escape(pair.Value)}
	}
	return out
}

// CSV renders a list as a single RFC 4180 line, the format used by the
// "data" response key.
func CSV(values []string) string {
	if len(values) == 0 {
		return ""
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(values)
	w.Flush()
	return strings.TrimRight(buf.String(), "\r\n")
}

// ParseCSV is the inverse of CSV. A malformed line yields nil.
func ParseCSV(s string) []string {
	if s == "" {
		return nil
	}
	r := csv.NewReader(strings.NewReader(s))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	record, err := r.Read()
	if err != nil {
		return nil
	}
	return record
}

func isAlphanumeric(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func fromHex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
