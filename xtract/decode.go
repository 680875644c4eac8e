package xtract

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Cyrillic-biased decode order: cp1251 dominates the corpus, KOI8-R and the
// rest follow. Latin-1 at the end always succeeds byte-wise, so it acts as
// the printable fallback before the lossy pass.
var decodeChain = []struct {
	name string
	enc  encoding.Encoding
}{
	{"windows-1251", charmap.Windows1251},
	{"koi8-r", charmap.KOI8R},
	{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{"iso-8859-5", charmap.ISO8859_5},
	{"mac-cyrillic", charmap.MacintoshCyrillic},
	{"latin-1", charmap.ISO8859_1},
}

// decodeText converts raw document bytes to UTF-8. BOMs win outright, valid
// UTF-8 passes through, then legacy Cyrillic encodings are tried in order. A
// candidate decode counts as failed when it produces any replacement rune.
// The final fallback strips invalid sequences rather than erroring: the
// pipeline always yields some text.
func decodeText(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	if s, ok := decodeBOM(data); ok {
		return s
	}
	if utf8.Valid(data) {
		return string(data)
	}

	for _, c := range decodeChain {
		out, err := c.enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if !strings.ContainsRune(string(out), utf8.RuneError) {
			return string(out)
		}
	}

	return strings.ToValidUTF8(string(data), "")
}

func decodeBOM(data []byte) (string, bool) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return strings.ToValidUTF8(string(data[3:]), ""), true
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", false
		}
		return string(out), true
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", false
		}
		return string(out), true
	}
	return "", false
}

// decodeUTF16LE decodes raw UTF-16LE without a BOM, as stored in OLE
// compound-file string properties.
func decodeUTF16LE(data []byte) string {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\x00")
}
