package xtract

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Destination groups that never contain body text.
var rtfSkippedDests = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"pict":       true,
	"themedata":  true,
	"datastore":  true,
	"header":     true,
	"footer":     true,
	"xmlopen":    true,
}

type rtfState struct {
	skip bool
	uc   int
}

// extractRTF tokenizes an RTF document and keeps only body text. Hex escapes
// decode through the codepage announced by \ansicpg; \u escapes are taken
// directly with their replacement characters skipped per the \uc count.
func (p *Pipeline) extractRTF(data []byte) (string, []string) {
	if !strings.HasPrefix(string(data[:min(5, len(data))]), `{\rtf`) {
		p.logger.Warn("rtf magic missing")
		return "", []string{"not an rtf document"}
	}
	text, err := parseRTF(data)
	if err != nil {
		p.logger.Warn("rtf parse failed", "error", err)
		return "", []string{fmt.Sprintf("rtf parse failed: %v", err)}
	}
	return text, nil
}

func parseRTF(data []byte) (string, error) {
	cp := rtfCodepage(data)

	var sb strings.Builder
	stack := []rtfState{{uc: 1}}
	cur := func() *rtfState { return &stack[len(stack)-1] }
	pendingSkip := 0 // replacement chars to drop after \uN

	writeByteCP := func(b byte) {
		if cur().skip {
			return
		}
		if pendingSkip > 0 {
			pendingSkip--
			return
		}
		r := cp.DecodeByte(b)
		if r != 0 {
			sb.WriteRune(r)
		}
	}

	i := 0
	for i < len(data) {
		c := data[i]
		switch c {
		case '{':
			stack = append(stack, *cur())
			i++
		case '}':
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			i++
		case '\\':
			if i+1 >= len(data) {
				i++
				break
			}
			next := data[i+1]
			switch {
			case next == '\'':
				if i+3 < len(data) {
					if v, err := strconv.ParseUint(string(data[i+2:i+4]), 16, 8); err == nil {
						writeByteCP(byte(v))
					}
					i += 4
				} else {
					i = len(data)
				}
			case next == '\\' || next == '{' || next == '}':
				writeByteCP(next)
				i += 2
			case next == '~':
				writeByteCP(' ')
				i += 2
			case next == '*':
				// Ignorable destination: skip the group unless the word
				// that follows is known body content.
				cur().skip = true
				i += 2
			case isRTFLetter(next):
				word, param, hasParam, n := readRTFWord(data[i+1:])
				i += 1 + n
				switch word {
				case "par", "line", "sect", "page":
					if !cur().skip {
						sb.WriteByte('\n')
					}
				case "tab", "cell":
					if !cur().skip {
						sb.WriteByte('\t')
					}
				case "row":
					if !cur().skip {
						sb.WriteByte('\n')
					}
				case "uc":
					if hasParam {
						cur().uc = param
					}
				case "u":
					if hasParam && !cur().skip {
						v := param
						if v < 0 {
							v += 65536
						}
						sb.WriteRune(rune(v))
						pendingSkip = cur().uc
					}
				case "emdash":
					if !cur().skip {
						sb.WriteRune('—')
					}
				case "endash":
					if !cur().skip {
						sb.WriteRune('–')
					}
				default:
					if rtfSkippedDests[word] {
						cur().skip = true
					}
				}
			default:
				i += 2
			}
		case '\r', '\n':
			i++
		default:
			writeByteCP(c)
			i++
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

// readRTFWord reads a control word and optional numeric parameter starting
// at data[0]. Returns the word, parameter, and bytes consumed including the
// single trailing space delimiter when present.
func readRTFWord(data []byte) (word string, param int, hasParam bool, n int) {
	i := 0
	for i < len(data) && isRTFLetter(data[i]) {
		i++
	}
	word = string(data[:i])

	start := i
	if i < len(data) && (data[i] == '-' || (data[i] >= '0' && data[i] <= '9')) {
		i++
		for i < len(data) && data[i] >= '0' && data[i] <= '9' {
			i++
		}
		if v, err := strconv.Atoi(string(data[start:i])); err == nil {
			param, hasParam = v, true
		}
	}
	// One space after a control word belongs to the word.
	if i < len(data) && data[i] == ' ' {
		i++
	}
	return word, param, hasParam, i
}

func isRTFLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// rtfCP wraps a single-byte charmap for per-byte decoding.
type rtfCP struct{ cm *charmap.Charmap }

func (c rtfCP) DecodeByte(b byte) rune {
	r := c.cm.DecodeByte(b)
	if r == '�' {
		return 0
	}
	return r
}

// rtfCodepage resolves \ansicpgN to a decoder. Word on Russian systems
// writes 1251; the RTF default is 1252.
func rtfCodepage(data []byte) rtfCP {
	head := string(data[:min(512, len(data))])
	if i := strings.Index(head, `\ansicpg`); i >= 0 {
		j := i + len(`\ansicpg`)
		k := j
		for k < len(head) && head[k] >= '0' && head[k] <= '9' {
			k++
		}
		switch head[j:k] {
		case "1251":
			return rtfCP{charmap.Windows1251}
		case "866":
			return rtfCP{charmap.CodePage866}
		case "1250":
			return rtfCP{charmap.Windows1250}
		case "1252":
			return rtfCP{charmap.Windows1252}
		}
	}
	return rtfCP{charmap.Windows1252}
}
