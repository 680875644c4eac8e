// Package textnorm post-processes raw extracted document text into a stable
// plain-text form: unified line endings, dehyphenated line wraps, collapsed
// whitespace, stripped control characters and NFC-composed Unicode.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Word split across a line break by a wrap hyphen: "exam-\nple".
	hyphenBreakRe = regexp.MustCompile(`([\p{L}\p{N}])-[ \t]*\n([\p{L}\p{N}])`)

	// Blank lines that contain only horizontal whitespace still separate
	// paragraphs.
	blankLineRe = regexp.MustCompile(`\n[ \t\x{00A0}]+\n`)

	paragraphRe  = regexp.MustCompile(`\n{2,}`)
	horizSpaceRe = regexp.MustCompile(`[ \t\x{00A0}]+`)
)

// paragraph break placeholder, restored after single newlines become spaces.
// Controls are stripped from the input before this pass, so a stray U+0001
// in a document can never fabricate a paragraph break.
const paraMark = "\x01"

// Normalize cleans raw extracted text. Steps, in order: CR/CRLF to LF,
// control characters stripped (including NUL), dehyphenation across line
// breaks, single newlines to spaces (runs of two or more newlines are
// paragraph breaks and collapse to exactly two), horizontal whitespace runs
// to a single space, NFC composition, trim.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = stripControl(text)

	text = hyphenBreakRe.ReplaceAllString(text, "$1$2")

	text = blankLineRe.ReplaceAllString(text, "\n\n")
	text = paragraphRe.ReplaceAllString(text, paraMark)
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, paraMark, "\n\n")

	text = horizSpaceRe.ReplaceAllString(text, " ")

	text = norm.NFC.String(text)
	return strings.TrimSpace(text)
}

// stripControl removes characters outside the printable/whitespace range.
// NUL in particular corrupts downstream text storage.
func stripControl(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, text)
}
