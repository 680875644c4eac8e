package xtract

import "unicode/utf8"

// Characters that count toward the "expected" set alongside Cyrillic letters.
// Punctuation and digits are charset-neutral, so a Russian document full of
// numbers still scores high.
const russianNeutral = ".:,-+=()!0123456789"

// sampleRunes bounds the density check to the head of the document. A wrong
// text layer is wrong from the first line.
const sampleRunes = 300

// looksLikeRussian reports whether the head of text reads as Russian: the
// share of Cyrillic letters, digits and common punctuation among non-space
// runes must reach threshold. Empty or all-space text never qualifies.
func looksLikeRussian(text string, threshold float64) bool {
	if threshold < 0 {
		return true
	}
	var total, hits, seen int
	for _, r := range text {
		if seen >= sampleRunes {
			break
		}
		seen++
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			continue
		}
		total++
		if isCyrillic(r) || indexRune(russianNeutral, r) {
			hits++
		}
	}
	if total == 0 {
		return false
	}
	return float64(hits)/float64(total) >= threshold
}

func isCyrillic(r rune) bool {
	return (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') || r == 'ё' || r == 'Ё'
}

func indexRune(s string, r rune) bool {
	if r >= utf8.RuneSelf {
		return false
	}
	for i := 0; i < len(s); i++ {
		if rune(s[i]) == r {
			return true
		}
	}
	return false
}
