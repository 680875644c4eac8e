package xtract

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// rawPDF is a structure-level view of a PDF, used as a second opinion when
// the renderer reports a page as textless. Sparse but real text layers
// (stamps, headers, short invoices) show up in the content streams even when
// the rendered text dump comes back near-empty.
type rawPDF struct {
	ctx *model.Context
}

func openRawPDF(data []byte) (*rawPDF, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, err
	}
	return &rawPDF{ctx: ctx}, nil
}

// pageHasText reports whether page pageNr (1-based) carries at least one
// non-blank text-showing span in its content stream.
func (r *rawPDF) pageHasText(pageNr int) bool {
	if r == nil || r.ctx == nil {
		return false
	}
	rd, err := pdfcpu.ExtractPageContent(r.ctx, pageNr)
	if err != nil {
		return false
	}
	data, err := io.ReadAll(rd)
	if err != nil || len(data) == 0 {
		return false
	}
	return streamHasTextSpan(data)
}

// hasImages reports whether the document references image XObjects anywhere.
func (r *rawPDF) hasImages() bool {
	if r == nil || r.ctx == nil {
		return false
	}
	if r.ctx.Optimize != nil {
		for pageNr := 1; pageNr <= r.ctx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(r.ctx, pageNr)) > 0 {
				return true
			}
		}
	}
	for _, entry := range r.ctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true
			}
		}
	}
	return false
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// streamHasTextSpan scans content stream operators for a text-showing span
// with visible characters. Only Tj, TJ and ' show text.
func streamHasTextSpan(data []byte) bool {
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		showsText := bytes.HasSuffix(line, []byte("Tj")) ||
			bytes.HasSuffix(line, []byte("TJ")) ||
			(bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")))
		if !showsText {
			continue
		}
		for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
			if hasVisible(decodePDFString(m[1])) {
				return true
			}
		}
	}
	return false
}

func hasVisible(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) && unicode.IsPrint(r) {
			return true
		}
	}
	return false
}

// decodePDFString handles basic PDF escape sequences, including octal.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '(':
				sb.WriteByte('(')
			case ')':
				sb.WriteByte(')')
			default:
				if raw[i] >= '0' && raw[i] <= '7' {
					val := int(raw[i] - '0')
					if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
						i++
						val = val*8 + int(raw[i]-'0')
						if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
							i++
							val = val*8 + int(raw[i]-'0')
						}
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(raw[i])
				}
			}
		} else {
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}
